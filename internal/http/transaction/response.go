package transaction

import (
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type transactionResponse struct {
	Date        string           `json:"date"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Amount      int64            `json:"amount"`
	Description string           `json:"description"`
}

type alertResponse struct {
	Level     budget.AlertLevel `json:"level"`
	Category  string            `json:"category"`
	Budget    int64             `json:"budget"`
	Projected int64             `json:"projected"`
	Overrun   int64             `json:"overrun,omitempty"`
	Remaining int64             `json:"remaining"`
}

type createResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Alert       *alertResponse      `json:"alert,omitempty"`
}

func toResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		Date:        tx.Date.Format(transaction.DateLayout),
		Type:        tx.Type,
		Category:    tx.Category,
		Amount:      tx.Amount,
		Description: tx.Description,
	}
}

func toResponseList(txs []transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toAlertResponse(a *budget.Alert) *alertResponse {
	if a == nil {
		return nil
	}

	return &alertResponse{
		Level:     a.Level,
		Category:  a.Category,
		Budget:    a.Budget,
		Projected: a.Projected,
		Overrun:   a.Overrun(),
		Remaining: a.Remaining(),
	}
}
