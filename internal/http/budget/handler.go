package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

type Handler struct {
	ledger *ledger.Service
}

func NewHandler(l *ledger.Service) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.status)
	r.Put("/{category}", h.set)
}

type statusResponse struct {
	Category  string `json:"category"`
	Budget    int64  `json:"budget"`
	Spent     int64  `json:"spent"`
	Remaining int64  `json:"remaining"`
	Over      bool   `json:"over"`
}

func toStatusResponse(s budget.Status) statusResponse {
	return statusResponse{
		Category:  s.Category,
		Budget:    s.Budget,
		Spent:     s.Spent,
		Remaining: s.Remaining,
		Over:      s.Remaining < 0,
	}
}

// status reports every budget against this month's expenses.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.ledger.BudgetStatus(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]statusResponse, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, toStatusResponse(s))
	}

	respond.JSON(w, http.StatusOK, resp)
}

type setBudgetRequest struct {
	Amount int64 `json:"amount"`
}

type setBudgetResponse struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	category := chi.URLParam(r, "category")

	if err := h.ledger.SetBudget(r.Context(), category, req.Amount); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, setBudgetResponse{Category: category, Amount: req.Amount})
}
