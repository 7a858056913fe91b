package analytics

import (
	"github.com/MrJamesThe3rd/tally/internal/advisor"
	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/report"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type monthResponse struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"` // exclusive
}

func toMonth(w aggregate.Window) monthResponse {
	return monthResponse{
		Label: w.Label(),
		Start: w.Start.Format(transaction.DateLayout),
		End:   w.End.Format(transaction.DateLayout),
	}
}

type transactionResponse struct {
	Date        string           `json:"date"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Amount      int64            `json:"amount"`
	Description string           `json:"description"`
}

func toTransactions(txs []transaction.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			Date:        tx.Date.Format(transaction.DateLayout),
			Type:        tx.Type,
			Category:    tx.Category,
			Amount:      tx.Amount,
			Description: tx.Description,
		})
	}

	return out
}

type overviewResponse struct {
	Month   monthResponse `json:"month"`
	Income  int64         `json:"income"`
	Expense int64         `json:"expense"`
	Savings int64         `json:"savings"`
}

func toOverview(o analytics.Overview) overviewResponse {
	return overviewResponse{Month: toMonth(o.Month), Income: o.Income, Expense: o.Expense, Savings: o.Savings}
}

type balanceResponse struct {
	overviewResponse
	MalformedRecords int `json:"malformed_records"`
}

func toBalance(b ledger.Balance) balanceResponse {
	return balanceResponse{overviewResponse: toOverview(b.Overview), MalformedRecords: b.Malformed}
}

type shareResponse struct {
	Category string  `json:"category"`
	Amount   int64   `json:"amount"`
	Percent  float64 `json:"percent"`
}

func toShares(s []analytics.CategoryShare) []shareResponse {
	out := make([]shareResponse, 0, len(s))
	for _, c := range s {
		out = append(out, shareResponse{Category: c.Category, Amount: c.Amount, Percent: c.Percent})
	}

	return out
}

type spendingResponse struct {
	Month         monthResponse         `json:"month"`
	Total         int64                 `json:"total"`
	PreviousTotal int64                 `json:"previous_total"`
	Trend         analytics.Trend       `json:"trend"`
	Breakdown     []shareResponse       `json:"breakdown"`
	Top           []shareResponse       `json:"top"`
	BurnRate      int64                 `json:"burn_rate"`
	LargeExpenses []transactionResponse `json:"large_expenses"`
}

func toSpending(s analytics.SpendingAnalysis) spendingResponse {
	return spendingResponse{
		Month:         toMonth(s.Month),
		Total:         s.Total,
		PreviousTotal: s.PreviousTotal,
		Trend:         s.Trend,
		Breakdown:     toShares(s.Breakdown),
		Top:           toShares(s.Top),
		BurnRate:      s.BurnRate,
		LargeExpenses: toTransactions(s.LargeExpenses),
	}
}

type incomeResponse struct {
	Month         monthResponse       `json:"month"`
	Total         int64               `json:"total"`
	PreviousTotal int64               `json:"previous_total"`
	Trend         analytics.Trend     `json:"trend"`
	Sources       []shareResponse     `json:"sources"`
	Top           []shareResponse     `json:"top"`
	Stability     analytics.Stability `json:"stability,omitempty"`
}

func toIncome(i analytics.IncomeAnalysis) incomeResponse {
	return incomeResponse{
		Month:         toMonth(i.Month),
		Total:         i.Total,
		PreviousTotal: i.PreviousTotal,
		Trend:         i.Trend,
		Sources:       toShares(i.Sources),
		Top:           toShares(i.Top),
		Stability:     i.Stability,
	}
}

type savingsResponse struct {
	overviewResponse

	Rate  float64         `json:"rate"`
	Trend analytics.Trend `json:"trend,omitempty"`
}

func toSavings(ms []analytics.MonthSavings) []savingsResponse {
	out := make([]savingsResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, savingsResponse{overviewResponse: toOverview(m.Overview), Rate: m.Rate, Trend: m.Trend})
	}

	return out
}

type scoresResponse struct {
	Savings         int `json:"savings"`
	IncomeVsExpense int `json:"income_vs_expense"`
	BudgetAdherence int `json:"budget_adherence"`
	Debt            int `json:"debt"`
}

type healthResponse struct {
	Month           monthResponse  `json:"month"`
	SavingsRate     float64        `json:"savings_rate"`
	Scores          scoresResponse `json:"scores"`
	Total           int            `json:"total"`
	Band            analytics.Band `json:"band"`
	Recommendations []string       `json:"recommendations"`
}

func toHealth(h analytics.HealthScore) healthResponse {
	return healthResponse{
		Month:       toMonth(h.Month),
		SavingsRate: h.SavingsRate,
		Scores: scoresResponse{
			Savings:         h.Savings,
			IncomeVsExpense: h.IncomeVsExpense,
			BudgetAdherence: h.BudgetAdherence,
			Debt:            h.Debt,
		},
		Total:           h.Total,
		Band:            h.Band,
		Recommendations: h.Recommendations,
	}
}

type topCategoryResponse struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Tip      string `json:"tip,omitempty"`
}

type savingsGoalResponse struct {
	AverageIncome int64 `json:"average_income"`
	Target        int64 `json:"target"`
	Saved         int64 `json:"saved"`
	OnTrack       bool  `json:"on_track"`
}

type budgetNoteResponse struct {
	Category  string              `json:"category"`
	State     advisor.BudgetState `json:"state"`
	Budget    int64               `json:"budget"`
	Spent     int64               `json:"spent"`
	Overspent int64               `json:"overspent,omitempty"`
	Left      int64               `json:"left,omitempty"`
}

type adviceResponse struct {
	Month         monthResponse         `json:"month"`
	HasData       bool                  `json:"has_data"`
	Top           *topCategoryResponse  `json:"top_category,omitempty"`
	LargeExpenses []transactionResponse `json:"large_expenses"`
	Savings       *savingsGoalResponse  `json:"savings_goal,omitempty"`
	HasBudgets    bool                  `json:"has_budgets"`
	Budgets       []budgetNoteResponse  `json:"budgets"`
	Health        healthResponse        `json:"health"`
	HealthAdvice  string                `json:"health_advice"`
}

func toAdvice(a advisor.Advice) adviceResponse {
	resp := adviceResponse{
		Month:         toMonth(a.Month),
		HasData:       a.HasData,
		LargeExpenses: toTransactions(a.LargeExpenses),
		HasBudgets:    a.HasBudgets,
		Budgets:       make([]budgetNoteResponse, 0, len(a.Budgets)),
		Health:        toHealth(a.Health),
		HealthAdvice:  a.HealthAdvice,
	}

	if a.Top != nil {
		resp.Top = &topCategoryResponse{Category: a.Top.Category, Amount: a.Top.Amount, Tip: a.Top.Tip}
	}

	if a.Savings != nil {
		resp.Savings = &savingsGoalResponse{
			AverageIncome: a.Savings.AverageIncome,
			Target:        a.Savings.Target,
			Saved:         a.Savings.Saved,
			OnTrack:       a.Savings.OnTrack,
		}
	}

	for _, n := range a.Budgets {
		resp.Budgets = append(resp.Budgets, budgetNoteResponse{
			Category:  n.Category,
			State:     n.State,
			Budget:    n.Budget,
			Spent:     n.Spent,
			Overspent: n.Overspent(),
			Left:      n.Left(),
		})
	}

	return resp
}

type categoryRowResponse struct {
	Category string `json:"category"`
	Spent    int64  `json:"spent"`
	Budget   *int64 `json:"budget,omitempty"`
	Variance *int64 `json:"variance,omitempty"`
}

type reportResponse struct {
	Overview    overviewResponse      `json:"overview"`
	Categories  []categoryRowResponse `json:"categories"`
	TopExpenses []transactionResponse `json:"top_expenses"`
}

func toReport(r report.Report) reportResponse {
	rows := make([]categoryRowResponse, 0, len(r.Categories))
	for _, c := range r.Categories {
		rows = append(rows, categoryRowResponse{Category: c.Category, Spent: c.Spent, Budget: c.Budget, Variance: c.Variance})
	}

	return reportResponse{
		Overview:    toOverview(r.Overview),
		Categories:  rows,
		TopExpenses: toTransactions(r.TopExpenses),
	}
}
