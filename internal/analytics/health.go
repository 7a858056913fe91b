package analytics

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Sub-score ceilings of the health score.
const (
	MaxSavingsScore         = 30
	MaxIncomeVsExpenseScore = 25
	MaxAdherenceScore       = 25
	MaxDebtScore            = 20
)

type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// BandFor maps a total score onto its display band.
func BandFor(total int) Band {
	switch {
	case total >= 75:
		return BandGood
	case total >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

type HealthScore struct {
	Month           aggregate.Window
	SavingsRate     float64
	Savings         int
	IncomeVsExpense int
	BudgetAdherence int
	Debt            int
	Total           int
	Band            Band
	Recommendations []string
}

// Health scores the month containing ref.
func Health(txs []transaction.Transaction, budgets budget.Budgets, ref time.Time) HealthScore {
	w := aggregate.MonthWindow(ref, 0)
	monthTxs := aggregate.FilterWindow(txs, w)
	o := overview(monthTxs, w)

	h := HealthScore{
		Month:           w,
		SavingsRate:     core.Percent(o.Savings, o.Income, 2),
		Savings:         savingsScore(o.Savings, o.Income),
		IncomeVsExpense: incomeVsExpenseScore(o.Income, o.Expense),
		BudgetAdherence: AdherenceScore(budgets.Total(), aggregate.SumInBudgeted(monthTxs, budgets), len(budgets) > 0),
		Debt:            MaxDebtScore, // debts are not tracked
	}

	h.Total = h.Savings + h.IncomeVsExpense + h.BudgetAdherence + h.Debt
	h.Band = BandFor(h.Total)
	h.Recommendations = recommendations(h)

	return h
}

// savingsScore compares savings/income against 20% and 10% without
// leaving integer arithmetic.
func savingsScore(savings, income int64) int {
	if income <= 0 {
		return 0
	}

	switch {
	case savings*100 >= 20*income:
		return MaxSavingsScore
	case savings*100 >= 10*income:
		return 20
	case savings > 0:
		return 10
	default:
		return 0
	}
}

func incomeVsExpenseScore(income, expense int64) int {
	if income > expense {
		return MaxIncomeVsExpenseScore
	}

	return 5
}

// AdherenceScore rates month spend in budgeted categories against the sum of
// those budgets. Without budgets it gives partial credit; when every budget
// is zero it gives none.
func AdherenceScore(budgeted, spent int64, hasBudgets bool) int {
	if !hasBudgets {
		return 10
	}

	if budgeted == 0 {
		return 0
	}

	over := spent - budgeted

	switch {
	case over <= 0:
		return MaxAdherenceScore
	case over*10 <= budgeted:
		return 15
	default:
		return 5
	}
}

func recommendations(h HealthScore) []string {
	var recs []string

	if h.Savings < 20 {
		recs = append(recs, "Aim to save at least 10-20% of your income.")
	}

	if h.BudgetAdherence < 15 {
		recs = append(recs, "Create budgets for your spending categories and stick to them.")
	}

	if h.IncomeVsExpense < MaxIncomeVsExpenseScore {
		recs = append(recs, "Your expenses are higher than your income. Review spending immediately.")
	}

	if len(recs) == 0 {
		recs = append(recs, "You're doing great! Keep up the good habits.")
	}

	return recs
}
