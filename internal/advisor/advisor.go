// Package advisor turns a ledger snapshot into rule-based recommendations.
// The output is structured so that each front end can render it its own way.
package advisor

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Tips holds canned advice for well-known expense categories.
var Tips = map[string]string{
	"Food":      "Consider packing lunch or looking for deals to reduce food costs.",
	"Shopping":  "Try a 'no-spend' week or unsubscribe from marketing emails.",
	"Transport": "Could you use public transport or carpool more often?",
}

// SavingsTargetPercent of trailing average income is the suggested monthly saving.
const SavingsTargetPercent = 15

type TopCategory struct {
	Category string
	Amount   int64
	Tip      string // empty for categories without canned advice
}

type SavingsGoal struct {
	AverageIncome int64 // over exactly three months, empty months count as zero
	Target        int64
	Saved         int64 // this month
	OnTrack       bool
}

type BudgetState string

const (
	BudgetOver    BudgetState = "over budget"
	BudgetNearing BudgetState = "nearing limit"
)

// BudgetNote is emitted only for budgets that are over or close to their limit.
type BudgetNote struct {
	Category string
	State    BudgetState
	Budget   int64
	Spent    int64
}

// Overspent is how much spending exceeds the budget, or zero.
func (n BudgetNote) Overspent() int64 { return max(n.Spent-n.Budget, 0) }

// Left is what remains of the budget, or zero.
func (n BudgetNote) Left() int64 { return max(n.Budget-n.Spent, 0) }

type Advice struct {
	Month         aggregate.Window
	HasData       bool
	Top           *TopCategory // nil without expenses this month
	LargeExpenses []transaction.Transaction
	Savings       *SavingsGoal // nil without income over the trailing three months
	HasBudgets    bool
	Budgets       []BudgetNote
	Health        analytics.HealthScore
	HealthAdvice  string
}

// Advise evaluates every rule for the month containing ref.
func Advise(txs []transaction.Transaction, budgets budget.Budgets, ref time.Time) Advice {
	w := aggregate.MonthWindow(ref, 0)
	monthTxs := aggregate.FilterWindow(txs, w)

	health := analytics.Health(txs, budgets, ref)

	return Advice{
		Month:         w,
		HasData:       len(txs) > 0,
		Top:           topCategory(monthTxs),
		LargeExpenses: analytics.LargeExpenses(monthTxs),
		Savings:       savingsGoal(txs, monthTxs, ref),
		HasBudgets:    len(budgets) > 0,
		Budgets:       budgetNotes(budgets, monthTxs),
		Health:        health,
		HealthAdvice:  HealthAdvice(health.Total),
	}
}

func topCategory(monthTxs []transaction.Transaction) *TopCategory {
	ranked := aggregate.Rank(aggregate.SumByCategory(monthTxs, transaction.TypeExpense))
	if len(ranked) == 0 {
		return nil
	}

	return &TopCategory{Category: ranked[0].Category, Amount: ranked[0].Amount, Tip: Tips[ranked[0].Category]}
}

func savingsGoal(txs, monthTxs []transaction.Transaction, ref time.Time) *SavingsGoal {
	var total int64

	for offset := range analytics.SavingsMonths {
		w := aggregate.MonthWindow(ref, offset)
		total += aggregate.SumByType(aggregate.FilterWindow(txs, w), transaction.TypeIncome)
	}

	if total <= 0 {
		return nil
	}

	avg := total / analytics.SavingsMonths
	target := total * SavingsTargetPercent / (100 * analytics.SavingsMonths)
	saved := aggregate.SumByType(monthTxs, transaction.TypeIncome) - aggregate.SumByType(monthTxs, transaction.TypeExpense)

	return &SavingsGoal{AverageIncome: avg, Target: target, Saved: saved, OnTrack: saved >= target}
}

func budgetNotes(budgets budget.Budgets, monthTxs []transaction.Transaction) []BudgetNote {
	spent := aggregate.SumByCategory(monthTxs, transaction.TypeExpense)

	var notes []BudgetNote

	for _, c := range budgets.Categories() {
		limit, s := budgets[c], spent[c]

		switch {
		case s > limit:
			notes = append(notes, BudgetNote{Category: c, State: BudgetOver, Budget: limit, Spent: s})
		case s*10 > limit*8:
			notes = append(notes, BudgetNote{Category: c, State: BudgetNearing, Budget: limit, Spent: s})
		}
	}

	return notes
}

// HealthAdvice returns the general advice for a health score total.
func HealthAdvice(total int) string {
	switch {
	case total < 50:
		return "Focus on the basics: track all spending and create a budget for key categories."
	case total < 75:
		return "You're on the right track. Look for ways to increase your savings rate."
	default:
		return "Excellent! Consider setting long-term financial goals."
	}
}
