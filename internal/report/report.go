// Package report assembles the monthly financial report.
package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// TopExpenses is the number of largest expenses listed.
const TopExpenses = 5

// CategoryRow compares a category's spending with its budget. Budget and
// Variance are nil for categories without a budget.
type CategoryRow struct {
	Category string
	Spent    int64
	Budget   *int64
	Variance *int64 // budget minus spent
}

func (r CategoryRow) Budgeted() bool { return r.Budget != nil }

type Report struct {
	Overview    analytics.Overview
	Categories  []CategoryRow // spent descending, ties by name
	TopExpenses []transaction.Transaction
}

// Build composes the report for the month containing ref.
func Build(txs []transaction.Transaction, budgets budget.Budgets, ref time.Time) Report {
	w := aggregate.MonthWindow(ref, 0)
	monthTxs := aggregate.FilterWindow(txs, w)

	var rows []CategoryRow

	for _, c := range aggregate.Rank(aggregate.SumByCategory(monthTxs, transaction.TypeExpense)) {
		row := CategoryRow{Category: c.Category, Spent: c.Amount}

		if limit, ok := budgets[c.Category]; ok {
			variance := limit - c.Amount
			row.Budget = &limit
			row.Variance = &variance
		}

		rows = append(rows, row)
	}

	return Report{
		Overview:    analytics.MonthOverview(txs, ref),
		Categories:  rows,
		TopExpenses: Largest(monthTxs, TopExpenses),
	}
}

// Largest returns up to n expenses ordered by amount descending, then
// category and description ascending.
func Largest(txs []transaction.Transaction, n int) []transaction.Transaction {
	expenses := aggregate.FilterType(txs, transaction.TypeExpense)

	slices.SortStableFunc(expenses, func(a, b transaction.Transaction) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}

		return cmp.Compare(a.Description, b.Description)
	})

	return expenses[:min(n, len(expenses))]
}
