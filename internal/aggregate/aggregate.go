// Package aggregate holds the pure arithmetic over transaction snapshots.
// Every sum is computed in int64 minor units.
package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Window is a half-open date interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label renders the month of w as "January 2024".
func (w Window) Label() string {
	return w.Start.Format("January 2006")
}

// MonthWindow returns the calendar month containing ref, shifted offset whole
// months into the past.
func MonthWindow(ref time.Time, offset int) Window {
	start := time.Date(ref.Year(), ref.Month()-time.Month(offset), 1, 0, 0, 0, 0, time.UTC)

	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

func SumByType(txs []transaction.Transaction, typ transaction.Type) int64 {
	var total int64

	for _, tx := range txs {
		if tx.Type == typ {
			total += tx.Amount
		}
	}

	return total
}

// SumByCategory groups the transactions of typ by category. Categories with
// no matching transaction are absent.
func SumByCategory(txs []transaction.Transaction, typ transaction.Type) map[string]int64 {
	sums := make(map[string]int64)

	for _, tx := range txs {
		if tx.Type == typ {
			sums[tx.Category] += tx.Amount
		}
	}

	return sums
}

func FilterWindow(txs []transaction.Transaction, w Window) []transaction.Transaction {
	var out []transaction.Transaction

	for _, tx := range txs {
		if w.Contains(tx.Date) {
			out = append(out, tx)
		}
	}

	return out
}

func FilterType(txs []transaction.Transaction, typ transaction.Type) []transaction.Transaction {
	var out []transaction.Transaction

	for _, tx := range txs {
		if tx.Type == typ {
			out = append(out, tx)
		}
	}

	return out
}

// SumInBudgeted totals the expenses whose category appears in categories.
func SumInBudgeted(txs []transaction.Transaction, categories map[string]int64) int64 {
	var total int64

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		if _, ok := categories[tx.Category]; ok {
			total += tx.Amount
		}
	}

	return total
}

type CategoryAmount struct {
	Category string
	Amount   int64
}

// Rank orders category sums by amount descending, then by name ascending.
func Rank(sums map[string]int64) []CategoryAmount {
	ranked := make([]CategoryAmount, 0, len(sums))
	for c, a := range sums {
		ranked = append(ranked, CategoryAmount{Category: c, Amount: a})
	}

	slices.SortFunc(ranked, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return ranked
}

// Months returns the windows of every calendar month holding at least one
// transaction, oldest first.
func Months(txs []transaction.Transaction) []Window {
	seen := make(map[time.Time]struct{})

	var out []Window

	for _, tx := range txs {
		w := MonthWindow(tx.Date, 0)
		if _, ok := seen[w.Start]; ok {
			continue
		}

		seen[w.Start] = struct{}{}
		out = append(out, w)
	}

	slices.SortFunc(out, func(a, b Window) int { return a.Start.Compare(b.Start) })

	return out
}
