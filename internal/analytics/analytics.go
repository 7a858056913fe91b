// Package analytics derives comparative views of a ledger snapshot: category
// breakdowns, month-over-month trends, savings history and the financial
// health score.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Trend string

const (
	TrendNone   Trend = ""
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Compare classifies current against previous.
func Compare(current, previous int64) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendStable
	}
}

// TopN is how many categories an analysis singles out.
const TopN = 3

type CategoryShare struct {
	Category string
	Amount   int64
	Percent  float64 // of the month total, one decimal
}

func shares(sums map[string]int64, total int64) []CategoryShare {
	ranked := aggregate.Rank(sums)

	out := make([]CategoryShare, len(ranked))
	for i, r := range ranked {
		out[i] = CategoryShare{Category: r.Category, Amount: r.Amount, Percent: core.Percent(r.Amount, total, 1)}
	}

	return out
}

func top(s []CategoryShare) []CategoryShare {
	return s[:min(len(s), TopN)]
}

// Overview is the income, expense and net savings of one month.
type Overview struct {
	Month   aggregate.Window
	Income  int64
	Expense int64
	Savings int64
}

func MonthOverview(txs []transaction.Transaction, ref time.Time) Overview {
	w := aggregate.MonthWindow(ref, 0)
	return overview(aggregate.FilterWindow(txs, w), w)
}

func overview(monthTxs []transaction.Transaction, w aggregate.Window) Overview {
	income := aggregate.SumByType(monthTxs, transaction.TypeIncome)
	expense := aggregate.SumByType(monthTxs, transaction.TypeExpense)

	return Overview{Month: w, Income: income, Expense: expense, Savings: income - expense}
}

type SpendingAnalysis struct {
	Month         aggregate.Window
	Total         int64
	PreviousTotal int64
	Trend         Trend
	Breakdown     []CategoryShare // amount descending, ties by name
	Top           []CategoryShare
	BurnRate      int64 // average expense per elapsed day of the month
	LargeExpenses []transaction.Transaction
}

// Spending analyses the expenses of the month containing ref against the
// month before it. Days after ref do not count towards the burn rate.
func Spending(txs []transaction.Transaction, ref time.Time) SpendingAnalysis {
	cur := aggregate.MonthWindow(ref, 0)
	curTxs := aggregate.FilterWindow(txs, cur)
	prevTxs := aggregate.FilterWindow(txs, aggregate.MonthWindow(ref, 1))

	total := aggregate.SumByType(curTxs, transaction.TypeExpense)
	prev := aggregate.SumByType(prevTxs, transaction.TypeExpense)
	breakdown := shares(aggregate.SumByCategory(curTxs, transaction.TypeExpense), total)

	return SpendingAnalysis{
		Month:         cur,
		Total:         total,
		PreviousTotal: prev,
		Trend:         Compare(total, prev),
		Breakdown:     breakdown,
		Top:           top(breakdown),
		BurnRate:      perDay(total, ref.Day()),
		LargeExpenses: LargeExpenses(curTxs),
	}
}

func perDay(total int64, days int) int64 {
	if days <= 0 {
		return 0
	}

	return decimal.NewFromInt(total).DivRound(decimal.NewFromInt(int64(days)), 0).IntPart()
}

type Stability string

const (
	StabilityNone   Stability = ""
	StabilityStable Stability = "Stable"
	StabilityVaried Stability = "Varied"
)

type IncomeAnalysis struct {
	Month         aggregate.Window
	Total         int64
	PreviousTotal int64
	Trend         Trend
	Sources       []CategoryShare
	Top           []CategoryShare
	Stability     Stability
}

// Income analyses the income of the month containing ref against the month before it.
func Income(txs []transaction.Transaction, ref time.Time) IncomeAnalysis {
	cur := aggregate.MonthWindow(ref, 0)
	curTxs := aggregate.FilterWindow(txs, cur)
	prevTxs := aggregate.FilterWindow(txs, aggregate.MonthWindow(ref, 1))

	total := aggregate.SumByType(curTxs, transaction.TypeIncome)
	prev := aggregate.SumByType(prevTxs, transaction.TypeIncome)
	sources := shares(aggregate.SumByCategory(curTxs, transaction.TypeIncome), total)

	stability := StabilityNone

	switch {
	case len(sources) == 1:
		stability = StabilityStable
	case len(sources) > 1:
		stability = StabilityVaried
	}

	return IncomeAnalysis{
		Month:         cur,
		Total:         total,
		PreviousTotal: prev,
		Trend:         Compare(total, prev),
		Sources:       sources,
		Top:           top(sources),
		Stability:     stability,
	}
}

// LargeExpenses returns, in input order, the expenses of monthTxs whose
// amount is strictly greater than a quarter of the total expense of monthTxs.
func LargeExpenses(monthTxs []transaction.Transaction) []transaction.Transaction {
	total := aggregate.SumByType(monthTxs, transaction.TypeExpense)

	var out []transaction.Transaction

	for _, tx := range monthTxs {
		if tx.Type == transaction.TypeExpense && tx.Amount*4 > total {
			out = append(out, tx)
		}
	}

	return out
}

// SavingsMonths is the length of the savings history.
const SavingsMonths = 3

type MonthSavings struct {
	Overview
	Rate  float64 // savings as a percentage of income, 0 without income
	Trend Trend   // against the previous entry; TrendNone for the first
}

// Savings reports the month containing ref and the two months before it,
// oldest first.
func Savings(txs []transaction.Transaction, ref time.Time) []MonthSavings {
	out := make([]MonthSavings, 0, SavingsMonths)

	for offset := SavingsMonths - 1; offset >= 0; offset-- {
		w := aggregate.MonthWindow(ref, offset)
		o := overview(aggregate.FilterWindow(txs, w), w)

		ms := MonthSavings{Overview: o, Rate: core.Percent(o.Savings, o.Income, 2)}
		if n := len(out); n > 0 {
			ms.Trend = Compare(o.Savings, out[n-1].Savings)
		}

		out = append(out, ms)
	}

	return out
}

// MonthPoint is one entry of the monthly trend series.
type MonthPoint = Overview

// Series returns an overview of every month present in txs, oldest first.
func Series(txs []transaction.Transaction) []MonthPoint {
	months := aggregate.Months(txs)

	out := make([]MonthPoint, 0, len(months))
	for _, w := range months {
		out = append(out, overview(aggregate.FilterWindow(txs, w), w))
	}

	return out
}
