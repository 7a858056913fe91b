package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func expense(d time.Time, category string, amount int64, desc string) transaction.Transaction {
	return transaction.Transaction{Date: d, Type: transaction.TypeExpense, Category: category, Amount: amount, Description: desc}
}

func income(d time.Time, category string, amount int64) transaction.Transaction {
	return transaction.Transaction{Date: d, Type: transaction.TypeIncome, Category: category, Amount: amount}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, analytics.TrendUp, analytics.Compare(2, 1))
	assert.Equal(t, analytics.TrendDown, analytics.Compare(1, 2))
	assert.Equal(t, analytics.TrendStable, analytics.Compare(0, 0))
}

func TestSpending(t *testing.T) {
	txs := []transaction.Transaction{
		expense(date(2024, 6, 1), "Food", 300, "groceries"),
		expense(date(2024, 6, 2), "Bills", 300, "power"),
		expense(date(2024, 6, 3), "Transport", 100, "bus"),
		expense(date(2024, 6, 9), "Shopping", 300, "shoes"),
		expense(date(2024, 5, 20), "Food", 2000, "last month"),
		income(date(2024, 6, 1), "Salary", 99999),
	}

	got := analytics.Spending(txs, date(2024, 6, 10))

	assert.Equal(t, int64(1000), got.Total)
	assert.Equal(t, int64(2000), got.PreviousTotal)
	assert.Equal(t, analytics.TrendDown, got.Trend)
	assert.Equal(t, int64(100), got.BurnRate)

	require.Len(t, got.Breakdown, 4)
	assert.Equal(t, []analytics.CategoryShare{
		{Category: "Bills", Amount: 300, Percent: 30},
		{Category: "Food", Amount: 300, Percent: 30},
		{Category: "Shopping", Amount: 300, Percent: 30},
	}, got.Top)
	assert.Equal(t, 10.0, got.Breakdown[3].Percent)

	assert.Len(t, got.LargeExpenses, 3)
	assert.NotContains(t, got.LargeExpenses, txs[2])
}

func TestSpending_PercentOneDecimal(t *testing.T) {
	txs := []transaction.Transaction{
		expense(date(2024, 6, 1), "Food", 1, ""),
		expense(date(2024, 6, 1), "Bills", 2, ""),
	}

	got := analytics.Spending(txs, date(2024, 6, 30))
	assert.Equal(t, 66.7, got.Breakdown[0].Percent)
	assert.Equal(t, 33.3, got.Breakdown[1].Percent)
	assert.Equal(t, int64(0), got.BurnRate)
}

func TestSpending_Empty(t *testing.T) {
	got := analytics.Spending(nil, date(2024, 6, 30))
	assert.Zero(t, got.Total)
	assert.Empty(t, got.Breakdown)
	assert.Empty(t, got.Top)
	assert.Equal(t, analytics.TrendStable, got.Trend)
}

func TestLargeExpenses_StrictThreshold(t *testing.T) {
	d := date(2024, 6, 1)
	flagged := expense(d, "Bills", 260, "rent share")
	txs := []transaction.Transaction{flagged, expense(d, "Food", 740, "rest")}

	got := analytics.LargeExpenses(txs)
	assert.Equal(t, []transaction.Transaction{flagged, txs[1]}, got)

	notFlagged := expense(d, "Bills", 250, "exact quarter")
	txs = []transaction.Transaction{notFlagged, expense(d, "Food", 750, "rest")}
	got = analytics.LargeExpenses(txs)
	assert.NotContains(t, got, notFlagged)
	assert.Len(t, got, 1)
}

func TestIncome(t *testing.T) {
	txs := []transaction.Transaction{
		income(date(2024, 6, 1), "Salary", 5000),
		income(date(2024, 6, 15), "Freelance", 1000),
		income(date(2024, 5, 1), "Salary", 6000),
	}

	got := analytics.Income(txs, date(2024, 6, 20))
	assert.Equal(t, int64(6000), got.Total)
	assert.Equal(t, analytics.TrendStable, got.Trend)
	assert.Equal(t, analytics.StabilityVaried, got.Stability)
	assert.Equal(t, "Salary", got.Sources[0].Category)

	got = analytics.Income(txs, date(2024, 5, 20))
	assert.Equal(t, analytics.StabilityStable, got.Stability)
	assert.Equal(t, analytics.TrendUp, got.Trend)

	got = analytics.Income(txs, date(2024, 1, 20))
	assert.Equal(t, analytics.StabilityNone, got.Stability)
}

func TestSavings(t *testing.T) {
	txs := []transaction.Transaction{
		income(date(2023, 12, 5), "Salary", 1000),
		expense(date(2023, 12, 6), "Food", 800, ""),
		income(date(2024, 1, 5), "Salary", 1000),
		expense(date(2024, 1, 6), "Food", 500, ""),
		expense(date(2024, 2, 6), "Food", 100, ""),
	}

	got := analytics.Savings(txs, date(2024, 2, 10))
	require.Len(t, got, 3)

	assert.Equal(t, date(2023, 12, 1), got[0].Month.Start)
	assert.Equal(t, int64(200), got[0].Savings)
	assert.Equal(t, 20.0, got[0].Rate)
	assert.Equal(t, analytics.TrendNone, got[0].Trend)

	assert.Equal(t, int64(500), got[1].Savings)
	assert.Equal(t, 50.0, got[1].Rate)
	assert.Equal(t, analytics.TrendUp, got[1].Trend)

	assert.Equal(t, int64(-100), got[2].Savings)
	assert.Zero(t, got[2].Rate)
	assert.Equal(t, analytics.TrendDown, got[2].Trend)
}

func TestSeries(t *testing.T) {
	txs := []transaction.Transaction{
		income(date(2024, 3, 1), "Salary", 1000),
		expense(date(2024, 1, 2), "Food", 10, ""),
		expense(date(2024, 3, 2), "Food", 400, ""),
	}

	got := analytics.Series(txs)
	require.Len(t, got, 2)
	assert.Equal(t, date(2024, 1, 1), got[0].Month.Start)
	assert.Equal(t, int64(-10), got[0].Savings)
	assert.Equal(t, int64(600), got[1].Savings)
}

func TestMonthOverview(t *testing.T) {
	txs := []transaction.Transaction{
		income(date(2024, 3, 1), "Salary", 1000),
		expense(date(2024, 3, 2), "Food", 400, ""),
		expense(date(2024, 4, 2), "Food", 999, ""),
	}

	got := analytics.MonthOverview(txs, date(2024, 3, 31))
	assert.Equal(t, int64(1000), got.Income)
	assert.Equal(t, int64(400), got.Expense)
	assert.Equal(t, int64(600), got.Savings)
}

func TestHealth(t *testing.T) {
	ref := date(2024, 4, 15)

	t.Run("NoBudgets", func(t *testing.T) {
		txs := []transaction.Transaction{
			income(date(2024, 4, 1), "Salary", 10000),
			expense(date(2024, 4, 2), "Food", 5000, ""),
		}

		got := analytics.Health(txs, nil, ref)
		assert.Equal(t, 30, got.Savings)
		assert.Equal(t, 25, got.IncomeVsExpense)
		assert.Equal(t, 10, got.BudgetAdherence)
		assert.Equal(t, 20, got.Debt)
		assert.Equal(t, 85, got.Total)
		assert.Equal(t, analytics.BandGood, got.Band)
		assert.Equal(t, 50.0, got.SavingsRate)
		assert.Equal(t, []string{"Create budgets for your spending categories and stick to them."}, got.Recommendations)
	})

	t.Run("SlightlyOverBudget", func(t *testing.T) {
		txs := []transaction.Transaction{
			income(date(2024, 4, 1), "Salary", 10000),
			expense(date(2024, 4, 2), "Food", 1050, ""),
			expense(date(2024, 4, 3), "Unbudgeted", 8000, ""),
		}

		got := analytics.Health(txs, budget.Budgets{"Food": 1000}, ref)
		assert.Equal(t, 15, got.BudgetAdherence)
		assert.Equal(t, 10, got.Savings)
		assert.Equal(t, 10+25+15+20, got.Total)
		assert.Equal(t, analytics.BandFair, got.Band)
	})

	t.Run("AllBudgetsZero", func(t *testing.T) {
		got := analytics.Health(nil, budget.Budgets{"Food": 0}, ref)
		assert.Equal(t, 0, got.BudgetAdherence)
		assert.Equal(t, 0, got.Savings)
		assert.Equal(t, 5, got.IncomeVsExpense)
		assert.Equal(t, 25, got.Total)
		assert.Equal(t, analytics.BandPoor, got.Band)
		assert.Len(t, got.Recommendations, 3)
	})
}

func TestAdherenceScore(t *testing.T) {
	type testCase struct {
		name       string
		budgeted   int64
		spent      int64
		hasBudgets bool
		want       int
	}

	tests := []testCase{
		{name: "NoBudgets", want: 10},
		{name: "ZeroBudgeted", hasBudgets: true, spent: 10, want: 0},
		{name: "Under", hasBudgets: true, budgeted: 1000, spent: 999, want: 25},
		{name: "Exact", hasBudgets: true, budgeted: 1000, spent: 1000, want: 25},
		{name: "FivePercentOver", hasBudgets: true, budgeted: 1000, spent: 1050, want: 15},
		{name: "TenPercentOver", hasBudgets: true, budgeted: 1000, spent: 1100, want: 15},
		{name: "WellOver", hasBudgets: true, budgeted: 1000, spent: 1101, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.AdherenceScore(tt.budgeted, tt.spent, tt.hasBudgets))
		})
	}
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, analytics.BandGood, analytics.BandFor(75))
	assert.Equal(t, analytics.BandFair, analytics.BandFor(74))
	assert.Equal(t, analytics.BandFair, analytics.BandFor(50))
	assert.Equal(t, analytics.BandPoor, analytics.BandFor(49))
}
