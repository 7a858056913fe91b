package view

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/advisor"
	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestTimeframeFilter(t *testing.T) {
	today := time.Date(2024, 3, 15, 21, 30, 0, 0, time.UTC)

	type testCase struct {
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{tf: TimeframeLast7Days, wantStart: day(2024, 3, 9)},
		{tf: TimeframeThisMonth, wantStart: day(2024, 3, 1), wantEnd: day(2024, 3, 15)},
		{tf: TimeframeLastMonth, wantStart: day(2024, 2, 1), wantEnd: day(2024, 2, 29)},
		{tf: TimeframeThisYear, wantStart: day(2024, 1, 1), wantEnd: day(2024, 3, 15)},
		{tf: TimeframeAll},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			f := timeframeFilter(tt.tf, today)

			if tt.wantStart.IsZero() {
				assert.Nil(t, f.StartDate)
			} else {
				require.NotNil(t, f.StartDate)
				assert.Equal(t, tt.wantStart, *f.StartDate)
			}

			if tt.wantEnd.IsZero() {
				assert.Nil(t, f.EndDate)
			} else {
				require.NotNil(t, f.EndDate)
				assert.Equal(t, tt.wantEnd, *f.EndDate)
			}
		})
	}
}

func TestCustomFilter(t *testing.T) {
	f, err := customFilter("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), *f.StartDate)
	assert.Equal(t, day(2024, 1, 31), *f.EndDate)

	_, err = customFilter("2024-02-01", "2024-01-01")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = customFilter("yesterday", "2024-01-01")
	assert.Error(t, err)
}

func TestExportFields(t *testing.T) {
	f := exportFields{Format: "json", Range: string(export.RangeLastMonth), Start: "garbage"}

	p, err := f.params()
	require.NoError(t, err, "dates are ignored outside custom ranges")
	assert.Equal(t, export.Params{Format: export.FormatJSON, Range: export.RangeLastMonth}, p)
	assert.Equal(t, "tally_export_last-month_20240315.json", f.fileName(day(2024, 3, 15)))

	f.Range = string(export.RangeCustom)
	_, err = f.params()
	assert.ErrorIs(t, err, core.ErrValidation)

	f.Start, f.End = "2024-01-01", "2024-01-31"
	p, err = f.params()
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 31), p.End)
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+5,000.00", FormatSigned(transaction.Transaction{Type: transaction.TypeIncome, Amount: 500000}))
	assert.Equal(t, "-12.50", FormatSigned(transaction.Transaction{Type: transaction.TypeExpense, Amount: 1250}))
}

func TestAlertView(t *testing.T) {
	assert.Empty(t, alertView(nil))

	over := alertView(&budget.Alert{Level: budget.AlertOver, Category: "Food", Budget: 1000, Projected: 1050})
	assert.Contains(t, over, "Budget exceeded for Food")
	assert.Contains(t, over, "0.50")

	warn := alertView(&budget.Alert{Level: budget.AlertWarning, Category: "Food", Budget: 1000, Projected: 950})
	assert.Contains(t, warn, "Nearing the Food budget")
}

func TestRenderSections(t *testing.T) {
	month := aggregate.MonthWindow(day(2024, 3, 15), 0)

	t.Run("Balance", func(t *testing.T) {
		out := renderBalance(ledger.Balance{Overview: analytics.Overview{Month: month, Income: 10000, Expense: 2500, Savings: 7500}})
		assert.Contains(t, out, "March 2024")
		assert.Contains(t, out, "75.00")
		assert.NotContains(t, out, "unreadable")
	})

	t.Run("BalanceWithMalformedLines", func(t *testing.T) {
		out := renderBalance(ledger.Balance{Overview: analytics.Overview{Month: month}, Malformed: 3})
		assert.Contains(t, out, "3 unreadable lines")
	})

	t.Run("SpendingEmpty", func(t *testing.T) {
		assert.Contains(t, renderSpending(analytics.SpendingAnalysis{Month: month}), "No expenses recorded")
	})

	t.Run("Series", func(t *testing.T) {
		out := renderSeries([]analytics.MonthPoint{
			{Month: aggregate.MonthWindow(day(2024, 2, 1), 0), Income: 100, Expense: 50, Savings: 50},
			{Month: month, Income: 200, Expense: 300, Savings: -100},
		})
		assert.Equal(t, 1, strings.Count(out, "February 2024"))
		assert.Contains(t, out, "-1.00")
	})

	t.Run("AdviceWithoutData", func(t *testing.T) {
		assert.Contains(t, renderAdvice(advisor.Advice{Month: month}), "Add some transactions first")
	})

	t.Run("AdviceBudgets", func(t *testing.T) {
		out := renderAdvice(advisor.Advice{
			Month:      month,
			HasData:    true,
			HasBudgets: true,
			Budgets: []advisor.BudgetNote{
				{Category: "Food", State: advisor.BudgetOver, Budget: 1000, Spent: 1500},
				{Category: "Bills", State: advisor.BudgetNearing, Budget: 1000, Spent: 900},
			},
		})
		assert.Contains(t, out, "Food is over budget by 5.00")
		assert.Contains(t, out, "Bills is nearing its limit: 1.00 left")
		assert.Contains(t, out, "Record some income")
	})
}

func TestFit(t *testing.T) {
	assert.Equal(t, 28, fit(40, 12, 5))
	assert.Equal(t, 5, fit(10, 12, 5))
}

func TestUnlisted(t *testing.T) {
	cats := core.Categories{Expense: []string{"Food", "Other"}, Income: []string{"Salary"}}

	txs := []transaction.Transaction{
		{Type: transaction.TypeExpense, Category: "Food"},
		{Type: transaction.TypeExpense, Category: "Pets"},
		{Type: transaction.TypeIncome, Category: "Food"},
		{Type: transaction.TypeExpense, Category: "Pets"},
		{Type: transaction.TypeIncome, Category: "Salary"},
	}

	assert.Equal(t, []string{"Food", "Pets"}, unlisted(cats, txs))
	assert.Empty(t, unlisted(cats, txs[:1]))
}
