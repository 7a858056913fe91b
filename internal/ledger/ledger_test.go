package ledger_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/tally/internal/budget/store"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/filestore"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

type recorder struct {
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return r.err
}

type fixture struct {
	txRepo     *transaction.MockRepository
	budgetRepo *budget.MockRepository
	published  *recorder
	svc        *ledger.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		txRepo:     transaction.NewMockRepository(ctrl),
		budgetRepo: budget.NewMockRepository(ctrl),
		published:  &recorder{},
	}

	f.svc = ledger.NewService(
		transaction.NewService(f.txRepo),
		budget.NewService(f.budgetRepo),
		ledger.WithClock(func() time.Time { return time.Date(2024, 5, 20, 13, 0, 0, 0, time.UTC) }),
		ledger.WithPublisher(f.published),
	)

	return f
}

var stored = []transaction.Transaction{
	{Date: date(2024, 5, 1), Type: transaction.TypeIncome, Category: "Salary", Amount: 10000},
	{Date: date(2024, 5, 2), Type: transaction.TypeExpense, Category: "Food", Amount: 850},
	{Date: date(2024, 4, 2), Type: transaction.TypeExpense, Category: "Food", Amount: 4000},
}

func TestService_AddTransaction_BudgetAlert(t *testing.T) {
	f := newFixture(t)

	f.txRepo.EXPECT().LoadTransactions(gomock.Any()).Return(stored, nil)
	f.budgetRepo.EXPECT().LoadBudgets(gomock.Any()).Return(budget.Budgets{"Food": 1000}, nil)
	f.txRepo.EXPECT().AppendTransaction(gomock.Any(), gomock.Any()).Return(nil)

	got, err := f.svc.AddTransaction(context.Background(), transaction.CreateParams{
		Date: date(2024, 5, 20), Type: transaction.TypeExpense, Category: "Food", Amount: 200, Description: "dinner",
	})
	require.NoError(t, err)
	require.NotNil(t, got.Alert)
	assert.Equal(t, budget.AlertOver, got.Alert.Level)
	assert.Equal(t, int64(50), got.Alert.Overrun())

	require.Len(t, f.published.events, 1)
	assert.Equal(t, events.KindTransactionAdded, f.published.events[0].Kind)
	assert.Equal(t, int64(200), f.published.events[0].Amount)
}

func TestService_AddTransaction_IncomeSkipsAlert(t *testing.T) {
	f := newFixture(t)
	f.published.err = errors.New("broker down")

	f.txRepo.EXPECT().AppendTransaction(gomock.Any(), gomock.Any()).Return(nil)

	got, err := f.svc.AddTransaction(context.Background(), transaction.CreateParams{
		Date: date(2024, 5, 20), Type: transaction.TypeIncome, Category: "Gift", Amount: 200,
	})
	require.NoError(t, err, "publish failures must not fail the write")
	assert.Nil(t, got.Alert)
}

func TestService_AddTransaction_Invalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddTransaction(context.Background(), transaction.CreateParams{
		Date: date(2024, 5, 20), Type: transaction.TypeExpense, Category: "Food",
	})
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Empty(t, f.published.events)
}

func TestService_SnapshotError(t *testing.T) {
	f := newFixture(t)

	f.txRepo.EXPECT().LoadTransactions(gomock.Any()).Return(nil, &core.StoreError{Op: "open", Err: errors.New("denied")})
	f.budgetRepo.EXPECT().LoadBudgets(gomock.Any()).Return(budget.Budgets{}, nil).AnyTimes()

	_, err := f.svc.Health(context.Background())
	assert.ErrorIs(t, err, core.ErrStore)
}

func TestService_Views(t *testing.T) {
	f := newFixture(t)

	f.txRepo.EXPECT().LoadTransactions(gomock.Any()).Return(stored, nil).AnyTimes()
	f.budgetRepo.EXPECT().LoadBudgets(gomock.Any()).Return(budget.Budgets{"Food": 1000}, nil).AnyTimes()

	ctx := context.Background()

	assert.Equal(t, date(2024, 5, 20), f.svc.Today())

	balance, err := f.svc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9150), balance.Savings)

	status, err := f.svc.BudgetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, []budget.Status{{Category: "Food", Budget: 1000, Spent: 850, Remaining: 150}}, status)

	health, err := f.svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30+25+25+20, health.Total)

	advice, err := f.svc.Advice(ctx)
	require.NoError(t, err)
	require.Len(t, advice.Budgets, 1)

	rep, err := f.svc.Report(ctx)
	require.NoError(t, err)
	assert.Len(t, rep.TopExpenses, 1)

	spending, err := f.svc.Spending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), spending.PreviousTotal)

	income, err := f.svc.Income(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), income.Total)

	savings, err := f.svc.Savings(ctx)
	require.NoError(t, err)
	assert.Len(t, savings, 3)

	series, err := f.svc.Series(ctx)
	require.NoError(t, err)
	assert.Len(t, series, 2)
}

func TestService_ImportPublishes(t *testing.T) {
	f := newFixture(t)

	f.txRepo.EXPECT().BeginImport(gomock.Any()).Return(nil, errors.New("locked"))

	_, err := f.svc.Import(context.Background(), []transaction.Record{{}}, true)
	assert.Error(t, err)
	assert.Empty(t, f.published.events)

	result, err := f.svc.Import(context.Background(), nil, true)
	require.NoError(t, err)
	require.Len(t, f.published.events, 1)
	assert.Equal(t, result.BatchID, f.published.events[0].BatchID)
}

func TestService_SetBudget(t *testing.T) {
	f := newFixture(t)

	f.budgetRepo.EXPECT().SetBudget(gomock.Any(), "Food", int64(100)).Return(nil)

	require.NoError(t, f.svc.SetBudget(context.Background(), "Food", 100))
	assert.ErrorIs(t, f.svc.SetBudget(context.Background(), "Food", -1), core.ErrValidation)
	assert.Len(t, f.published.events, 1)
}

func TestService_MalformedLinesReported(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, txStore.FileName), []byte(
		"2024-05-01,income,Salary,10000,\n"+
			"2024-05-02,expense,Food,oops,lunch\n"+
			"not a record\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, budgetStore.FileName), []byte("Food,1000\nBills\n"), 0o644))

	dir, err := filestore.Open(root)
	require.NoError(t, err)

	svc := ledger.NewService(
		transaction.NewService(txStore.NewFile(dir, false)),
		budget.NewService(budgetStore.NewFile(dir, false)),
		ledger.WithClock(func() time.Time { return date(2024, 5, 20) }),
	)

	ctx := context.Background()

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Stats{
		Transactions: core.LoadStats{Loaded: 1, Malformed: 2},
		Budgets:      core.LoadStats{Loaded: 1, Malformed: 1},
	}, snap.Stats)
	assert.Equal(t, 3, snap.Stats.Malformed())

	balance, err := svc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance.Income)
	assert.Equal(t, 3, balance.Malformed)
}

func TestService_BalanceWithoutStats(t *testing.T) {
	f := newFixture(t)

	f.txRepo.EXPECT().LoadTransactions(gomock.Any()).Return(stored, nil)
	f.budgetRepo.EXPECT().LoadBudgets(gomock.Any()).Return(nil, nil)

	balance, err := f.svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, balance.Malformed)
}
