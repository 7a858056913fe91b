package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

func newSQLStore(t *testing.T) *store.SQL {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	return store.NewSQL(db)
}

func TestSQL_AppendLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	txs := []transaction.Transaction{
		{Date: date(2024, 3, 9), Type: transaction.TypeExpense, Category: "Bills", Amount: 4500, Description: "power, water"},
		{Date: date(2024, 3, 1), Type: transaction.TypeIncome, Category: "Salary", Amount: 300000},
	}

	for i := range txs {
		require.NoError(t, s.AppendTransaction(ctx, &txs[i]))
	}

	got, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, txs, got)
}

func TestSQL_AppendRejectsInvalid(t *testing.T) {
	s := newSQLStore(t)

	err := s.AppendTransaction(context.Background(), &transaction.Transaction{
		Date: date(2024, 3, 9), Type: transaction.TypeExpense, Category: "Bills", Amount: -1,
	})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestSQL_ImportBatch(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)
	svc := transaction.NewService(s)

	rec := transaction.Record{Date: "2024-03-02", Type: "expense", Category: "Food", Amount: "999", Description: "market"}

	result, err := svc.ImportBatch(ctx, []transaction.Record{rec, rec}, true)
	require.NoError(t, err)
	assert.Len(t, result.Added, 1)
	assert.Len(t, result.Skipped, 1)

	result, err = svc.ImportBatch(ctx, []transaction.Record{rec}, true)
	require.NoError(t, err)
	assert.Empty(t, result.Added)

	got, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
