package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/filestore"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newFileStore(t *testing.T, strict bool) (*store.File, string) {
	t.Helper()

	root := t.TempDir()

	dir, err := filestore.Open(root)
	require.NoError(t, err)

	return store.NewFile(dir, strict), root
}

func TestFile_AppendLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t, false)

	first := transaction.Transaction{Date: date(2024, 2, 1), Type: transaction.TypeIncome, Category: "Salary", Amount: 500000}
	second := transaction.Transaction{Date: date(2024, 1, 3), Type: transaction.TypeExpense, Category: "Food", Amount: 1250, Description: "bread, milk"}

	require.NoError(t, s.AppendTransaction(ctx, &first))
	require.NoError(t, s.AppendTransaction(ctx, &second))

	got, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []transaction.Transaction{first, second}, got)

	again, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestFile_LoadMissing(t *testing.T) {
	s, _ := newFileStore(t, true)

	got, err := s.LoadTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFile_AppendRejectsInvalid(t *testing.T) {
	s, root := newFileStore(t, false)

	err := s.AppendTransaction(context.Background(), &transaction.Transaction{
		Date: date(2024, 1, 1), Type: transaction.TypeExpense, Category: "Food",
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, statErr := os.Stat(filepath.Join(root, store.FileName))
	assert.True(t, os.IsNotExist(statErr))
}

const mixedFile = `2024-01-01,income,Salary,1000,January
not a record

2024-01-02,expense,Food,abc,bad amount
2024-01-03,expense,Food,200,lunch, with friends
`

func TestFile_MalformedLines(t *testing.T) {
	t.Run("Lenient", func(t *testing.T) {
		s, root := newFileStore(t, false)
		require.NoError(t, os.WriteFile(filepath.Join(root, store.FileName), []byte(mixedFile), 0o644))

		got, stats, err := s.LoadWithStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, core.LoadStats{Loaded: 2, Malformed: 2}, stats)
		require.Len(t, got, 2)
		assert.Equal(t, "lunch, with friends", got[1].Description)
	})

	t.Run("Strict", func(t *testing.T) {
		s, root := newFileStore(t, true)
		require.NoError(t, os.WriteFile(filepath.Join(root, store.FileName), []byte(mixedFile), 0o644))

		_, err := s.LoadTransactions(context.Background())
		assert.ErrorIs(t, err, core.ErrStore)
		assert.ErrorContains(t, err, "line 2")
	})
}

func TestFile_OverlongLine(t *testing.T) {
	s, root := newFileStore(t, false)
	ctx := context.Background()

	income := &transaction.Transaction{Date: date(2024, 1, 1), Type: transaction.TypeIncome, Category: "Salary", Amount: 500000}
	require.NoError(t, s.AppendTransaction(ctx, income))

	huge := &transaction.Transaction{
		Date: date(2024, 1, 2), Type: transaction.TypeExpense, Category: "Food", Amount: 100,
		Description: strings.Repeat("x", 2<<20),
	}
	assert.ErrorIs(t, s.AppendTransaction(ctx, huge), core.ErrValidation)

	// A line written by another tool is skipped, not fatal.
	f, err := os.OpenFile(filepath.Join(root, store.FileName), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("2024-01-02,expense,Food,100," + huge.Description + "\n2024-01-03,expense,Food,250,lunch\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, stats, err := s.LoadWithStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.LoadStats{Loaded: 2, Malformed: 1}, stats)
	require.Len(t, got, 2)
	assert.Equal(t, *income, got[0])
	assert.Equal(t, "lunch", got[1].Description)

	dir, err := filestore.Open(root)
	require.NoError(t, err)

	_, err = store.NewFile(dir, true).LoadTransactions(ctx)
	assert.ErrorIs(t, err, filestore.ErrLineTooLong)
}

func TestFile_ImportBatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t, false)
	svc := transaction.NewService(s)

	stored := transaction.Transaction{Date: date(2024, 1, 15), Type: transaction.TypeExpense, Category: "Food", Amount: 1000, Description: "Lunch"}
	require.NoError(t, s.AppendTransaction(ctx, &stored))

	result, err := svc.ImportBatch(ctx, []transaction.Record{
		transaction.FromTransaction(stored),
		{Date: "2024-01-16", Type: "expense", Category: "Food", Amount: "0", Description: "free"},
	}, true)
	require.NoError(t, err)
	assert.Empty(t, result.Added)
	assert.Len(t, result.Skipped, 2)

	result, err = svc.ImportBatch(ctx, []transaction.Record{
		{Date: "2024-01-17", Type: "income", Category: "Gift", Amount: "300", Description: "birthday"},
	}, true)
	require.NoError(t, err)
	assert.Len(t, result.Added, 1)

	all, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "birthday", all[1].Description)

	// The lock must have been released by the import.
	require.NoError(t, s.AppendTransaction(ctx, &stored))
}
