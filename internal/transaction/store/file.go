package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/filestore"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// FileName is the transactions file inside the store directory.
const FileName = "transactions.txt"

// File keeps transactions as lines of transactions.txt. With strict set, a
// malformed line fails the load; otherwise it is logged, counted and skipped.
type File struct {
	dir    *filestore.Dir
	strict bool
}

func NewFile(dir *filestore.Dir, strict bool) *File {
	return &File{dir: dir, strict: strict}
}

func (s *File) AppendTransaction(_ context.Context, tx *transaction.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	return s.dir.AppendLine(FileName, transaction.FormatLine(*tx))
}

func (s *File) LoadTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	txs, _, err := s.LoadWithStats(ctx)
	return txs, err
}

// LoadWithStats is LoadTransactions plus a count of tolerated malformed lines.
func (s *File) LoadWithStats(_ context.Context) ([]transaction.Transaction, core.LoadStats, error) {
	lines, err := s.dir.ReadLines(FileName)
	if err != nil {
		return nil, core.LoadStats{}, err
	}

	txs, stats, err := s.decode(lines)
	if err == nil && stats.Malformed > 0 {
		slog.Warn("transactions loaded with malformed lines skipped", "file", FileName, "loaded", stats.Loaded, "malformed", stats.Malformed)
	}

	return txs, stats, err
}

func (s *File) decode(lines []filestore.Line) ([]transaction.Transaction, core.LoadStats, error) {
	var stats core.LoadStats

	txs := make([]transaction.Transaction, 0, len(lines))

	for _, l := range lines {
		var (
			tx  transaction.Transaction
			err error
		)

		if l.TooLong {
			err = filestore.ErrLineTooLong
		} else if tx, err = transaction.ParseLine(l.Text); err == nil {
			err = tx.Validate()
		}

		if err != nil {
			if s.strict {
				return nil, stats, &core.StoreError{
					Op:   "load",
					Path: FileName,
					Err:  fmt.Errorf("line %d: %w", l.Num, err),
				}
			}

			slog.Warn("skipping malformed transaction line", "file", FileName, "line", l.Num, "error", err)

			stats.Malformed++

			continue
		}

		txs = append(txs, tx)
	}

	stats.Loaded = len(txs)

	return txs, stats, nil
}

type fileImportTx struct {
	s  *File
	tx *filestore.Tx
}

// BeginImport holds the store lock until Commit or Rollback.
func (s *File) BeginImport(_ context.Context) (transaction.ImportTx, error) {
	return &fileImportTx{s: s, tx: s.dir.Begin()}, nil
}

func (itx *fileImportTx) Existing(_ context.Context) ([]transaction.Transaction, error) {
	lines, err := itx.tx.ReadLines(FileName)
	if err != nil {
		return nil, err
	}

	txs, _, err := itx.s.decode(lines)

	return txs, err
}

func (itx *fileImportTx) CreateTransactions(_ context.Context, txs []transaction.Transaction) error {
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, transaction.FormatLine(tx))
	}

	itx.tx.Append(FileName, lines...)

	return nil
}

func (itx *fileImportTx) Commit() error   { return itx.tx.Commit() }
func (itx *fileImportTx) Rollback() error { return itx.tx.Rollback() }
