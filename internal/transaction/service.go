package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	AppendTransaction(ctx context.Context, tx *Transaction) error
	LoadTransactions(ctx context.Context) ([]Transaction, error)

	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx holds the store exclusively so that duplicate detection and the
// appends of one batch see the same data.
type ImportTx interface {
	Existing(ctx context.Context) ([]Transaction, error)
	CreateTransactions(ctx context.Context, txs []Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date        time.Time
	Type        Type
	Category    string
	Amount      int64
	Description string
}

type ListFilter struct {
	Type      *Type
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive
}

// LastDays selects transactions dated within the n calendar days ending on
// ref, ref included. Later dates are not excluded.
func LastDays(ref time.Time, n int) ListFilter {
	start := Day(ref).AddDate(0, 0, 1-n)

	return ListFilter{StartDate: &start}
}

func (f ListFilter) match(tx Transaction) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}

	if f.StartDate != nil && tx.Date.Before(Day(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(Day(*f.EndDate)) {
		return false
	}

	return true
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := &Transaction{
		Date:        Day(params.Date),
		Type:        params.Type,
		Category:    strings.TrimSpace(params.Category),
		Amount:      params.Amount,
		Description: strings.TrimSpace(params.Description),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// List returns the stored transactions matching filter, in storage order.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	txs, err := s.repo.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}

	return filterTxs(txs, filter), nil
}

func filterTxs(txs []Transaction, filter ListFilter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if filter.match(tx) {
			out = append(out, tx)
		}
	}

	return out
}

// Record is an unvalidated transaction as supplied by an import adapter.
type Record struct {
	Date        string
	Type        string
	Category    string
	Amount      string // minor units
	Description string
}

// ToTransaction validates r and converts it into a Transaction.
func (r Record) ToTransaction() (Transaction, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return Transaction{}, err
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(r.Amount), 10, 64)
	if err != nil {
		return Transaction{}, core.Invalid("amount", "%q is not an integer amount in minor units", r.Amount)
	}

	tx := Transaction{
		Date:        date,
		Type:        Type(strings.ToLower(strings.TrimSpace(r.Type))),
		Category:    strings.TrimSpace(r.Category),
		Amount:      amount,
		Description: r.Description,
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}

	return tx, nil
}

// FromTransaction is the inverse of Record.ToTransaction.
func FromTransaction(tx Transaction) Record {
	return Record{
		Date:        tx.Date.Format(DateLayout),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      strconv.FormatInt(tx.Amount, 10),
		Description: tx.Description,
	}
}

type Skip struct {
	Index  int // position in the input batch
	Record Record
	Reason string
}

type ImportResult struct {
	BatchID uuid.UUID
	Added   []Transaction
	Skipped []Skip
}

// ImportBatch validates records in input order and appends the valid ones.
// Invalid records, and with dedupe set, exact duplicates of stored records or
// of records earlier in the batch, are skipped and reported.
func (s *Service) ImportBatch(ctx context.Context, records []Record, dedupe bool) (*ImportResult, error) {
	result := &ImportResult{BatchID: uuid.New()}
	if len(records) == 0 {
		return result, nil
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	seen := make(map[string]struct{})

	if dedupe {
		existing, err := itx.Existing(ctx)
		if err != nil {
			return nil, fmt.Errorf("load existing transactions: %w", err)
		}

		for _, tx := range existing {
			seen[FormatLine(tx)] = struct{}{}
		}
	}

	for i, r := range records {
		tx, err := r.ToTransaction()
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Index: i, Record: r, Reason: err.Error()})
			continue
		}

		key := FormatLine(tx)
		if _, dup := seen[key]; dup && dedupe {
			result.Skipped = append(result.Skipped, Skip{Index: i, Record: r, Reason: "duplicate of an existing transaction"})
			continue
		}

		seen[key] = struct{}{}
		result.Added = append(result.Added, tx)
	}

	if len(result.Added) > 0 {
		if err := itx.CreateTransactions(ctx, result.Added); err != nil {
			return nil, fmt.Errorf("create transactions: %w", err)
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	slog.Info("import batch finished",
		"batch_id", result.BatchID, "added", len(result.Added), "skipped", len(result.Skipped))

	return result, nil
}

// SortByDate orders txs by date, newest first when desc is set. Equal dates keep their relative order.
func SortByDate(txs []Transaction, desc bool) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if desc {
			return b.Date.Compare(a.Date)
		}

		return a.Date.Compare(b.Date)
	})
}
