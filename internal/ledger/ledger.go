// Package ledger is the entry point both front ends use: it loads snapshots
// from the stores and runs the analytics over them.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/advisor"
	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/report"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Snapshot is a read-only copy of the store taken at one instant.
type Snapshot struct {
	Transactions []transaction.Transaction
	Budgets      budget.Budgets
	Stats        Stats
	TakenAt      time.Time
}

// Stats reports what the stores loaded and skipped for one snapshot.
type Stats struct {
	Transactions core.LoadStats
	Budgets      core.LoadStats
}

// Malformed is the number of stored lines skipped across both stores.
func (s Stats) Malformed() int {
	return s.Transactions.Malformed + s.Budgets.Malformed
}

type Service struct {
	transactions *transaction.Service
	budgets      *budget.Service
	events       events.Publisher
	now          func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of "this month".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func NewService(transactions *transaction.Service, budgets *budget.Service, opts ...Option) *Service {
	s := &Service{
		transactions: transactions,
		budgets:      budgets,
		events:       events.Nop{},
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Today is the reference date used for month-relative views.
func (s *Service) Today() time.Time {
	return transaction.Day(s.now())
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{TakenAt: s.now()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, stats, err := s.transactions.ListWithStats(gctx, transaction.ListFilter{})
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}

		snap.Transactions, snap.Stats.Transactions = txs, stats

		return nil
	})

	g.Go(func() error {
		b, stats, err := s.budgets.ListWithStats(gctx)
		if err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}

		snap.Budgets, snap.Stats.Budgets = b, stats

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}

// AddResult is a stored transaction plus the budget alert it triggered, if any.
type AddResult struct {
	Transaction *transaction.Transaction
	Alert       *budget.Alert
}

// AddTransaction stores a transaction. For expenses the budget alert is
// computed against the month spend before the new expense.
func (s *Service) AddTransaction(ctx context.Context, params transaction.CreateParams) (*AddResult, error) {
	var alert *budget.Alert

	if params.Type == transaction.TypeExpense && params.Amount > 0 {
		snap, err := s.Snapshot(ctx)
		if err != nil {
			return nil, err
		}

		alert = budget.CheckAlert(snap.Budgets, snap.Transactions, params.Category, params.Amount, transaction.Day(params.Date))
	}

	tx, err := s.transactions.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	e := events.New(events.KindTransactionAdded)
	e.Category = tx.Category
	e.Amount = tx.Amount
	s.publish(ctx, e)

	return &AddResult{Transaction: tx, Alert: alert}, nil
}

func (s *Service) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]transaction.Transaction, error) {
	return s.transactions.List(ctx, filter)
}

func (s *Service) Import(ctx context.Context, records []transaction.Record, dedupe bool) (*transaction.ImportResult, error) {
	result, err := s.transactions.ImportBatch(ctx, records, dedupe)
	if err != nil {
		return nil, err
	}

	e := events.New(events.KindBatchImported)
	e.BatchID = result.BatchID
	e.Added = len(result.Added)
	e.Skipped = len(result.Skipped)
	s.publish(ctx, e)

	return result, nil
}

func (s *Service) SetBudget(ctx context.Context, category string, amount int64) error {
	if err := s.budgets.Set(ctx, category, amount); err != nil {
		return err
	}

	e := events.New(events.KindBudgetSet)
	e.Category = category
	e.Amount = amount
	s.publish(ctx, e)

	return nil
}

// NotifyRestored announces that the store was replaced from a backup.
func (s *Service) NotifyRestored(ctx context.Context) {
	s.publish(ctx, events.New(events.KindRestored))
}

// publish never fails the caller; the store write has already happened.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Error("failed to publish event", "kind", e.Kind, "error", err)
	}
}

func (s *Service) BudgetStatus(ctx context.Context) ([]budget.Status, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return budget.StatusFor(snap.Budgets, snap.Transactions, s.Today()), nil
}

// Balance is this month's income, expense and their difference, plus the
// number of stored lines that could not be read.
type Balance struct {
	analytics.Overview
	Malformed int
}

func (s *Service) Balance(ctx context.Context) (Balance, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Balance{}, err
	}

	return Balance{
		Overview:  analytics.MonthOverview(snap.Transactions, s.Today()),
		Malformed: snap.Stats.Malformed(),
	}, nil
}

func (s *Service) Spending(ctx context.Context) (analytics.SpendingAnalysis, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{})
	if err != nil {
		return analytics.SpendingAnalysis{}, err
	}

	return analytics.Spending(txs, s.Today()), nil
}

func (s *Service) Income(ctx context.Context) (analytics.IncomeAnalysis, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{})
	if err != nil {
		return analytics.IncomeAnalysis{}, err
	}

	return analytics.Income(txs, s.Today()), nil
}

func (s *Service) Savings(ctx context.Context) ([]analytics.MonthSavings, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, err
	}

	return analytics.Savings(txs, s.Today()), nil
}

func (s *Service) Series(ctx context.Context) ([]analytics.MonthPoint, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, err
	}

	return analytics.Series(txs), nil
}

func (s *Service) Health(ctx context.Context) (analytics.HealthScore, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return analytics.HealthScore{}, err
	}

	return analytics.Health(snap.Transactions, snap.Budgets, s.Today()), nil
}

func (s *Service) Advice(ctx context.Context) (advisor.Advice, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return advisor.Advice{}, err
	}

	return advisor.Advise(snap.Transactions, snap.Budgets, s.Today()), nil
}

func (s *Service) Report(ctx context.Context) (report.Report, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return report.Report{}, err
	}

	return report.Build(snap.Transactions, snap.Budgets, s.Today()), nil
}
