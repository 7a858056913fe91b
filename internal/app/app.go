// Package app wires the stores, services and event publisher selected by the
// configuration. Both front ends build on it.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/tally/internal/backup"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/tally/internal/budget/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/filestore"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

// FallbackCategory is given to imported bank statement rows, which carry no
// category of their own.
const FallbackCategory = "Other"

type App struct {
	Categories   core.Categories
	Transactions *transaction.Service
	Budgets      *budget.Service
	Ledger       *ledger.Service
	Import       *importer.Service
	Export       *export.Service
	Backup       *backup.Service // nil unless the file backend is in use

	closers []func() error
}

// Open connects the configured backend. Callers must Close the result.
func Open(cfg *config.Config) (*App, error) {
	a := &App{Categories: cfg.CategorySets()}

	var (
		txRepo     transaction.Repository
		budgetRepo budget.Repository
	)

	switch cfg.Store.Backend {
	case config.BackendFile:
		dir, err := filestore.Open(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}

		txRepo = txStore.NewFile(dir, cfg.Store.StrictLoad)
		budgetRepo = budgetStore.NewFile(dir, cfg.Store.StrictLoad)
		a.Backup = backup.NewService(dir, cfg.Store.BackupDir)
	case config.BackendPostgres, config.BackendSQLite:
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, db.Close)

		if err := database.Migrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}

		txRepo = txStore.NewSQL(db)
		budgetRepo = budgetStore.NewSQL(db)
	default:
		return nil, core.Invalid("backend", "unknown store backend %q", cfg.Store.Backend)
	}

	var publisher events.Publisher = events.Nop{}

	if cfg.Events.URL != "" {
		p, err := events.NewAMQP(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting event broker: %w", err)
		}

		a.closers = append(a.closers, p.Close)
		publisher = p
	}

	a.Transactions = transaction.NewService(txRepo)
	a.Budgets = budget.NewService(budgetRepo)
	a.Ledger = ledger.NewService(a.Transactions, a.Budgets, ledger.WithPublisher(publisher))
	a.Import = importer.NewService(FallbackCategory)
	a.Export = export.NewService(a.Transactions)

	slog.Info("store opened", "backend", cfg.Store.Backend, "events", cfg.Events.URL != "")

	return a, nil
}

func openDB(cfg *config.Config) (*database.DB, error) {
	if cfg.Store.Backend == config.BackendPostgres {
		return database.New(cfg.ConnectionString())
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
		return nil, &core.StoreError{Op: "create sqlite dir", Path: cfg.Store.SQLitePath, Err: err}
	}

	return database.NewSQLite(cfg.Store.SQLitePath)
}

// Close releases the connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	a.closers = nil

	return errors.Join(errs...)
}
