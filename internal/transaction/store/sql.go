package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// importLockKey identifies the postgres advisory lock held by an import.
const importLockKey int64 = 0x7a11_1e09

// SQL persists transactions in the transactions table of a postgres or
// sqlite database. Rows are returned in insertion order.
type SQL struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQL {
	return &SQL{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Expected column order: date, type, category, amount, description
func scanTransaction(s scanner) (transaction.Transaction, error) {
	var (
		tx      transaction.Transaction
		dateStr string
		typeStr string
	)

	if err := s.Scan(&dateStr, &typeStr, &tx.Category, &tx.Amount, &tx.Description); err != nil {
		return transaction.Transaction{}, err
	}

	date, err := transaction.ParseDate(dateStr)
	if err != nil {
		return transaction.Transaction{}, err
	}

	tx.Date = date
	tx.Type = transaction.Type(typeStr)

	return tx, nil
}

const (
	selectTransactions = `SELECT date, type, category, amount, description FROM transactions ORDER BY id ASC`
	insertTransaction  = `INSERT INTO transactions (date, type, category, amount, description) VALUES ($1, $2, $3, $4, $5)`
)

func (s *SQL) AppendTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	if err := insert(ctx, s.db, s.db, *tx); err != nil {
		return &core.StoreError{Op: "insert transaction", Err: err}
	}

	return nil
}

func (s *SQL) LoadTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	txs, err := load(ctx, s.db, s.db)
	if err != nil {
		return nil, &core.StoreError{Op: "list transactions", Err: err}
	}

	return txs, nil
}

func insert(ctx context.Context, db *database.DB, q queryer, tx transaction.Transaction) error {
	_, err := q.ExecContext(ctx, db.Rebind(insertTransaction),
		tx.Date.Format(transaction.DateLayout),
		string(tx.Type),
		tx.Category,
		tx.Amount,
		tx.Description,
	)

	return err
}

func load(ctx context.Context, db *database.DB, q queryer) ([]transaction.Transaction, error) {
	rows, err := q.QueryContext(ctx, db.Rebind(selectTransactions))
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

type sqlImportTx struct {
	db *database.DB
	tx *sql.Tx
}

// BeginImport opens a database transaction. On postgres it also takes an
// advisory lock so that concurrent imports cannot both miss a duplicate.
func (s *SQL) BeginImport(ctx context.Context) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &core.StoreError{Op: "begin import", Err: err}
	}

	if s.db.Driver == database.Postgres {
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey); err != nil {
			dbTx.Rollback()
			return nil, &core.StoreError{Op: "acquire import lock", Err: err}
		}
	}

	return &sqlImportTx{db: s.db, tx: dbTx}, nil
}

func (itx *sqlImportTx) Commit() error   { return itx.tx.Commit() }
func (itx *sqlImportTx) Rollback() error { return itx.tx.Rollback() }

func (itx *sqlImportTx) Existing(ctx context.Context) ([]transaction.Transaction, error) {
	return load(ctx, itx.db, itx.tx)
}

func (itx *sqlImportTx) CreateTransactions(ctx context.Context, txs []transaction.Transaction) error {
	for _, tx := range txs {
		if err := insert(ctx, itx.db, itx.tx, tx); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
