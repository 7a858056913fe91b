package store

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/database"
)

type SQL struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) SetBudget(ctx context.Context, category string, amount int64) error {
	query := `
		INSERT INTO budgets (category, amount)
		VALUES ($1, $2)
		ON CONFLICT (category) DO UPDATE SET amount = EXCLUDED.amount
	`

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), category, amount); err != nil {
		return &core.StoreError{Op: "upsert budget", Err: err}
	}

	return nil
}

func (s *SQL) LoadBudgets(ctx context.Context) (budget.Budgets, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, amount FROM budgets`)
	if err != nil {
		return nil, &core.StoreError{Op: "list budgets", Err: err}
	}
	defer rows.Close()

	b := make(budget.Budgets)

	for rows.Next() {
		var (
			category string
			amount   int64
		)

		if err := rows.Scan(&category, &amount); err != nil {
			return nil, &core.StoreError{Op: "list budgets", Err: fmt.Errorf("scanning budget: %w", err)}
		}

		b[category] = amount
	}

	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "list budgets", Err: err}
	}

	return b, nil
}
