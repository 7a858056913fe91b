package transaction

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// DateLayout is the calendar-date format used everywhere a date is persisted or exchanged.
const DateLayout = time.DateOnly

// MaxDescriptionLen bounds a description in bytes.
const MaxDescriptionLen = 4096

// Transaction is an immutable ledger entry.
type Transaction struct {
	Date        time.Time
	Type        Type
	Category    string
	Amount      int64 // Amount in minor units
	Description string
}

// Validate checks the invariants every stored transaction must satisfy.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return core.Invalid("amount", "must be greater than zero, got %d", t.Amount)
	}

	if t.Date.IsZero() {
		return core.Invalid("date", "must be set")
	}

	if !t.Type.Valid() {
		return core.Invalid("type", "must be %q or %q, got %q", TypeIncome, TypeExpense, t.Type)
	}

	if err := core.ValidateName(t.Category); err != nil {
		return err
	}

	if strings.ContainsAny(t.Description, "\r\n") {
		return core.Invalid("description", "must not contain line breaks")
	}

	if len(t.Description) > MaxDescriptionLen {
		return core.Invalid("description", "must be at most %d bytes, got %d", MaxDescriptionLen, len(t.Description))
	}

	return nil
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, core.Invalid("date", "%q is not a YYYY-MM-DD date", s)
	}

	return d, nil
}
