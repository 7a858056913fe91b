// Package events announces ledger changes to external consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindTransactionAdded Kind = "transaction.added"
	KindBatchImported    Kind = "batch.imported"
	KindBudgetSet        Kind = "budget.set"
	KindRestored         Kind = "store.restored"
)

type Event struct {
	ID       uuid.UUID `json:"id"`
	Kind     Kind      `json:"kind"`
	At       time.Time `json:"at"`
	BatchID  uuid.UUID `json:"batch_id,omitzero"`
	Category string    `json:"category,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
	Added    int       `json:"added,omitempty"`
	Skipped  int       `json:"skipped,omitempty"`
}

func New(kind Kind) Event {
	return Event{ID: uuid.New(), Kind: kind, At: time.Now().UTC()}
}

func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
