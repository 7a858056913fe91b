package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_JSON(t *testing.T) {
	e := New(KindBatchImported)
	e.BatchID = uuid.New()
	e.Added = 3

	body, err := e.JSON()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, "batch.imported", got["kind"])
	assert.Equal(t, e.BatchID.String(), got["batch_id"])
	assert.EqualValues(t, 3, got["added"])
	assert.NotContains(t, got, "skipped")
	assert.NotContains(t, got, "category")
}

func TestEvent_OmitsZeroBatch(t *testing.T) {
	body, err := New(KindTransactionAdded).JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(body), "batch_id")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), New(KindBudgetSet)))
}
