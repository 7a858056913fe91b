package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestLine_RoundTrip(t *testing.T) {
	tx := transaction.Transaction{
		Date:        date(2024, 1, 31),
		Type:        transaction.TypeExpense,
		Category:    "Food",
		Amount:      12345,
		Description: "dinner, drinks, tip",
	}

	line := transaction.FormatLine(tx)
	assert.Equal(t, "2024-01-31,expense,Food,12345,dinner, drinks, tip", line)

	got, err := transaction.ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, tx, got)
}

func TestParseLine_Malformed(t *testing.T) {
	for name, line := range map[string]string{
		"TooFewFields": "2024-01-31,expense,Food,100",
		"BadDate":      "31/01/2024,expense,Food,100,x",
		"BadAmount":    "2024-01-31,expense,Food,1.5,x",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := transaction.ParseLine(line)
			assert.Error(t, err)
		})
	}
}

func TestParseLine_EmptyDescription(t *testing.T) {
	got, err := transaction.ParseLine("2024-01-31,income,Salary,100,")
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	assert.Equal(t, transaction.TypeIncome, got.Type)
}
