package transaction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

const lineFields = 5

// FormatLine encodes tx as a persisted record line:
//
//	<YYYY-MM-DD>,<income|expense>,<category>,<amount>,<description>
func FormatLine(tx Transaction) string {
	return strings.Join([]string{
		tx.Date.Format(DateLayout),
		string(tx.Type),
		tx.Category,
		strconv.FormatInt(tx.Amount, 10),
		tx.Description,
	}, ",")
}

// ParseLine decodes a persisted record line. The description is the remainder
// of the line and may itself contain commas.
func ParseLine(line string) (Transaction, error) {
	parts := strings.SplitN(line, ",", lineFields)
	if len(parts) != lineFields {
		return Transaction{}, fmt.Errorf("expected %d fields, got %d", lineFields, len(parts))
	}

	date, err := ParseDate(parts[0])
	if err != nil {
		return Transaction{}, err
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if err != nil {
		return Transaction{}, core.Invalid("amount", "%q is not an integer", parts[3])
	}

	return Transaction{
		Date:        date,
		Type:        Type(parts[1]),
		Category:    parts[2],
		Amount:      amount,
		Description: parts[4],
	}, nil
}
