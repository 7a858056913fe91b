package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/MrJamesThe3rd/tally/internal/core"
	enc "github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// JSON reads an array of objects with the export field names. Amounts may
// be numbers or strings.
type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (j *JSON) Parse(r io.Reader) ([]transaction.Record, error) {
	utf8r, _, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	dec := json.NewDecoder(utf8r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, core.Invalid("file", "not a JSON array of transactions: %v", err)
	}

	records := make([]transaction.Record, 0, len(objects))
	for _, obj := range objects {
		records = append(records, transaction.Record{
			Date:        field(obj, "date"),
			Type:        field(obj, "type"),
			Category:    field(obj, "category"),
			Amount:      field(obj, "amount_paisa"),
			Description: field(obj, "description"),
		})
	}

	return records, nil
}

func field(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
