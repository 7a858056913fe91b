// Package importer turns export files back into transaction records for
// the ledger's batch import.
package importer

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Importer parses one file format. Records are returned unvalidated so the
// batch import can report a reason for every rejected one.
type Importer interface {
	Parse(r io.Reader) ([]transaction.Record, error)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", core.Invalid("file", "unsupported file type %q: use .csv or .json", ext)
	}
}
