package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Service struct {
	importers map[Format]Importer
}

// NewService builds the importers. Bank statement rows carry no category and
// are filed under fallbackCategory.
func NewService(fallbackCategory string) *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatCSV:  NewCSV(fallbackCategory),
			FormatJSON: NewJSON(),
		},
	}
}

func (s *Service) Parse(format Format, r io.Reader) ([]transaction.Record, error) {
	importer, ok := s.importers[format]
	if !ok {
		return nil, core.Invalid("format", "unknown import format %q", format)
	}

	return importer.Parse(r)
}

// ParseFile reads the file at path, choosing the format by extension.
func (s *Service) ParseFile(path string) ([]transaction.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("import file %s: %w", path, core.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	return s.Parse(format, f)
}
