package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/filestore"
)

// FileName is the budgets file inside the store directory.
const FileName = "budgets.txt"

// File keeps one "<category>,<amount>" line per budget. Writes rewrite the
// whole file atomically.
type File struct {
	dir    *filestore.Dir
	strict bool
}

func NewFile(dir *filestore.Dir, strict bool) *File {
	return &File{dir: dir, strict: strict}
}

func (s *File) SetBudget(_ context.Context, category string, amount int64) error {
	return s.dir.Update(FileName, func(lines []filestore.Line) ([]string, error) {
		out := make([]string, 0, len(lines)+1)
		replaced := false

		for _, l := range lines {
			if l.TooLong {
				continue
			}

			cat, _, err := parseLine(l.Text)
			if err == nil && cat == category {
				if replaced {
					continue
				}

				l.Text = formatLine(category, amount)
				replaced = true
			}

			out = append(out, l.Text)
		}

		if !replaced {
			out = append(out, formatLine(category, amount))
		}

		return out, nil
	})
}

func (s *File) LoadBudgets(ctx context.Context) (budget.Budgets, error) {
	b, _, err := s.LoadWithStats(ctx)
	return b, err
}

// LoadWithStats is LoadBudgets plus a count of tolerated malformed lines.
// Loaded counts distinct categories; a repeated category keeps its last line.
func (s *File) LoadWithStats(_ context.Context) (budget.Budgets, core.LoadStats, error) {
	var stats core.LoadStats

	lines, err := s.dir.ReadLines(FileName)
	if err != nil {
		return nil, stats, err
	}

	b := make(budget.Budgets, len(lines))

	for _, l := range lines {
		var (
			cat    string
			amount int64
			err    error
		)

		if l.TooLong {
			err = filestore.ErrLineTooLong
		} else {
			cat, amount, err = parseLine(l.Text)
		}

		if err != nil {
			if s.strict {
				return nil, stats, &core.StoreError{Op: "load", Path: FileName, Err: fmt.Errorf("line %d: %w", l.Num, err)}
			}

			slog.Warn("skipping malformed budget line", "file", FileName, "line", l.Num, "error", err)

			stats.Malformed++

			continue
		}

		b[cat] = amount
	}

	stats.Loaded = len(b)

	if stats.Malformed > 0 {
		slog.Warn("budgets loaded with malformed lines skipped", "file", FileName, "loaded", stats.Loaded, "malformed", stats.Malformed)
	}

	return b, stats, nil
}

func formatLine(category string, amount int64) string {
	return category + "," + strconv.FormatInt(amount, 10)
}

func parseLine(line string) (string, int64, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("expected 2 fields, got %d", len(parts))
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || amount < 0 {
		return "", 0, fmt.Errorf("%q is not a non-negative integer amount", parts[1])
	}

	return parts[0], amount, nil
}
