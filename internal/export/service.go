package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatJSON
}

type Range string

const (
	RangeAll       Range = "all"
	RangeThisMonth Range = "this-month"
	RangeLastMonth Range = "last-month"
	RangeThisYear  Range = "this-year"
	RangeCustom    Range = "custom"
)

// Ranges lists the selectable ranges in menu order.
var Ranges = []Range{RangeAll, RangeThisMonth, RangeLastMonth, RangeThisYear, RangeCustom}

// Fields is the column order of CSV exports and the key set of JSON exports.
var Fields = []string{"date", "type", "category", "amount_paisa", "description"}

// ErrNoTransactions is returned when the selected range is empty. No file is written.
var ErrNoTransactions = fmt.Errorf("no transactions in the selected range: %w", core.ErrNotFound)

// Params selects what to export. Start and End are only read for RangeCustom
// and are both inclusive.
type Params struct {
	Format Format
	Range  Range
	Start  time.Time
	End    time.Time
}

// Filter resolves p into a list filter relative to the calendar date of ref.
func (p Params) Filter(ref time.Time) (transaction.ListFilter, error) {
	ref = transaction.Day(ref)
	firstOfMonth := ref.AddDate(0, 0, 1-ref.Day())

	var start, end time.Time

	switch p.Range {
	case RangeAll, "":
		return transaction.ListFilter{}, nil
	case RangeThisMonth:
		start = firstOfMonth
	case RangeLastMonth:
		end = firstOfMonth.AddDate(0, 0, -1)
		start = firstOfMonth.AddDate(0, -1, 0)
	case RangeThisYear:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case RangeCustom:
		if p.Start.IsZero() || p.End.IsZero() {
			return transaction.ListFilter{}, core.Invalid("range", "custom range needs a start and an end date")
		}

		if p.End.Before(p.Start) {
			return transaction.ListFilter{}, core.Invalid("range", "end date is before start date")
		}

		start, end = transaction.Day(p.Start), transaction.Day(p.End)
	default:
		return transaction.ListFilter{}, core.Invalid("range", "unknown range %q", p.Range)
	}

	filter := transaction.ListFilter{StartDate: &start}
	if !end.IsZero() {
		filter.EndDate = &end
	}

	return filter, nil
}

// Row is one exported transaction.
type Row struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	AmountPaisa int64  `json:"amount_paisa"`
	Description string `json:"description"`
}

func toRow(tx transaction.Transaction) Row {
	return Row{
		Date:        tx.Date.Format(transaction.DateLayout),
		Type:        string(tx.Type),
		Category:    tx.Category,
		AmountPaisa: tx.Amount,
		Description: tx.Description,
	}
}

// Service handles the export of transactions.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Select returns the stored transactions p selects, in storage order.
func (s *Service) Select(ctx context.Context, p Params, ref time.Time) ([]transaction.Transaction, error) {
	if !p.Format.Valid() {
		return nil, core.Invalid("format", "must be %q or %q, got %q", FormatCSV, FormatJSON, p.Format)
	}

	filter, err := p.Filter(ref)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	return txs, nil
}

// Export writes the transactions p selects to w and returns how many were written.
func (s *Service) Export(ctx context.Context, w io.Writer, p Params, ref time.Time) (int, error) {
	txs, err := s.Select(ctx, p, ref)
	if err != nil {
		return 0, err
	}

	if err := Write(w, p.Format, txs); err != nil {
		return 0, err
	}

	return len(txs), nil
}

// ExportFile is Export into a newly created file at path. Nothing is created
// when the range is empty.
func (s *Service) ExportFile(ctx context.Context, path string, p Params, ref time.Time) (int, error) {
	txs, err := s.Select(ctx, p, ref)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := Write(f, p.Format, txs); err != nil {
		return 0, err
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing file: %w", err)
	}

	return len(txs), nil
}

// Write encodes txs in format.
func Write(w io.Writer, format Format, txs []transaction.Transaction) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, txs)
	case FormatJSON:
		return writeJSON(w, txs)
	default:
		return core.Invalid("format", "unknown export format %q", format)
	}
}

func writeCSV(w io.Writer, txs []transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Fields); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		r := toRow(tx)
		if err := cw.Write([]string{r.Date, r.Type, r.Category, strconv.FormatInt(r.AmountPaisa, 10), r.Description}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func writeJSON(w io.Writer, txs []transaction.Transaction) error {
	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, toRow(tx))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")

	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}

// Summary renders txs as one line each, for confirmation screens.
func Summary(txs []transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range txs {
		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		desc := tx.Description
		if desc == "" {
			desc = "(no description)"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s%s\n",
			tx.Date.Format(transaction.DateLayout), tx.Category, desc, sign, core.FormatAmount(tx.Amount))
	}

	return sb.String()
}
