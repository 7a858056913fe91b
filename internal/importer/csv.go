package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/core"
	enc "github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// CSV reads delimited files. It auto-detects the layout (the ledger's own
// export, or one of the bank statement formats) by matching column headers
// against known profiles.
type CSV struct {
	fallbackCategory string
}

func NewCSV(fallbackCategory string) *CSV {
	return &CSV{fallbackCategory: fallbackCategory}
}

func (c *CSV) Parse(r io.Reader) ([]transaction.Record, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var readErr error

	for _, comma := range delimiters() {
		rows, err := readRows(data, comma)
		if err != nil {
			readErr = err
			continue
		}

		profile, cols, headerIdx := detectProfile(rows, comma)
		if profile == nil {
			continue
		}

		slog.Debug("detected import layout", "profile", profile.Name, "charset", charset)

		return c.parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	if readErr != nil {
		return nil, fmt.Errorf("read csv: %w", readErr)
	}

	return nil, core.Invalid("file", "no known CSV header found: expected columns %s",
		strings.Join(profiles[0].requiredCols(), ","))
}

// delimiters returns the distinct separators of profiles, in profile order.
func delimiters() []rune {
	var out []rune

	for _, p := range profiles {
		if !strings.ContainsRune(string(out), p.Comma) {
			out = append(out, p.Comma)
		}
	}

	return out
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a profile using comma.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].Comma == comma && matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func (c *CSV) parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.Record, error) {
	if p.AmountMode == amountMinor {
		return parseLedgerRows(p, cols, rows), nil
	}

	return c.parseStatementRows(p, cols, rows, headerRowNum)
}

// parseLedgerRows keeps every non-empty row; validation happens in the batch import.
func parseLedgerRows(p *Profile, cols colIndex, rows [][]string) []transaction.Record {
	descIdx := column(cols, p.DescCol)

	var records []transaction.Record

	for _, row := range rows {
		if blankRow(row) {
			continue
		}

		desc := ""
		if descIdx >= 0 && descIdx < len(row) {
			desc = row[descIdx]
		}

		records = append(records, transaction.Record{
			Date:        cellValue(row, cols[p.DateCol]),
			Type:        cellValue(row, cols[p.TypeCol]),
			Category:    cellValue(row, cols[p.CatCol]),
			Amount:      cellValue(row, cols[p.AmountCol]),
			Description: desc,
		})
	}

	return records
}

// parseStatementRows reads bank statement rows. Rows without a parseable
// date or a non-zero amount are footers or padding and are dropped.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func (c *CSV) parseStatementRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.Record, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var records []transaction.Record

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, core.Invalid("description", "row %d: missing description", rowNum)
		}

		amount, txType, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		records = append(records, transaction.Record{
			Date:        date.Format(transaction.DateLayout),
			Type:        string(txType),
			Category:    c.fallbackCategory,
			Amount:      strconv.FormatInt(amount, 10),
			Description: desc,
		})
	}

	return records, nil
}

func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseAmount extracts the amount and transaction type from a row based on the profile's amount mode.
func parseAmount(p *Profile, cols colIndex, row []string) (int64, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSigned:
		return parseSignedAmount(row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return 0, "", false
}

func parseSignedAmount(row []string, idx int) (int64, transaction.Type, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, "", false
	}

	minor, err := parseStatementAmount(s)
	if err != nil || minor == 0 {
		return 0, "", false
	}

	if minor < 0 {
		return -minor, transaction.TypeExpense, true
	}

	return minor, transaction.TypeIncome, true
}

func parseSplitAmount(row []string, debitIdx, creditIdx int) (int64, transaction.Type, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		minor, err := parseStatementAmount(s)
		if err == nil && minor != 0 {
			return abs(minor), transaction.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		minor, err := parseStatementAmount(s)
		if err == nil && minor != 0 {
			return abs(minor), transaction.TypeIncome, true
		}
	}

	return 0, "", false
}

func column(cols colIndex, name string) int {
	if idx, ok := cols[name]; ok {
		return idx
	}

	return -1
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
