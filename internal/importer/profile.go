package importer

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountMinor is an unsigned integer column in minor units, with the type in its own column.
	amountMinor amountMode = iota
	// amountSigned is one signed decimal column (e.g. "Montante" with value "-10,00").
	amountSigned
	// amountSplit is separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of a CSV format. Column names are
// matched case-insensitively after trimming.
type Profile struct {
	Name       string
	Comma      rune
	DateCol    string
	DateLayout string
	TypeCol    string // amountMinor only
	CatCol     string // empty when the format carries no category
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountMinor and amountSigned
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol}

	switch p.AmountMode {
	case amountMinor:
		cols = append(cols, p.TypeCol, p.CatCol, p.AmountCol)
	case amountSigned:
		cols = append(cols, p.DescCol, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DescCol, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of formats tried during auto-detection.
// More specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Name:       "tally",
		Comma:      ',',
		DateCol:    "date",
		DateLayout: "2006-01-02",
		TypeCol:    "type",
		CatCol:     "category",
		DescCol:    "description",
		AmountMode: amountMinor,
		AmountCol:  "amount_paisa",
	},
	{
		Name:       "cgd-cartão",
		Comma:      ';',
		DateCol:    "data",
		DateLayout: "02-01-2006",
		DescCol:    "descrição",
		AmountMode: amountSplit,
		DebitCol:   "débito",
		CreditCol:  "crédito",
	},
	{
		Name:       "cgd-extrato",
		Comma:      ';',
		DateCol:    "data mov.",
		DateLayout: "02-01-2006",
		DescCol:    "descrição",
		AmountMode: amountSigned,
		AmountCol:  "movimento",
	},
	{
		Name:       "cgd-conta",
		Comma:      ';',
		DateCol:    "data mov.",
		DateLayout: "02-01-2006",
		DescCol:    "descrição",
		AmountMode: amountSigned,
		AmountCol:  "montante",
	},
}
