package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const storeTimeout = 5 * time.Second

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	panelStyle  = lipgloss.NewStyle().Padding(1)
)

// FormatAmount renders minor units with thousands separators.
func FormatAmount(minor int64) string {
	return core.FormatAmount(minor)
}

// FormatSigned prefixes income with + and expense with -.
func FormatSigned(tx transaction.Transaction) string {
	if tx.Type == transaction.TypeIncome {
		return "+" + core.FormatAmount(tx.Amount)
	}

	return "-" + core.FormatAmount(tx.Amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(transaction.DateLayout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// trendStyle colours a trend from the point of view of the reader: rising
// expenses are bad, rising income is good.
func trendStyle(t analytics.Trend, upIsGood bool) string {
	good := (t == analytics.TrendUp) == upIsGood

	switch {
	case t == analytics.TrendStable || t == analytics.TrendNone:
		return faintStyle.Render(string(t))
	case good:
		return okStyle.Render(string(t))
	default:
		return errStyle.Render(string(t))
	}
}

func bandStyle(b analytics.Band) lipgloss.Style {
	switch b {
	case analytics.BandGood:
		return okStyle
	case analytics.BandFair:
		return warnStyle
	default:
		return errStyle
	}
}

// StoreCtx returns a context with a standard timeout for store operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
