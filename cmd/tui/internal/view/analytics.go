package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"

	"github.com/MrJamesThe3rd/tally/internal/advisor"
	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

// Section is one screen of the analytics menu.
type Section int

const (
	SectionBalance Section = iota
	SectionSpending
	SectionIncome
	SectionSavings
	SectionHealth
	SectionTrend
	SectionReport
	SectionAdvice
)

var sections = []Section{
	SectionBalance, SectionSpending, SectionIncome, SectionSavings,
	SectionHealth, SectionTrend, SectionReport, SectionAdvice,
}

func (s Section) String() string {
	switch s {
	case SectionBalance:
		return "Balance"
	case SectionSpending:
		return "Spending Analysis"
	case SectionIncome:
		return "Income Analysis"
	case SectionSavings:
		return "Savings Overview"
	case SectionHealth:
		return "Financial Health Score"
	case SectionTrend:
		return "Monthly Trend"
	case SectionReport:
		return "Monthly Report"
	case SectionAdvice:
		return "Financial Assistant"
	}

	return "Unknown"
}

type analyticsState int

const (
	analyticsStateMenu analyticsState = iota
	analyticsStateDetail
)

type AnalyticsModel struct {
	CommonModel
	ledger *ledger.Service

	state    analyticsState
	cursor   int
	section  Section
	viewport viewport.Model
	loading  bool
}

func NewAnalyticsModel(l *ledger.Service) AnalyticsModel {
	return AnalyticsModel{
		ledger:   l,
		viewport: viewport.New(90, 24),
	}
}

func (m AnalyticsModel) Title() string { return "Analytics" }

func (m AnalyticsModel) ShortHelp() string {
	if m.state == analyticsStateDetail {
		return "Esc: back | ↑/↓: scroll | r: refresh"
	}

	return "Esc: back | Enter: open"
}

func (m AnalyticsModel) Init() tea.Cmd {
	return nil
}

func (m AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sectionLoadedMsg:
		if msg.section != m.section {
			return m, nil
		}

		m.loading = false

		content := msg.content
		if msg.err != nil {
			content = errStyle.Render(fmt.Sprintf("Error: %v", msg.err))
		}

		m.viewport.SetContent(content)
		m.viewport.GotoTop()

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.viewport.Width = fit(m.Width, 4, 40)
		m.viewport.Height = fit(m.Height, 6, 10)

		return m, nil

	case tea.KeyMsg:
		if m.state == analyticsStateMenu {
			return m.updateMenu(msg)
		}

		switch msg.String() {
		case "esc":
			m.state = analyticsStateMenu
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd(m.section)
		}
	}

	if m.state == analyticsStateDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m AnalyticsModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(sections)-1 {
			m.cursor++
		}
	case "enter":
		m.section = sections[m.cursor]
		m.state = analyticsStateDetail
		m.loading = true

		return m, m.loadCmd(m.section)
	}

	return m, nil
}

func (m AnalyticsModel) View() string {
	if m.state == analyticsStateDetail {
		if m.loading {
			return panelStyle.Render("Loading...")
		}

		return panelStyle.Render(headerStyle.Render(m.section.String()) + "\n\n" + m.viewport.View())
	}

	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Analytics") + "\n\n")

	for i, s := range sections {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %s\n", cursor, s)
	}

	sb.WriteString("\n(Enter to open, Esc to back)")

	return panelStyle.Render(sb.String())
}

type sectionLoadedMsg struct {
	section Section
	content string
	err     error
}

func (m AnalyticsModel) loadCmd(s Section) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var (
			content string
			err     error
		)

		switch s {
		case SectionBalance:
			var b ledger.Balance
			if b, err = m.ledger.Balance(ctx); err == nil {
				content = renderBalance(b)
			}
		case SectionSpending:
			var a analytics.SpendingAnalysis
			if a, err = m.ledger.Spending(ctx); err == nil {
				content = renderSpending(a)
			}
		case SectionIncome:
			var a analytics.IncomeAnalysis
			if a, err = m.ledger.Income(ctx); err == nil {
				content = renderIncome(a)
			}
		case SectionSavings:
			var ms []analytics.MonthSavings
			if ms, err = m.ledger.Savings(ctx); err == nil {
				content = renderSavings(ms)
			}
		case SectionHealth:
			var h analytics.HealthScore
			if h, err = m.ledger.Health(ctx); err == nil {
				content = renderHealth(h)
			}
		case SectionTrend:
			var points []analytics.MonthPoint
			if points, err = m.ledger.Series(ctx); err == nil {
				content = renderSeries(points)
			}
		case SectionReport:
			var r report.Report
			if r, err = m.ledger.Report(ctx); err == nil {
				var sb strings.Builder
				err = report.WriteText(&sb, r)
				content = sb.String()
			}
		case SectionAdvice:
			var a advisor.Advice
			if a, err = m.ledger.Advice(ctx); err == nil {
				content = renderAdvice(a)
			}
		}

		return sectionLoadedMsg{section: s, content: content, err: err}
	}
}

func renderBalance(b ledger.Balance) string {
	balance := FormatAmount(b.Savings)
	if b.Savings < 0 {
		balance = errStyle.Render(balance)
	} else {
		balance = okStyle.Render(balance)
	}

	out := fmt.Sprintf("%s\n\nTotal income:  %s\nTotal expense: %s\nBalance:       %s\n",
		b.Month.Label(), FormatAmount(b.Income), FormatAmount(b.Expense), balance)

	if b.Malformed > 0 {
		out += "\n" + warnStyle.Render(fmt.Sprintf("%d unreadable lines in the store were skipped; see the log for details.", b.Malformed)) + "\n"
	}

	return out
}

func renderShares(sb *strings.Builder, shares []analytics.CategoryShare) {
	for _, s := range shares {
		fmt.Fprintf(sb, "  %-16s %14s  %5.1f%%\n", s.Category, FormatAmount(s.Amount), s.Percent)
	}
}

func renderSpending(a analytics.SpendingAnalysis) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", a.Month.Label())

	if a.Total == 0 {
		sb.WriteString("No expenses recorded this month.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Total spent: %s (last month %s, trend %s)\n", FormatAmount(a.Total), FormatAmount(a.PreviousTotal), trendStyle(a.Trend, false))
	fmt.Fprintf(&sb, "Average per day: %s\n\nBy category:\n", FormatAmount(a.BurnRate))
	renderShares(&sb, a.Breakdown)

	sb.WriteString("\nTop categories:\n")

	for i, s := range a.Top {
		fmt.Fprintf(&sb, "  %d. %s (%s)\n", i+1, s.Category, FormatAmount(s.Amount))
	}

	if len(a.LargeExpenses) > 0 {
		sb.WriteString("\nUnusually large expenses:\n")

		for _, tx := range a.LargeExpenses {
			fmt.Fprintf(&sb, "  %s  %-14s %14s  %s\n", FormatDate(tx.Date), tx.Category, FormatAmount(tx.Amount), tx.Description)
		}
	}

	return sb.String()
}

func renderIncome(a analytics.IncomeAnalysis) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", a.Month.Label())

	if a.Total == 0 {
		sb.WriteString("No income recorded this month.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Total income: %s (last month %s, trend %s)\n", FormatAmount(a.Total), FormatAmount(a.PreviousTotal), trendStyle(a.Trend, true))
	fmt.Fprintf(&sb, "Sources: %d (%s)\n\nBy source:\n", len(a.Sources), a.Stability)
	renderShares(&sb, a.Sources)

	return sb.String()
}

func renderSavings(ms []analytics.MonthSavings) string {
	var sb strings.Builder

	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"Month", "Income", "Expense", "Savings", "Rate", "Trend"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, m := range ms {
		table.Append([]string{
			m.Month.Label(),
			FormatAmount(m.Income),
			FormatAmount(m.Expense),
			FormatAmount(m.Savings),
			fmt.Sprintf("%.1f%%", m.Rate),
			string(m.Trend),
		})
	}

	table.Render()

	return sb.String()
}

func renderHealth(h analytics.HealthScore) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", h.Month.Label())
	fmt.Fprintf(&sb, "Savings rate:        %5.1f%%\n\n", h.SavingsRate)
	fmt.Fprintf(&sb, "Savings:             %3d / %d\n", h.Savings, analytics.MaxSavingsScore)
	fmt.Fprintf(&sb, "Income vs expense:   %3d / %d\n", h.IncomeVsExpense, analytics.MaxIncomeVsExpenseScore)
	fmt.Fprintf(&sb, "Budget adherence:    %3d / %d\n", h.BudgetAdherence, analytics.MaxAdherenceScore)
	fmt.Fprintf(&sb, "Debt management:     %3d / %d\n\n", h.Debt, analytics.MaxDebtScore)
	fmt.Fprintf(&sb, "Total: %s\n\nRecommendations:\n",
		bandStyle(h.Band).Render(fmt.Sprintf("%d / 100 (%s)", h.Total, h.Band)))

	for _, r := range h.Recommendations {
		fmt.Fprintf(&sb, "  - %s\n", r)
	}

	return sb.String()
}

func renderSeries(points []analytics.MonthPoint) string {
	if len(points) == 0 {
		return "No transactions recorded yet.\n"
	}

	var sb strings.Builder

	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"Month", "Income", "Expense", "Savings"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, p := range points {
		table.Append([]string{p.Month.Label(), FormatAmount(p.Income), FormatAmount(p.Expense), FormatAmount(p.Savings)})
	}

	table.Render()

	return sb.String()
}

func renderAdvice(a advisor.Advice) string {
	if !a.HasData {
		return "Add some transactions first so there is something to advise on.\n"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", a.Month.Label())

	sb.WriteString(headerStyle.Render("Spending") + "\n")

	if a.Top != nil {
		fmt.Fprintf(&sb, "Your top spending category is %s at %s.\n", a.Top.Category, FormatAmount(a.Top.Amount))

		if a.Top.Tip != "" {
			fmt.Fprintf(&sb, "Tip: %s\n", a.Top.Tip)
		}
	} else {
		sb.WriteString("No expenses recorded this month.\n")
	}

	for _, tx := range a.LargeExpenses {
		fmt.Fprintf(&sb, "Large expense: %s on %s (%s).\n", FormatAmount(tx.Amount), FormatDate(tx.Date), tx.Category)
	}

	sb.WriteString("\n" + headerStyle.Render("Savings") + "\n")

	if s := a.Savings; s != nil {
		fmt.Fprintf(&sb, "Aim to save %s this month (%d%% of your average income of %s).\n",
			FormatAmount(s.Target), advisor.SavingsTargetPercent, FormatAmount(s.AverageIncome))

		if s.OnTrack {
			sb.WriteString(okStyle.Render(fmt.Sprintf("You have saved %s so far. On track!", FormatAmount(s.Saved))) + "\n")
		} else {
			sb.WriteString(warnStyle.Render(fmt.Sprintf("You have saved %s so far.", FormatAmount(s.Saved))) + "\n")
		}
	} else {
		sb.WriteString("Record some income to get a savings goal.\n")
	}

	sb.WriteString("\n" + headerStyle.Render("Budgets") + "\n")

	switch {
	case !a.HasBudgets:
		sb.WriteString("You have no budgets. Setting some helps keep spending in check.\n")
	case len(a.Budgets) == 0:
		sb.WriteString(okStyle.Render("All budgets are comfortably within their limits.") + "\n")
	}

	for _, n := range a.Budgets {
		if n.State == advisor.BudgetOver {
			sb.WriteString(errStyle.Render(fmt.Sprintf("%s is over budget by %s.", n.Category, FormatAmount(n.Overspent()))) + "\n")
			continue
		}

		sb.WriteString(warnStyle.Render(fmt.Sprintf("%s is nearing its limit: %s left.", n.Category, FormatAmount(n.Left()))) + "\n")
	}

	sb.WriteString("\n" + headerStyle.Render("Health") + "\n")
	fmt.Fprintf(&sb, "Score %s. %s\n", bandStyle(a.Health.Band).Render(fmt.Sprintf("%d/100", a.Health.Total)), a.HealthAdvice)

	return sb.String()
}
