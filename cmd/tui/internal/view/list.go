package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateTimeframe
)

var typeFilters = []struct {
	label string
	typ   *transaction.Type
}{
	{label: "All"},
	{label: "Expenses", typ: new(transaction.TypeExpense)},
	{label: "Income", typ: new(transaction.TypeIncome)},
}

type ListModel struct {
	CommonModel
	ledger *ledger.Service

	state  listState
	table  table.Model
	picker TimeframePicker
	txs    []transaction.Transaction

	typeFilterIdx int
	dateFilter    transaction.ListFilter
	dateLabel     string

	loading bool
	err     error
}

func NewListModel(l *ledger.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 15},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		ledger:    l,
		table:     t,
		picker:    NewTimeframePicker(l.Today),
		dateLabel: TimeframeAll.String(),
		loading:   true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateTimeframe {
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | t: type filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case TimeframeSelectedMsg:
		m.dateFilter = msg.Filter
		m.dateLabel = msg.Label
		m.state = listStateBrowse
		m.table.Focus()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(fit(m.Height, 12, 5))

		return m, nil
	}

	if m.state == listStateTimeframe {
		return m.updateTimeframe(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			return m, m.loadTxsCmd()
		case "d":
			m.state = listStateTimeframe
			m.picker.Reset()
			m.table.Blur()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = listStateBrowse
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	if m.state == listStateTimeframe {
		return panelStyle.Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s",
		activeStyle(typeFilters[m.typeFilterIdx].label),
		activeStyle(m.dateLabel),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	income := aggregate.SumByType(m.txs, transaction.TypeIncome)
	expense := aggregate.SumByType(m.txs, transaction.TypeExpense)
	footer := faintStyle.Render(fmt.Sprintf("%d transactions | income %s | expense %s | net %s",
		len(m.txs), FormatAmount(income), FormatAmount(expense), FormatAmount(income-expense)))

	if len(m.txs) == 0 {
		footer = faintStyle.Render("No transactions found.")
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		footer,
	))
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			tx.Category,
			FormatSigned(tx),
			tx.Description,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m ListModel) filter() transaction.ListFilter {
	f := m.dateFilter
	f.Type = typeFilters[m.typeFilterIdx].typ

	return f
}

// Messages

type loadListMsg struct {
	txs []transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		txs, err := m.ledger.ListTransactions(ctx, filter)
		if err != nil {
			return loadListMsg{err: err}
		}

		transaction.SortByDate(txs, true)

		return loadListMsg{txs: txs}
	}
}
