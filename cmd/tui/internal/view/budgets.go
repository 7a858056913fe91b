package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

type budgetState int

const (
	budgetStateBrowse budgetState = iota
	budgetStateEdit
)

type budgetFields struct {
	Category string
	Amount   string
}

type BudgetsModel struct {
	CommonModel
	ledger     *ledger.Service
	categories core.Categories

	state    budgetState
	table    table.Model
	statuses []budget.Status
	form     *huh.Form
	fields   *budgetFields

	status string
	err    error
}

func NewBudgetsModel(l *ledger.Service, categories core.Categories) BudgetsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 16},
			{Title: "Budget", Width: 14},
			{Title: "Spent", Width: 14},
			{Title: "Remaining", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return BudgetsModel{
		ledger:     l,
		categories: categories,
		table:      t,
		fields:     &budgetFields{},
	}
}

func (m BudgetsModel) Title() string { return "Budgets" }

func (m BudgetsModel) ShortHelp() string {
	if m.state == budgetStateEdit {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | s: set budget | e: edit selected"
}

func (m BudgetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBudgetsMsg:
		m.err = msg.err
		m.statuses = msg.statuses
		m.refreshTable()

		return m, nil

	case budgetSavedMsg:
		m.state = budgetStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errStyle.Render(fmt.Sprintf("Error saving: %v", msg.err))
			return m, nil
		}

		m.status = okStyle.Render(fmt.Sprintf("Budget for %s set to %s.", msg.category, FormatAmount(msg.amount)))

		return m, m.loadCmd()
	}

	if m.state == budgetStateEdit {
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m BudgetsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "s":
			return m.startEdit(budget.Status{})
		case "e":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.statuses) {
				return m.startEdit(m.statuses[idx])
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BudgetsModel) startEdit(current budget.Status) (tea.Model, tea.Cmd) {
	m.fields = &budgetFields{Category: current.Category}
	if current.Category != "" {
		m.fields.Amount = FormatAmount(current.Budget)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(huh.NewOptions(m.categories.Expense...)...).
				Value(&m.fields.Category),

			huh.NewInput().
				Key("amount").
				Title("Monthly budget").
				Placeholder("500.00").
				Value(&m.fields.Amount).
				Validate(func(s string) error {
					_, err := core.ParseBudgetAmount(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetStateEdit
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m BudgetsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m BudgetsModel) View() string {
	if m.err != nil {
		return panelStyle.Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	var body string

	if len(m.statuses) == 0 {
		body = faintStyle.Render("No budgets set. Press s to create one.")
	} else {
		body = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Budgets this month"),
		"",
		body,
	)

	if m.state == budgetStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Set Budget\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n\n" + content
	}

	return panelStyle.Render(content)
}

func (m *BudgetsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.statuses))
	for _, s := range m.statuses {
		remaining := FormatAmount(s.Remaining)
		if s.Remaining < 0 {
			remaining = errStyle.Render(remaining)
		}

		rows = append(rows, table.Row{s.Category, FormatAmount(s.Budget), FormatAmount(s.Spent), remaining})
	}

	m.table.SetRows(rows)
}

type loadBudgetsMsg struct {
	statuses []budget.Status
	err      error
}

func (m BudgetsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		statuses, err := m.ledger.BudgetStatus(ctx)

		return loadBudgetsMsg{statuses: statuses, err: err}
	}
}

type budgetSavedMsg struct {
	category string
	amount   int64
	err      error
}

func (m BudgetsModel) saveCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		amount, err := core.ParseBudgetAmount(f.Amount)
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		err = m.ledger.SetBudget(ctx, f.Category, amount)

		return budgetSavedMsg{category: f.Category, amount: amount, err: err}
	}
}
