package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type addState int

const (
	addStateForm addState = iota
	addStateSaving
	addStateResult
)

// addFields is shared with the form by pointer so the bindings survive the
// model being copied on every update.
type addFields struct {
	Type        string
	Category    string
	Amount      string
	Date        string
	Description string
}

type AddTransactionModel struct {
	CommonModel
	ledger     *ledger.Service
	categories core.Categories

	state  addState
	form   *huh.Form
	fields *addFields

	result *ledger.AddResult
	err    error
}

func NewAddTransactionModel(l *ledger.Service, categories core.Categories) AddTransactionModel {
	m := AddTransactionModel{
		ledger:     l,
		categories: categories,
		fields: &addFields{
			Type: string(transaction.TypeExpense),
			Date: FormatDate(l.Today()),
		},
	}
	m.form = m.buildForm()

	return m
}

func (m AddTransactionModel) Title() string { return "Add Transaction" }

func (m AddTransactionModel) ShortHelp() string {
	if m.state == addStateResult {
		return "Esc: back | n: add another"
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m AddTransactionModel) buildForm() *huh.Form {
	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&f.Type),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(m.categories.For(f.Type)...)
				}, &f.Type).
				Value(&f.Category),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12.50").
				Value(&f.Amount).
				Validate(func(s string) error {
					_, err := core.ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					_, err := transaction.ParseDate(s)
					return err
				}),

			huh.NewInput().
				Key("description").
				Title("Description (optional)").
				Value(&f.Description).
				Validate(func(s string) error {
					if strings.ContainsAny(s, "\r\n") {
						return fmt.Errorf("description must be a single line")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AddTransactionModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddTransactionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(addResultMsg); ok {
		m.state = addStateResult
		m.result = saved.result
		m.err = saved.err

		return m, nil
	}

	switch m.state {
	case addStateForm:
		return m.updateForm(msg)
	case addStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m AddTransactionModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		m.state = addStateSaving
		return m, m.saveCmd()
	}

	return m, cmd
}

func (m AddTransactionModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "enter":
		return m, Back
	case "n":
		next := NewAddTransactionModel(m.ledger, m.categories)
		return next, next.Init()
	}

	return m, nil
}

func (m AddTransactionModel) View() string {
	switch m.state {
	case addStateForm:
		return panelStyle.Render(headerStyle.Render("New Transaction") + "\n\n" + m.form.View())
	case addStateSaving:
		return panelStyle.Render("Saving...")
	}

	if m.err != nil {
		return panelStyle.Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	tx := m.result.Transaction
	lines := []string{
		okStyle.Render("Transaction recorded."),
		"",
		fmt.Sprintf("%s  %s  %s  %s", FormatDate(tx.Date), tx.Category, FormatSigned(*tx), tx.Description),
	}

	if alert := alertView(m.result.Alert); alert != "" {
		lines = append(lines, "", alert)
	}

	lines = append(lines, "", faintStyle.Render("(n to add another, Esc to go back)"))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func alertView(a *budget.Alert) string {
	if a == nil {
		return ""
	}

	if a.Level == budget.AlertOver {
		return errStyle.Render(fmt.Sprintf("Budget exceeded for %s: %s over a budget of %s.",
			a.Category, FormatAmount(a.Overrun()), FormatAmount(a.Budget)))
	}

	return warnStyle.Render(fmt.Sprintf("Nearing the %s budget: %s left of %s.",
		a.Category, FormatAmount(a.Remaining()), FormatAmount(a.Budget)))
}

type addResultMsg struct {
	result *ledger.AddResult
	err    error
}

func (m AddTransactionModel) saveCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		amount, err := core.ParseAmount(f.Amount)
		if err != nil {
			return addResultMsg{err: err}
		}

		date, err := transaction.ParseDate(f.Date)
		if err != nil {
			return addResultMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		res, err := m.ledger.AddTransaction(ctx, transaction.CreateParams{
			Date:        date,
			Type:        transaction.Type(f.Type),
			Category:    f.Category,
			Amount:      amount,
			Description: f.Description,
		})

		return addResultMsg{result: res, err: err}
	}
}
