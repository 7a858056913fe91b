package view

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const importTimeout = 2 * time.Minute

// maxSkippedShown bounds the skip reasons listed on the result screen.
const maxSkippedShown = 10

type importState int

const (
	importStateFilePick importState = iota
	importStateOptions
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	ledger        *ledger.Service
	importService *importer.Service
	categories    core.Categories

	state      importState
	filePicker filepicker.Model
	form       *huh.Form
	path       string
	dedupe     *bool

	result *transaction.ImportResult
	err    error
}

func NewImportModel(l *ledger.Service, impSvc *importer.Service, categories core.Categories) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".json"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		ledger:        l,
		importService: impSvc,
		categories:    categories,
		filePicker:    fp,
		dedupe:        new(true),
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStateOptions:
		return m.updateOptions(msg)
	}

	return m, nil
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateOptions
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Key("dedupe").
					Title("Skip transactions that are already recorded?").
					Affirmative("Yes").
					Negative("No").
					Value(m.dedupe),
			),
		).WithWidth(50).WithShowHelp(false)

		return m, m.form.Init()
	}

	return m, cmd
}

func (m ImportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = importStateImporting

	return m, m.importCmd(m.path, *m.dedupe)
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateOptions, importStateResult:
		m.state = importStateFilePick
		m.result = nil
		m.err = nil

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return panelStyle.Render(fmt.Sprintf("Select a CSV or JSON file to import:\n\n%s", m.filePicker.View()))
	case importStateOptions:
		return panelStyle.Render(fmt.Sprintf("Importing %s\n\n%s", m.path, m.form.View()))
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Importing from %s...", m.path))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	var sb strings.Builder

	sb.WriteString(okStyle.Render(fmt.Sprintf("Imported %d transactions.", len(m.result.Added))))
	fmt.Fprintf(&sb, "\n%s\n", faintStyle.Render("Batch "+m.result.BatchID.String()))

	if cats := unlisted(m.categories, m.result.Added); len(cats) > 0 {
		sb.WriteString("\n" + warnStyle.Render("Not in your category lists: "+strings.Join(cats, ", ")) + "\n")
		sb.WriteString(faintStyle.Render("These were imported as-is and cannot be budgeted from the menu.") + "\n")
	}

	if n := len(m.result.Skipped); n > 0 {
		sb.WriteString("\n" + warnStyle.Render(fmt.Sprintf("Skipped %d records:", n)) + "\n")

		for _, s := range m.result.Skipped[:min(n, maxSkippedShown)] {
			fmt.Fprintf(&sb, "  #%d: %s\n", s.Index+1, s.Reason)
		}

		if n > maxSkippedShown {
			fmt.Fprintf(&sb, "  ... and %d more\n", n-maxSkippedShown)
		}
	}

	sb.WriteString("\n(Esc to go back)")

	return style.Render(sb.String())
}

// unlisted returns, sorted, the categories of txs missing from the
// configured list of their type.
func unlisted(categories core.Categories, txs []transaction.Transaction) []string {
	seen := make(map[string]struct{})

	for _, tx := range txs {
		if !categories.Known(string(tx.Type), tx.Category) {
			seen[tx.Category] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Messages

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string, dedupe bool) tea.Cmd {
	return func() tea.Msg {
		records, err := m.importService.ParseFile(path)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.ledger.Import(ctx, records, dedupe)

		return importResultMsg{result: result, err: err}
	}
}
