package view

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportFields struct {
	Format string
	Range  string
	Start  string
	End    string
	Dir    string
}

// params validates the form values into export parameters. Dates are only
// read for custom ranges.
func (f exportFields) params() (export.Params, error) {
	p := export.Params{Format: export.Format(f.Format), Range: export.Range(f.Range)}

	if p.Range != export.RangeCustom {
		return p, nil
	}

	start, err := transaction.ParseDate(f.Start)
	if err != nil {
		return p, err
	}

	end, err := transaction.ParseDate(f.End)
	if err != nil {
		return p, err
	}

	p.Start, p.End = start, end

	return p, nil
}

// fileName is the export file written into the chosen directory.
func (f exportFields) fileName(today time.Time) string {
	return fmt.Sprintf("tally_export_%s_%s.%s", f.Range, today.Format("20060102"), f.Format)
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	today         func() time.Time

	state   exportState
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model

	path    string
	count   int
	summary string
	err     error
}

func NewExportModel(svc *export.Service, today func() time.Time) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		today:         today,
		fields: &exportFields{
			Format: string(export.FormatCSV),
			Range:  string(export.RangeThisMonth),
			Dir:    "./exports",
		},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) buildForm() *huh.Form {
	f := m.fields

	rangeOptions := make([]huh.Option[string], 0, len(export.Ranges))
	for _, r := range export.Ranges {
		rangeOptions = append(rangeOptions, huh.NewOption(rangeLabel(r), string(r)))
	}

	validDate := func(s string) error {
		_, err := transaction.ParseDate(s)
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("CSV", string(export.FormatCSV)),
					huh.NewOption("JSON", string(export.FormatJSON)),
				).
				Value(&f.Format),

			huh.NewSelect[string]().
				Key("range").
				Title("Range").
				Options(rangeOptions...).
				Value(&f.Range),
		),
		huh.NewGroup(
			huh.NewInput().Key("start").Title("Start date").Placeholder("YYYY-MM-DD").Value(&f.Start).Validate(validDate),
			huh.NewInput().Key("end").Title("End date").Placeholder("YYYY-MM-DD").Value(&f.End).Validate(validDate),
		).WithHideFunc(func() bool { return f.Range != string(export.RangeCustom) }),
		huh.NewGroup(
			huh.NewInput().
				Key("dir").
				Title("Output directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&f.Dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func rangeLabel(r export.Range) string {
	switch r {
	case export.RangeAll:
		return "All transactions"
	case export.RangeThisMonth:
		return "This month"
	case export.RangeLastMonth:
		return "Last month"
	case export.RangeThisYear:
		return "This year"
	case export.RangeCustom:
		return "Custom range"
	}

	return string(r)
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		m.state = exportStateExporting
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
	}

	return m, cmd
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.path = result.path
		m.count = result.count
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyEnter {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return panelStyle.Render(m.form.View())

	case exportStateExporting:
		return panelStyle.Render(fmt.Sprintf("%s Exporting transactions...", m.spinner.View()))

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return panelStyle.Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	return panelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			okStyle.Bold(true).Render("Export Complete!"),
			"",
			fmt.Sprintf("%d transactions written to %s", m.count, m.path),
			"",
			"Summary:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	path    string
	count   int
	summary string
	err     error
}

func (m ExportModel) runExportCmd() tea.Cmd {
	f := *m.fields
	today := m.today()

	return func() tea.Msg {
		p, err := f.params()
		if err != nil {
			return exportResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		txs, err := m.exportService.Select(ctx, p, today)
		if err != nil {
			return exportResultMsg{err: err}
		}

		path := filepath.Join(f.Dir, f.fileName(today))

		n, err := m.exportService.ExportFile(ctx, path, p, today)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path, count: n, summary: export.Summary(txs)}
	}
}
