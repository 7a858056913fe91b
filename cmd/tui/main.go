package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/logging"
)

type model struct {
	app     *app.App
	appName string

	currentView View
	active      view.View
	size        tea.WindowSizeMsg
}

type View int

const (
	ViewMenu View = iota
	ViewAdd
	ViewList
	ViewBudgets
	ViewAnalytics
	ViewImport
	ViewExport
	ViewBackup
)

var menu = []struct {
	key   string
	view  View
	label string
}{
	{"1", ViewAdd, "Add Transaction"},
	{"2", ViewList, "View Transactions"},
	{"3", ViewBudgets, "Budgets"},
	{"4", ViewAnalytics, "Analytics & Assistant"},
	{"5", ViewImport, "Import Transactions"},
	{"6", ViewExport, "Export Transactions"},
	{"7", ViewBackup, "Backup & Restore"},
}

func initialModel(a *app.App, cfg *config.Config) model {
	return model{
		app:         a,
		appName:     cfg.App.Name,
		currentView: ViewMenu,
	}
}

// open builds a fresh screen so every visit starts from current data.
func (m model) open(v View) view.View {
	l := m.app.Ledger

	switch v {
	case ViewAdd:
		return view.NewAddTransactionModel(l, m.app.Categories)
	case ViewList:
		return view.NewListModel(l)
	case ViewBudgets:
		return view.NewBudgetsModel(l, m.app.Categories)
	case ViewAnalytics:
		return view.NewAnalyticsModel(l)
	case ViewImport:
		return view.NewImportModel(l, m.app.Import, m.app.Categories)
	case ViewExport:
		return view.NewExportModel(m.app.Export, l.Today)
	case ViewBackup:
		return view.NewBackupModel(m.app.Backup, l)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, item := range menu {
				if msg.String() == item.key {
					m.currentView = item.view
					m.active = m.open(item.view)

					if m.size.Width == 0 {
						return m, m.active.Init()
					}

					size := m.size

					return m, tea.Batch(m.active.Init(), func() tea.Msg { return size })
				}
			}

			return m, nil
		}
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.currentView != ViewMenu && m.active != nil {
		help := lipgloss.NewStyle().Faint(true).Render(m.active.ShortHelp())
		return m.active.View() + "\n" + lipgloss.NewStyle().PaddingLeft(1).Render(help)
	}

	s := lipgloss.NewStyle().Bold(true).Render(m.appName) + "\n\n"
	for _, item := range menu {
		s += fmt.Sprintf("%s. %s\n", item.key, item.label)
	}

	s += "\nq. Quit"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logFile, err := logging.OpenFile(cfg.App.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()

	logging.Setup(logFile, cfg.App.LogLevel, "tui")

	a, err := app.Open(cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		fmt.Fprintln(os.Stderr, "failed to open store:", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		a.Close()
		os.Exit(1)
	}
}
