package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/tally/internal/backup"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

type backupState int

const (
	backupStateBrowse backupState = iota
	backupStateConfirm
	backupStateBusy
)

type BackupModel struct {
	CommonModel
	svc    *backup.Service
	ledger *ledger.Service

	state    backupState
	archives []backup.Archive
	cursor   int
	form     *huh.Form
	confirm  *bool

	status string
	err    error
}

// NewBackupModel takes a nil service when the store has no directory to
// archive.
func NewBackupModel(svc *backup.Service, l *ledger.Service) BackupModel {
	return BackupModel{svc: svc, ledger: l, confirm: new(false)}
}

func (m BackupModel) Title() string { return "Backup & Restore" }

func (m BackupModel) ShortHelp() string {
	return "Esc: back | c: create backup | Enter: restore selected"
}

func (m BackupModel) Init() tea.Cmd {
	if m.svc == nil {
		return nil
	}

	return m.listCmd()
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case backupListMsg:
		m.err = msg.err
		m.archives = msg.archives
		m.cursor = min(m.cursor, max(len(m.archives)-1, 0))

		return m, nil

	case backupDoneMsg:
		m.state = backupStateBrowse

		if msg.err != nil {
			m.status = errStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = okStyle.Render(msg.text)

		return m, m.listCmd()
	}

	if m.state == backupStateConfirm {
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.state == backupStateBusy {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.archives)-1 {
			m.cursor++
		}
	case "c":
		if m.svc == nil {
			return m, nil
		}

		m.state = backupStateBusy
		m.status = ""

		return m, m.createCmd()
	case "enter":
		if m.cursor >= len(m.archives) {
			return m, nil
		}

		*m.confirm = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Restore %s?", m.archives[m.cursor].Name)).
					Description("Current data files will be overwritten.").
					Affirmative("Restore").
					Negative("Cancel").
					Value(m.confirm),
			),
		).WithWidth(60).WithShowHelp(false)
		m.state = backupStateConfirm

		return m, m.form.Init()
	}

	return m, nil
}

func (m BackupModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = backupStateBrowse
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.state = backupStateBrowse
		return m, nil
	}

	m.state = backupStateBusy

	return m, m.restoreCmd(m.archives[m.cursor].Name)
}

func (m BackupModel) View() string {
	if m.svc == nil {
		return panelStyle.Render("Backups are only available with the file store backend.\n\n(Esc to go back)")
	}

	if m.state == backupStateConfirm {
		return panelStyle.Render(m.form.View())
	}

	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Backups") + "\n\n")

	if m.status != "" {
		sb.WriteString(m.status + "\n\n")
	}

	switch {
	case m.err != nil:
		sb.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	case len(m.archives) == 0:
		sb.WriteString(faintStyle.Render("No backups yet. Press c to create one.") + "\n")
	}

	for i, a := range m.archives {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %s  %s  %s\n", cursor, a.Name,
			faintStyle.Render(humanize.Time(a.CreatedAt)), faintStyle.Render(humanize.Bytes(uint64(a.Size))))
	}

	if m.state == backupStateBusy {
		sb.WriteString("\nWorking...")
	}

	return panelStyle.Render(sb.String())
}

type backupListMsg struct {
	archives []backup.Archive
	err      error
}

type backupDoneMsg struct {
	text string
	err  error
}

func (m BackupModel) listCmd() tea.Cmd {
	return func() tea.Msg {
		archives, err := m.svc.List()
		return backupListMsg{archives: archives, err: err}
	}
}

func (m BackupModel) createCmd() tea.Cmd {
	return func() tea.Msg {
		a, err := m.svc.Create()
		if err != nil {
			return backupDoneMsg{err: err}
		}

		return backupDoneMsg{text: fmt.Sprintf("Created %s.", a.Name)}
	}
}

func (m BackupModel) restoreCmd(name string) tea.Cmd {
	return func() tea.Msg {
		files, err := m.svc.Restore(name)
		if err != nil {
			return backupDoneMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		m.ledger.NotifyRestored(ctx)

		return backupDoneMsg{text: fmt.Sprintf("Restored %d files from %s.", len(files), name)}
	}
}
