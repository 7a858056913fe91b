package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is a screen reachable from the main menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel tracks the terminal size for views that lay out tables or
// scrolling panes.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) resize(msg tea.WindowSizeMsg) {
	c.Width, c.Height = msg.Width, msg.Height
}

// fit returns the space left after reserved rows or columns, never less than floor.
func fit(total, reserved, floor int) int {
	return max(total-reserved, floor)
}

// BackMsg asks the menu to close the active view.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
