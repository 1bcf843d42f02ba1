package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quickfib/internal/ui"
)

// Dashboard styles, rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	promptStyle        lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	successStyle       lipgloss.Style
	warningStyle       lipgloss.Style
	errorStyle         lipgloss.Style
	tableStyles        table.Styles
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds every style from the current ui theme. Run calls
// it again after InitTheme has applied --no-color.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	promptStyle = lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	metricLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(t.Success)
	warningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	tableStyles = table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(t.Bg).
		Background(t.Accent).
		Bold(false)
}
