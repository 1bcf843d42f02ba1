package ui

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps semantic roles to ANSI escape sequences for line-oriented
// output. Empty strings disable styling.
type Theme struct {
	Name string

	Primary, Secondary     string
	Success, Warning       string
	Error, Info            string
	Bold, Underline, Reset string
}

// fg returns the 256-color foreground sequence for code.
func fg(code int) string { return fmt.Sprintf("\033[38;5;%dm", code) }

var (
	DarkTheme = Theme{
		Name:    "dark",
		Primary: fg(39), Secondary: fg(245),
		Success: fg(82), Warning: fg(220),
		Error: fg(196), Info: fg(141),
		Bold: "\033[1m", Underline: "\033[4m", Reset: "\033[0m",
	}

	LightTheme = Theme{
		Name:    "light",
		Primary: fg(27), Secondary: fg(240),
		Success: fg(28), Warning: fg(130),
		Error: fg(124), Info: fg(54),
		Bold: "\033[1m", Underline: "\033[4m", Reset: "\033[0m",
	}

	// NoColorTheme is selected by --no-color and NO_COLOR.
	NoColorTheme = Theme{Name: "none"}
)

// TUITheme is the lipgloss palette of the dashboard.
type TUITheme struct {
	Bg, Text, Border, Dim lipgloss.TerminalColor
	Accent, Info          lipgloss.TerminalColor
	Success, Warning      lipgloss.TerminalColor
	Error                 lipgloss.TerminalColor
}

var (
	DarkTUITheme = TUITheme{
		Bg:      lipgloss.Color("#0F1419"),
		Text:    lipgloss.Color("#D9DEE3"),
		Border:  lipgloss.Color("#3A8FB7"),
		Dim:     lipgloss.Color("#5C6773"),
		Accent:  lipgloss.Color("#59C2FF"),
		Info:    lipgloss.Color("#B392F0"),
		Success: lipgloss.Color("#91D076"),
		Warning: lipgloss.Color("#FFB454"),
		Error:   lipgloss.Color("#F07178"),
	}

	NoColorTUITheme = TUITheme{
		Bg: lipgloss.NoColor{}, Text: lipgloss.NoColor{}, Border: lipgloss.NoColor{}, Dim: lipgloss.NoColor{},
		Accent: lipgloss.NoColor{}, Info: lipgloss.NoColor{},
		Success: lipgloss.NoColor{}, Warning: lipgloss.NoColor{},
		Error: lipgloss.NoColor{},
	}
)

var active atomic.Pointer[Theme]

func init() { SetCurrentTheme(DarkTheme) }

// GetCurrentTheme returns the active theme. Safe for concurrent use.
func GetCurrentTheme() Theme { return *active.Load() }

// SetCurrentTheme installs t as the active theme.
func SetCurrentTheme(t Theme) { active.Store(&t) }

// GetCurrentTUITheme returns the dashboard palette that matches the
// active theme.
func GetCurrentTUITheme() TUITheme {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// SetTheme activates "dark", "light" or "none". Other names fall back to
// dark.
func SetTheme(name string) {
	switch name {
	case LightTheme.Name:
		SetCurrentTheme(LightTheme)
	case NoColorTheme.Name:
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme picks the startup theme. noColor or a set NO_COLOR variable
// (https://no-color.org/) disables colors.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
