// Package ui holds the color themes shared by the CLI, the REPL and the TUI.
// Plain-text output goes through the Color* functions, which honor NO_COLOR
// and --no-color; the TUI uses the lipgloss palette from GetCurrentTUITheme.
package ui
