package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quickfib/internal/format"
)

// HeaderModel renders the top bar: title, version, elapsed time and the
// latest system CPU and memory sample.
type HeaderModel struct {
	startTime  time.Time
	endTime    time.Time
	version    string
	cpuPercent float64
	memPercent float64
	width      int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		endTime:   time.Now(),
		version:   version,
	}
}

// Start restarts the elapsed timer.
func (h *HeaderModel) Start() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

func (h *HeaderModel) SetWidth(w int) { h.width = w }

// SetSysStats stores the latest system sample.
func (h *HeaderModel) SetSysStats(cpu, mem float64) {
	h.cpuPercent = cpu
	h.memPercent = mem
}

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "quickfib"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe +
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.elapsed()))
	right := dimStyle.Render(fmt.Sprintf("CPU %5.1f%%  MEM %5.1f%%", h.cpuPercent, h.memPercent))

	gap := max(h.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Render(left + spaces(gap) + right)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%*s", n, "")
}
