package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/quickfib/internal/format"
)

// MetricsModel displays runtime memory statistics and the progress speed.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	speed        float64 // progress per second
	lastProgress float64
	lastUpdate   time.Time
	width        int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{lastUpdate: time.Now()}
}

func (m *MetricsModel) SetWidth(w int) { m.width = w }

// UpdateMemStats stores a memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress refreshes the smoothed speed. Samples closer than 50ms or
// without forward progress are ignored.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt <= 0.05 {
		return
	}
	if dp := progress - m.lastProgress; dp > 0 {
		instant := dp / dt
		if m.speed > 0 {
			m.speed = 0.7*m.speed + 0.3*instant
		} else {
			m.speed = instant
		}
	}
	m.lastProgress = progress
	m.lastUpdate = now
}

// Reset clears the speed estimate for a new run.
func (m *MetricsModel) Reset() {
	m.speed = 0
	m.lastProgress = 0
	m.lastUpdate = time.Now()
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	cells := []string{
		metricCell("Memory", format.FormatBytes(m.alloc)),
		metricCell("Heap", format.FormatBytes(m.heapSys)),
		metricCell("GC Runs", fmt.Sprint(m.numGC)),
		metricCell("GC Pause", format.FormatExecutionDuration(time.Duration(m.pauseTotalNs))),
		metricCell("Goroutines", fmt.Sprint(m.numGoroutine)),
		metricCell("Speed", fmt.Sprintf("%.1f%%/s", m.speed*100)),
	}
	body := titleStyle.Render("Metrics") + "\n" + strings.Join(cells, "  ")
	style := panelStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(body)
}

func metricCell(label, value string) string {
	return metricLabelStyle.Render(label+": ") + metricValueStyle.Render(value)
}
