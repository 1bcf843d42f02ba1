package tui

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/config"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/format"
	"github.com/agbru/quickfib/internal/metrics"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/sysmon"
)

const (
	tickInterval = 500 * time.Millisecond
	// valueEdges is the number of leading and trailing digits kept in the
	// table's value column.
	valueEdges   = 10
	resultEdges  = 25
	progressBarW = 30
)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx         context.Context
	cancel      context.CancelFunc
	calculators []calculator.Calculator
	generation  uint64
	running     bool
	exitCode    int
}

// Model is the dashboard: an index prompt, one table row per backend, and
// runtime metrics.
type Model struct {
	header  HeaderModel
	metrics MetricsModel
	input   textinput.Model
	table   table.Model
	help    help.Model
	keymap  KeyMap

	ExecutionState

	parentCtx context.Context
	config    config.AppConfig
	ref       *programRef

	n        uint64
	results  []orchestration.CalculationResult
	progress float64
	eta      time.Duration
	status   string
	failed   bool
	wrapped  bool // presented result overflowed its type
	paused   bool
	showHex  bool
	width    int
	height   int
}

// NewModel builds the dashboard. The first run, for cfg.N, starts with Init.
func NewModel(parentCtx context.Context, calculators []calculator.Calculator, cfg config.AppConfig, version string) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("F(n), n = ")
	ti.Placeholder = "index"
	ti.CharLimit = 20
	ti.SetValue(strconv.FormatUint(cfg.N, 10))
	ti.Focus()

	t := table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
		table.WithHeight(len(calculators)+1),
		table.WithStyles(tableStyles),
	)

	ctx, cancel := context.WithCancel(parentCtx)
	m := Model{
		header:  NewHeaderModel(version),
		metrics: NewMetricsModel(),
		input:   ti,
		table:   t,
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:         ctx,
			cancel:      cancel,
			calculators: calculators,
			generation:  1,
			running:     true,
			exitCode:    apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		ref:       &programRef{},
		n:         cfg.N,
		status:    fmt.Sprintf("Computing F(%d)...", cfg.N),
	}
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		sampleSysStatsCmd(),
		startCalculationCmd(m.ref, m.ctx, m.calculators, m.config, m.n, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case TickMsg:
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(tickCmd(), sampleMemStatsCmd(), sampleSysStatsCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.header.SetSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.progress = msg.AverageProgress
		m.eta = msg.ETA
		m.metrics.UpdateProgress(msg.AverageProgress)
		return m, nil

	case ProgressDoneMsg:
		if msg.Generation == m.generation {
			m.progress = 1
			m.eta = 0
		}
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.results = msg.Results
		m.table.SetRows(m.rows())
		return m, nil

	case FinalResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if len(m.results) == 0 {
			m.results = []orchestration.CalculationResult{msg.Result}
			m.table.SetRows(m.rows())
		}
		m.status = m.resultLine(msg.Result, msg.N)
		m.failed = false
		m.wrapped = msg.Result.Overflowed
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.status = fmt.Sprintf("Error after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)
		m.failed = true
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.running = false
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		if msg.ExitCode == apperrors.ExitErrorMismatch {
			m.status = "Backends disagree on the exact value."
			m.failed = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Run):
		n, err := strconv.ParseUint(strings.TrimSpace(m.input.Value()), 10, 64)
		if err != nil {
			m.status = "Enter a non-negative integer index."
			m.failed = true
			return m, nil
		}
		return m, m.startRun(n)

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Hex):
		m.showHex = !m.showHex
		m.table.SetRows(m.rows())
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.input.SetValue("")
		m.results = nil
		m.table.SetRows(nil)
		m.progress = 0
		m.eta = 0
		m.status = ""
		m.failed = false
		m.wrapped = false
		m.metrics.Reset()
		return m, nil

	case key.Matches(msg, m.keymap.Up, m.keymap.Down, m.keymap.PageUp, m.keymap.PageDown):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if !editingKey(msg) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startRun cancels the current run, if any, and launches a new one for n.
func (m *Model) startRun(n uint64) tea.Cmd {
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)
	m.generation++
	m.running = true
	m.exitCode = apperrors.ExitSuccess
	m.n = n
	m.results = nil
	m.table.SetRows(nil)
	m.progress = 0
	m.eta = 0
	m.failed = false
	m.wrapped = false
	m.status = fmt.Sprintf("Computing F(%d)...", n)
	m.header.Start()
	m.metrics.Reset()
	return startCalculationCmd(m.ref, m.ctx, m.calculators, m.config, n, m.generation)
}

// editingKey reports whether msg edits the index field. Only digits and
// cursor movement reach the text input.
func editingKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return false
			}
		}
		return len(msg.Runes) > 0
	}
	return false
}

func tableColumns(width int) []table.Column {
	valueW := max(width-40, 24)
	return []table.Column{
		{Title: "Backend", Width: 14},
		{Title: "Value", Width: valueW},
		{Title: "Duration", Width: 10},
		{Title: "Status", Width: 8},
	}
}

func (m Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.results))
	for _, r := range m.results {
		value, status := "", "exact"
		switch {
		case r.Err != nil:
			status = "error"
			value = r.Err.Error()
		case r.Overflowed:
			status = "wrapped"
			value = m.renderValue(r.Result, valueEdges)
		default:
			value = m.renderValue(r.Result, valueEdges)
		}
		rows = append(rows, table.Row{r.Name, value, format.FormatExecutionDuration(r.Duration), status})
	}
	return rows
}

func (m Model) renderValue(v *big.Int, edges int) string {
	if v == nil {
		return ""
	}
	if m.showHex {
		return "0x" + format.TruncateDigits(v.Text(16), edges)
	}
	return format.TruncateDigits(v.String(), edges)
}

func (m Model) resultLine(r orchestration.CalculationResult, n uint64) string {
	line := fmt.Sprintf("F(%d) = %s  (%d digits, %d bits, %s)",
		n, m.renderValue(r.Result, resultEdges), len(r.Result.String()), r.Result.BitLen(),
		format.FormatExecutionDuration(r.Duration))
	if r.Overflowed {
		line += "  wrapped: exact modulo the type width"
	}
	return line
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.metrics.SetWidth(m.width)
	m.help.Width = m.width
	m.table.SetColumns(tableColumns(m.width - 4))
	m.table.SetWidth(max(m.width-4, 0))
	m.table.SetHeight(max(min(len(m.calculators)+1, m.height-14), 3))
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n")

	state := statusRunningStyle.Render("running")
	switch {
	case m.paused:
		state = statusPausedStyle.Render("paused")
	case !m.running:
		state = dimStyle.Render("idle")
	}
	bar := format.FormatProgressBarWithETA(m.progress, m.eta, progressBarW)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.input.View(), "  ", bar, "  ", state))
	b.WriteString("\n")

	tablePanel := panelStyle
	if m.width > 2 {
		tablePanel = tablePanel.Width(m.width - 2)
	}
	b.WriteString(tablePanel.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(m.metrics.View())
	b.WriteString("\n")

	if m.status != "" {
		style := successStyle
		if m.failed {
			style = errorStyle
		} else if m.wrapped {
			style = warningStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(m.keymap)))
	return b.String()
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, calculators []calculator.Calculator, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, calculators, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startCalculationCmd returns a tea.Cmd that launches the orchestration.
func startCalculationCmd(ref *programRef, ctx context.Context, calculators []calculator.Calculator, cfg config.AppConfig, n, gen uint64) tea.Cmd {
	return func() tea.Msg {
		progressReporter := &TUIProgressReporter{ref: ref, gen: gen}
		presenter := &TUIResultPresenter{ref: ref, gen: gen}

		results := orchestration.ExecuteCalculations(ctx, calculators, n, progressReporter, io.Discard)
		presOpts := orchestration.PresentationOptions{
			N:         n,
			Verbose:   cfg.Verbose,
			Details:   cfg.Details,
			ShowValue: cfg.ShowValue,
		}
		exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, io.Discard)

		return CalculationCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := metrics.NewMemoryCollector().Snapshot()
		return MemStatsMsg{
			Alloc:        s.HeapAlloc,
			HeapSys:      s.HeapSys,
			NumGC:        s.NumGC,
			PauseTotalNs: s.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}
