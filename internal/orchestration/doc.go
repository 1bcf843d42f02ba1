// Package orchestration runs one or more Fibonacci backends against the
// same index, collects their results and checks that the exact ones
// agree. Output goes through the ProgressReporter and ResultPresenter
// interfaces so the CLI, the TUI and the REPL can share the run logic.
package orchestration
