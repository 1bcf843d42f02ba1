// Package logging provides the structured logging interface used by quickfib.
// The default backend is zerolog; a standard library adapter is kept for
// callers that already own a *log.Logger.
package logging
