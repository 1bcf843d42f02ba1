// Package apperrors holds the error types shared by the CLI, the HTTP
// server and the TUI, and maps them to process exit codes. Types that
// carry a cause implement Unwrap, so errors.Is and errors.As work through
// fmt.Errorf("%w") chains.
package apperrors
