package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil ColorProvider prints without color.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// ExitCode maps an error to the process exit status.
//
// Parameters:
//   - err: The error to classify. A nil error maps to ExitSuccess.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCode(err error) int {
	var (
		cfgErr      ConfigError
		validErr    ValidationError
		overflowErr OverflowError
		timeoutErr  TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &overflowErr):
		return ExitErrorOverflow
	case errors.As(err, &cfgErr), errors.As(err, &validErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleCalculationError prints a user-facing description of a failed
// calculation and returns the matching exit code.
//
// Parameters:
//   - err: The calculation error. A nil error prints nothing.
//   - duration: How long the calculation ran before failing.
//   - out: Destination for the message.
//   - colors: ANSI palette; nil disables color.
//
// Returns:
//   - int: The exit code from ExitCode.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}

	code := ExitCode(err)
	elapsed := ""
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s", duration.Round(time.Microsecond))
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sCalculation timed out%s: %v%s\n", colors.Yellow(), elapsed, err, colors.Reset())
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sCalculation canceled%s.%s\n", colors.Yellow(), elapsed, colors.Reset())
	case ExitErrorOverflow:
		fmt.Fprintf(out, "%sOverflow: %v%s\n", colors.Red(), err, colors.Reset())
	default:
		fmt.Fprintf(out, "%sCalculation failed%s: %v%s\n", colors.Red(), elapsed, err, colors.Reset())
	}
	return code
}
