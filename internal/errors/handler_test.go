package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type testColors struct{}

func (testColors) Red() string    { return "<r>" }
func (testColors) Yellow() string { return "<y>" }
func (testColors) Reset() string  { return "</>" }

func TestExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"wrapped deadline", fmt.Errorf("range: %w", context.DeadlineExceeded), ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "u64", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"overflow", OverflowError{Type: "checked64", N: 93}, ExitErrorOverflow},
		{"wrapped overflow", fmt.Errorf("calc: %w", OverflowError{Type: "checked128", N: 186}), ExitErrorOverflow},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
		{"validation", ValidationError{Field: "n", Message: "too large"}, ExitErrorConfig},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		duration time.Duration
		colors   ColorProvider
		wantCode int
		contains []string
	}{
		{
			name:     "nil error prints nothing",
			wantCode: ExitSuccess,
		},
		{
			name:     "timeout",
			err:      context.DeadlineExceeded,
			duration: 2 * time.Second,
			wantCode: ExitErrorTimeout,
			contains: []string{"timed out after 2s"},
		},
		{
			name:     "canceled",
			err:      context.Canceled,
			wantCode: ExitErrorCanceled,
			contains: []string{"Calculation canceled."},
		},
		{
			name:     "overflow colored",
			err:      OverflowError{Type: "checked64", N: 93},
			colors:   testColors{},
			wantCode: ExitErrorOverflow,
			contains: []string{"<r>Overflow: F(93) overflows the checked64 backend</>"},
		},
		{
			name:     "generic",
			err:      errors.New("backend exploded"),
			duration: 1500 * time.Microsecond,
			wantCode: ExitErrorGeneric,
			contains: []string{"Calculation failed after 1.5ms: backend exploded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleCalculationError(tt.err, tt.duration, &buf, tt.colors)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.err == nil && buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output %q does not contain %q", buf.String(), s)
				}
			}
		})
	}
}
