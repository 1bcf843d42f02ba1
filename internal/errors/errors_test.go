package apperrors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want string
	}{
		{NewConfigError("bad --%s value %d", "n", -1), "bad --n value -1"},
		{TimeoutError{Operation: "range 0..9", Limit: 250 * time.Millisecond}, `operation "range 0..9" timed out after 250ms`},
		{ValidationError{Field: "n", Message: "exceeds 92"}, `validation error for "n": exceeds 92`},
		{OverflowError{Type: "checked128", N: 186}, "F(186) overflows the checked128 backend"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestOverflowError_Unwrap(t *testing.T) {
	t.Parallel()
	fault := errors.New("uint64 addition overflows")
	err := fmt.Errorf("calculate: %w", OverflowError{Type: "checked64", N: 93, Cause: fault})

	var overflow OverflowError
	if !errors.As(err, &overflow) {
		t.Fatal("errors.As did not find the OverflowError")
	}
	if overflow.N != 93 || overflow.Type != "checked64" {
		t.Errorf("unexpected fields: %+v", overflow)
	}
	if !errors.Is(err, fault) {
		t.Error("the arithmetic fault should stay reachable through Unwrap")
	}
	if (OverflowError{}).Unwrap() != nil {
		t.Error("Unwrap without a cause should be nil")
	}
}

func TestErrorsAs_ThroughWrapping(t *testing.T) {
	t.Parallel()
	var cfg ConfigError
	if !errors.As(fmt.Errorf("parse: %w", NewConfigError("x")), &cfg) || cfg.Message != "x" {
		t.Errorf("ConfigError not found: %+v", cfg)
	}
	var val ValidationError
	if !errors.As(fmt.Errorf("server: %w", ValidationError{Field: "to"}), &val) || val.Field != "to" {
		t.Errorf("ValidationError not found: %+v", val)
	}
}

func TestExitCodes_Distinct(t *testing.T) {
	t.Parallel()
	codes := []int{ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorMismatch, ExitErrorConfig, ExitErrorOverflow, ExitErrorCanceled}
	seen := map[int]bool{}
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d is used twice", c)
		}
		seen[c] = true
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled = %d, want 130", ExitErrorCanceled)
	}
}
