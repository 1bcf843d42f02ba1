package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/config"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/progress"
)

// run parses args, runs the application with the default backends and
// returns its exit code, stdout and stderr.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	return runWith(t, calculator.NewDefaultFactory(), args...)
}

func runWith(t *testing.T, factory calculator.Factory, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	application, err := New(append([]string{"quickfib", "--no-color"}, args...), &stderr, WithFactory(factory))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	code := application.Run(context.Background(), &stdout)
	return code, stdout.String(), stderr.String()
}

// delayed slows a backend down so it finishes after the others.
type delayed struct {
	calculator.Calculator
	pause time.Duration
}

func (d delayed) Calculate(ctx context.Context, ch chan<- progress.ProgressUpdate, i int, n uint64) (calculator.Result, error) {
	select {
	case <-time.After(d.pause):
	case <-ctx.Done():
		return calculator.Result{}, ctx.Err()
	}
	return d.Calculator.Calculate(ctx, ch, i, n)
}

// wrappedFirst has a fast wrapping backend and a slower exact one.
func wrappedFirst() *calculator.DefaultFactory {
	defaults := calculator.NewDefaultFactory()
	f := calculator.NewFactory()
	f.Register(defaults.MustGet("u8"))
	f.Register(delayed{Calculator: defaults.MustGet("big"), pause: 50 * time.Millisecond})
	return f
}

const f100 = "354224848179261915075"

func TestNew_Errors(t *testing.T) {
	var stderr bytes.Buffer

	if _, err := New([]string{"quickfib", "-h"}, &stderr); !IsHelpError(err) {
		t.Errorf("-h: expected a help error, got %v", err)
	}

	var cfgErr apperrors.ConfigError
	if _, err := New([]string{"quickfib", "--algo", "matrix"}, &stderr); !errors.As(err, &cfgErr) {
		t.Errorf("unknown algo: expected ConfigError, got %v", err)
	}
	if _, err := New([]string{"quickfib", "--log-level", "loud"}, &stderr); !errors.As(err, &cfgErr) {
		t.Errorf("bad log level: expected ConfigError, got %v", err)
	}
}

func TestNew_DefaultsAndThresholds(t *testing.T) {
	application, err := New([]string{"quickfib"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if application.Config.N != 100 {
		t.Errorf("N = %d, want 100", application.Config.N)
	}
	if got, want := application.Config.FFTThreshold, config.EstimateOptimalFFTThreshold(); got != want {
		t.Errorf("FFTThreshold = %d, want %d", got, want)
	}
	if application.Factory == nil {
		t.Error("Factory should default to the global factory")
	}
}

func TestRun_SingleValue(t *testing.T) {
	code, out, _ := run(t, "-n", "10", "-c")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"F(10) = 55", "Execution Configuration"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_CompareAll(t *testing.T) {
	code, out, _ := run(t, "-n", "100", "--algo", "all")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"u128", "Wrapped"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_WrappedValueWarns(t *testing.T) {
	code, out, _ := run(t, "-n", "100", "--algo", "u64", "-c")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "wrapped around") {
		t.Errorf("expected a wrap warning:\n%s", out)
	}
}

func TestRun_CheckedOverflow(t *testing.T) {
	if code, _, _ := run(t, "-n", "100", "--algo", "checked64", "-q"); code != apperrors.ExitErrorOverflow {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorOverflow)
	}
}

func TestRun_Quiet(t *testing.T) {
	code, out, _ := run(t, "-n", "20", "-q")
	if code != apperrors.ExitSuccess || out != "6765\n" {
		t.Errorf("got %d %q, want 0 \"6765\\n\"", code, out)
	}
}

func TestRun_JSON(t *testing.T) {
	code, out, _ := run(t, "-n", "30", "--json", "--algo", "big")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got["value"] != "832040" || got["algorithm"] != "big" || got["overflowed"] != false {
		t.Errorf("unexpected JSON: %v", got)
	}
}

func TestRun_MachineOutputPrefersExactResult(t *testing.T) {
	t.Run("quiet", func(t *testing.T) {
		code, out, _ := runWith(t, wrappedFirst(), "-n", "100", "--algo", "all", "-q")
		if code != apperrors.ExitSuccess || out != f100+"\n" {
			t.Errorf("got %d %q, want the exact F(100)", code, out)
		}
	})

	t.Run("json", func(t *testing.T) {
		code, out, _ := runWith(t, wrappedFirst(), "-n", "100", "--algo", "all", "--json")
		if code != apperrors.ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		var got map[string]any
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if got["value"] != f100 || got["algorithm"] != "big" || got["overflowed"] != false {
			t.Errorf("unexpected JSON: %v", got)
		}
	})

	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "f100.txt")
		code, _, _ := runWith(t, wrappedFirst(), "-n", "100", "--algo", "all", "-o", path)
		if code != apperrors.ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "F(100) =\n"+f100) || !strings.Contains(string(data), "# Algorithm: big") {
			t.Errorf("file does not hold the exact value:\n%s", data)
		}
	})

	t.Run("only wrapped results", func(t *testing.T) {
		code, out, _ := run(t, "-n", "14", "--algo", "u8", "-q")
		if code != apperrors.ExitSuccess || out != "121\n" {
			t.Errorf("got %d %q, want the wrapped value when nothing is exact", code, out)
		}
	})
}

func TestRun_Range(t *testing.T) {
	code, out, _ := run(t, "--from", "0", "--to", "9", "-q")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10:\n%s", len(lines), out)
	}
	if lines[0] != "0 0" || lines[9] != "9 34" {
		t.Errorf("first/last lines = %q, %q", lines[0], lines[9])
	}
}

func TestRun_RangeJSONWithAll(t *testing.T) {
	code, out, _ := run(t, "--from", "90", "--to", "95", "--algo", "all", "--json")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	var got struct {
		Algorithm string `json:"algorithm"`
		Count     int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Algorithm != rangeFallbackAlgo || got.Count != 6 {
		t.Errorf("got %+v, want %s with 6 values", got, rangeFallbackAlgo)
	}
}

func TestRun_LastDigits(t *testing.T) {
	code, out, _ := run(t, "-n", "100", "--last-digits", "5", "-q")
	if code != apperrors.ExitSuccess || out != "15075\n" {
		t.Errorf("quiet: got %d %q", code, out)
	}

	code, out, _ = run(t, "-n", "100", "--last-digits", "5")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "Last 5 digits of F(100): 15075") {
		t.Errorf("text: got %d %q", code, out)
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "f50.txt")
	code, out, _ := run(t, "-n", "50", "-o", path)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "Result saved to") {
		t.Errorf("missing save confirmation:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "12586269025") {
		t.Errorf("file content:\n%s", data)
	}
}

func TestRun_Details(t *testing.T) {
	code, out, _ := run(t, "-n", "1000", "--algo", "big", "-d")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"Detailed result analysis", "Number of digits"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_Timeout(t *testing.T) {
	if code, _, _ := run(t, "-n", "10000000", "--algo", "big-iterative", "--timeout", "1ms"); code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
}

func TestRun_CompletionAndVersion(t *testing.T) {
	code, out, _ := run(t, "--completion", "bash")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "quickfib") {
		t.Errorf("completion: got %d", code)
	}

	code, out, _ = run(t, "--version")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "quickfib "+Version) {
		t.Errorf("version: got %d %q", code, out)
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"-n", "5", "--version"}, true},
		{[]string{"-V"}, true},
		{[]string{"-n", "5"}, false},
		{[]string{"--", "--version"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestExactResultsAgree(t *testing.T) {
	ok := []orchestration.CalculationResult{
		{Name: "u128", Result: big.NewInt(55)},
		{Name: "u8", Result: big.NewInt(7), Overflowed: true},
		{Name: "big", Result: big.NewInt(55)},
	}
	if !exactResultsAgree(ok) || !exactResultsAgree(nil) {
		t.Error("consistent results reported as disagreeing")
	}
	bad := append(ok, orchestration.CalculationResult{Name: "rogue", Result: big.NewInt(56)})
	if exactResultsAgree(bad) {
		t.Error("rogue exact result not detected")
	}
}
