// Package config parses and validates the quickfib command-line
// configuration. Values come from flags, then QUICKFIB_* environment
// variables, then defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/quickfib/internal/errors"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "QUICKFIB_"

const (
	// DefaultAlgo is the backend used when --algo is not given.
	DefaultAlgo = "u64"
	// DefaultTimeout bounds a single CLI invocation.
	DefaultTimeout = time.Minute
	// MaxLastDigits caps --last-digits.
	MaxLastDigits = 100_000
)

// SupportedShells lists the shells accepted by --completion.
var SupportedShells = []string{"bash", "zsh", "fish", "powershell"}

// GCModes lists the values accepted by --gc-mode.
var GCModes = []string{"auto", "aggressive", "disabled"}

// AppConfig aggregates every setting of one quickfib run.
type AppConfig struct {
	// N is the Fibonacci index for single-value mode.
	N uint64
	// From and To bound an inclusive index range. RangeMode is set when --to
	// is given.
	From, To  uint64
	RangeMode bool
	// Algo is a calculator name or "all".
	Algo    string
	Timeout time.Duration

	ShowValue  bool
	Verbose    bool
	Details    bool
	Quiet      bool
	JSON       bool
	OutputFile string
	// LastDigits, when positive, prints only the last K decimal digits of F(N)
	// using modular arithmetic.
	LastDigits int
	// FFTThreshold is the operand size in bits from which big-integer
	// multiplication uses FFT. Zero selects a hardware estimate.
	FFTThreshold int
	// GCMode controls the garbage collector during a calculation: "auto"
	// suspends it for large indices, "aggressive" always, "disabled" never.
	GCMode string

	REPL       bool
	TUI        bool
	ServeAddr  string
	Completion string

	NoColor     bool
	LogLevel    string
	ShowVersion bool
}

// ParseConfig parses args (without the program name) into an AppConfig,
// applies environment overrides and validates the result.
//
// Parameters:
//   - programName: Used in usage output.
//   - args: Command-line arguments.
//   - errWriter: Destination for usage and parse errors.
//   - availableAlgos: Calculator names accepted by --algo besides "all".
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{}
	fs.Uint64Var(&cfg.N, "n", 100, "Fibonacci index to compute.")
	fs.Uint64Var(&cfg.From, "from", 0, "First index of a range (with --to).")
	fs.Uint64Var(&cfg.To, "to", 0, "Last index of an inclusive range; enables range mode.")
	fs.StringVar(&cfg.Algo, "algo", DefaultAlgo, fmt.Sprintf("Backend: 'all' or one of %s.", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 30s, 5m).")
	fs.BoolVar(&cfg.ShowValue, "calculate", false, "Print the computed value.")
	fs.BoolVar(&cfg.ShowValue, "c", false, "Shorthand for --calculate.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print the full value even when it is long.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Details, "details", false, "Print memory statistics and value metadata.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.JSON, "json", false, "Print results as JSON.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the result to a file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")
	fs.IntVar(&cfg.LastDigits, "last-digits", 0, "Print only the last K decimal digits of F(n).")
	fs.IntVar(&cfg.FFTThreshold, "fft-threshold", 0, "Bits from which big multiplication uses FFT (0 = auto).")
	fs.StringVar(&cfg.GCMode, "gc-mode", "auto", "GC control during calculation: auto, aggressive, disabled.")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start the interactive shell.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Start the terminal dashboard.")
	fs.StringVar(&cfg.ServeAddr, "serve", "", "Serve the HTTP API on the given address (e.g. :8080).")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh, fish or powershell.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable ANSI colors (also honors NO_COLOR).")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version information.")
	fs.BoolVar(&cfg.ShowVersion, "V", false, "Shorthand for --version.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&cfg, fs)
	cfg.RangeMode = cfg.RangeMode || setFlags(fs)["to"]
	cfg.Algo = strings.ToLower(strings.TrimSpace(cfg.Algo))
	cfg.GCMode = strings.ToLower(strings.TrimSpace(cfg.GCMode))

	if err := cfg.Validate(availableAlgos); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - availableAlgos: Calculator names accepted by --algo besides "all".
//
// Returns:
//   - error: A ConfigError describing the first problem found, or nil.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown algorithm %q (available: all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.RangeMode && c.From > c.To {
		return apperrors.NewConfigError("--from (%d) must not exceed --to (%d)", c.From, c.To)
	}
	if c.LastDigits < 0 || c.LastDigits > MaxLastDigits {
		return apperrors.NewConfigError("--last-digits must be between 0 and %d, got %d", MaxLastDigits, c.LastDigits)
	}
	if c.LastDigits > 0 && c.RangeMode {
		return apperrors.NewConfigError("--last-digits cannot be combined with a range")
	}
	if c.FFTThreshold < 0 {
		return apperrors.NewConfigError("--fft-threshold must not be negative, got %d", c.FFTThreshold)
	}
	if !slices.Contains(GCModes, c.GCMode) {
		return apperrors.NewConfigError("unknown --gc-mode %q (supported: %s)", c.GCMode, strings.Join(GCModes, ", "))
	}
	if c.Completion != "" && !slices.Contains(SupportedShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for --completion (supported: %s)", c.Completion, strings.Join(SupportedShells, ", "))
	}
	modes := 0
	for _, on := range []bool{c.REPL, c.TUI, c.ServeAddr != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("--repl, --tui and --serve are mutually exclusive")
	}
	if c.JSON && c.Quiet {
		return apperrors.NewConfigError("--json and --quiet are mutually exclusive")
	}
	return nil
}
