// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write to the filesystem or encode to a writer.

package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/agbru/quickfib/internal/format"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	Quiet      bool
	Verbose    bool
	// ShowValue prints the value itself, not only its metadata.
	ShowValue bool
	JSON      bool
}

// JSONResult is the --json form of a single evaluation.
type JSONResult struct {
	N          uint64 `json:"n"`
	Algorithm  string `json:"algorithm"`
	Value      string `json:"value"`
	Digits     int    `json:"digits"`
	Bits       int    `json:"bits"`
	Overflowed bool   `json:"overflowed"`
	DurationNs int64  `json:"duration_ns"`
}

// JSONRangeEntry is one element of a JSONRange.
type JSONRangeEntry struct {
	N          uint64 `json:"n"`
	Value      string `json:"value"`
	Overflowed bool   `json:"overflowed,omitempty"`
}

// JSONRange is the --json form of a range evaluation.
type JSONRange struct {
	Algorithm  string           `json:"algorithm"`
	From       uint64           `json:"from"`
	To         uint64           `json:"to"`
	Count      int              `json:"count"`
	DurationNs int64            `json:"duration_ns"`
	Values     []JSONRangeEntry `json:"values"`
}

// NewJSONResult builds the JSON form of one result.
func NewJSONResult(res orchestration.CalculationResult, n uint64) JSONResult {
	digits := res.Result.String()
	return JSONResult{
		N:          n,
		Algorithm:  res.Name,
		Value:      digits,
		Digits:     len(digits),
		Bits:       res.Result.BitLen(),
		Overflowed: res.Overflowed,
		DurationNs: res.Duration.Nanoseconds(),
	}
}

// NewJSONRange builds the JSON form of a range evaluation.
func NewJSONRange(algo string, from, to uint64, entries []orchestration.RangeEntry, duration time.Duration) JSONRange {
	values := make([]JSONRangeEntry, len(entries))
	for i, e := range entries {
		values[i] = JSONRangeEntry{N: e.N, Value: e.Value.String(), Overflowed: e.Overflowed}
	}
	return JSONRange{
		Algorithm:  algo,
		From:       from,
		To:         to,
		Count:      len(values),
		DurationNs: duration.Nanoseconds(),
		Values:     values,
	}
}

// WriteJSON encodes v as indented JSON followed by a newline.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createOutputFile creates path and its parent directories.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}

// WriteResultToFile writes a result with a metadata header to
// config.OutputFile. It does nothing when OutputFile is empty.
func WriteResultToFile(result *big.Int, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	file, err := createOutputFile(config.OutputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "# Fibonacci Calculation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# N: %d\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", result.BitLen())
	fmt.Fprintf(file, "# Digits: %d\n", len(result.String()))
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "F(%d) =\n%s\n", n, result.String())
	return file.Close()
}

// WriteRangeToFile writes one "n value" line per entry to
// config.OutputFile. Wrapped values are marked with a trailing "*".
func WriteRangeToFile(entries []orchestration.RangeEntry, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	file, err := createOutputFile(config.OutputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "# Fibonacci Range\n")
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Count: %d\n", len(entries))
	for _, e := range entries {
		mark := ""
		if e.Overflowed {
			mark = " *"
		}
		fmt.Fprintf(file, "%d %s%s\n", e.N, e.Value.String(), mark)
	}
	return file.Close()
}

// FormatQuietResult returns the bare decimal value for scripting.
func FormatQuietResult(result *big.Int) string {
	return result.String()
}

// DisplayQuietResult prints the bare decimal value.
func DisplayQuietResult(out io.Writer, result *big.Int) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayLastDigits prints the last k decimal digits of F(n).
func DisplayLastDigits(out io.Writer, n uint64, k int, digits string, duration time.Duration, quiet bool) {
	if quiet {
		fmt.Fprintln(out, digits)
		return
	}
	fmt.Fprintf(out, "\nLast %d digits of F(%d): %s%s%s\n", k, n, ui.ColorGreen(), digits, ui.ColorReset())
	fmt.Fprintf(out, "Computed modulo 10^%d in %s.\n", k, format.FormatExecutionDuration(duration))
}

// DisplayRange prints one line per entry. Long values are truncated unless
// verbose is set, and wrapped values are flagged.
func DisplayRange(out io.Writer, entries []orchestration.RangeEntry, verbose, quiet bool) {
	for _, e := range entries {
		digits := e.Value.String()
		if quiet {
			fmt.Fprintf(out, "%d %s\n", e.N, digits)
			continue
		}
		if !verbose && len(digits) > TruncationLimit {
			digits = format.TruncateDigits(digits, DisplayEdges)
		}
		if e.Overflowed {
			fmt.Fprintf(out, "F(%d) = %s%s%s (wrapped)\n", e.N, ui.ColorYellow(), digits, ui.ColorReset())
			continue
		}
		fmt.Fprintf(out, "F(%d) = %s%s%s\n", e.N, ui.ColorGreen(), digits, ui.ColorReset())
	}
}

// DisplayResultWithConfig prints a result according to config and saves it
// when an output file is set.
func DisplayResultWithConfig(out io.Writer, res orchestration.CalculationResult, n uint64, config OutputConfig) error {
	switch {
	case config.JSON:
		if err := WriteJSON(out, NewJSONResult(res, n)); err != nil {
			return err
		}
	case config.Quiet:
		DisplayQuietResult(out, res.Result)
	default:
		if res.Overflowed {
			DisplayOverflowWarning(res.Name, n, out)
		}
		DisplayResult(res.Result, n, res.Duration, config.Verbose, true, config.ShowValue, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(res.Result, n, res.Duration, res.Name, config); err != nil {
			return err
		}
		if !config.Quiet && !config.JSON {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
