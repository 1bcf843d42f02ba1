package cli

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/quickfib/internal/orchestration"
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	testCases := []struct {
		name       string
		outputFile string
		checkFunc  func(t *testing.T, filePath string)
	}{
		{
			name:       "Write decimal result to file",
			outputFile: filepath.Join(tmpDir, "result.txt"),
			checkFunc: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Fatalf("Failed to read output file: %v", err)
				}
				contentStr := string(content)
				for _, want := range []string{"F(10) =\n55", "# Algorithm: u64", "# Bits: 6", "# Digits: 2"} {
					if !strings.Contains(contentStr, want) {
						t.Errorf("File should contain %q, got:\n%s", want, contentStr)
					}
				}
			},
		},
		{
			name:       "Empty output file (no write)",
			outputFile: "",
		},
		{
			name:       "Create nested directory",
			outputFile: filepath.Join(tmpDir, "nested", "dir", "result.txt"),
			checkFunc: func(t *testing.T, filePath string) {
				if _, err := os.Stat(filePath); err != nil {
					t.Errorf("File should exist in nested directory: %v", err)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := WriteResultToFile(big.NewInt(55), 10, 100*time.Millisecond, "u64", OutputConfig{OutputFile: tc.outputFile})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tc.checkFunc != nil {
				tc.checkFunc(t, tc.outputFile)
			}
		})
	}
}

func sampleRange() []orchestration.RangeEntry {
	return []orchestration.RangeEntry{
		{N: 12, Value: big.NewInt(144)},
		{N: 13, Value: big.NewInt(233)},
		{N: 14, Value: big.NewInt(121), Overflowed: true},
	}
}

func TestWriteRangeToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "range.txt")
	if err := WriteRangeToFile(sampleRange(), "u8", OutputConfig{OutputFile: path}); err != nil {
		t.Fatalf("WriteRangeToFile error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	for _, want := range []string{"# Count: 3", "12 144\n", "13 233\n", "14 121 *\n"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("File should contain %q, got:\n%s", want, content)
		}
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	if got := FormatQuietResult(big.NewInt(55)); got != "55" {
		t.Errorf("Expected '55', got '%s'", got)
	}

	large, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if got := FormatQuietResult(large); got != large.String() {
		t.Errorf("Expected full decimal string, got '%s'", got)
	}
}

func TestDisplayQuietResult(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayQuietResult(&buf, big.NewInt(55))
	if buf.String() != "55\n" {
		t.Errorf("Output = %q, want %q", buf.String(), "55\n")
	}
}

func TestDisplayLastDigits(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayLastDigits(&buf, 1000, 5, "28875", time.Millisecond, true)
	if buf.String() != "28875\n" {
		t.Errorf("quiet output = %q", buf.String())
	}

	buf.Reset()
	DisplayLastDigits(&buf, 1000, 5, "28875", time.Millisecond, false)
	if !strings.Contains(buf.String(), "Last 5 digits of F(1000)") || !strings.Contains(buf.String(), "28875") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestDisplayRange(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayRange(&buf, sampleRange(), false, false)
	output := buf.String()
	for _, want := range []string{"F(12) = ", "144", "F(14) = ", "(wrapped)"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got:\n%s", want, output)
		}
	}

	buf.Reset()
	DisplayRange(&buf, sampleRange(), false, true)
	if buf.String() != "12 144\n13 233\n14 121\n" {
		t.Errorf("quiet output = %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	res := orchestration.CalculationResult{Name: "u64", Result: big.NewInt(12586269025), Duration: 2 * time.Microsecond}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewJSONResult(res, 50)); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	var decoded JSONResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.N != 50 || decoded.Value != "12586269025" || decoded.Digits != 11 || decoded.Bits != 34 || decoded.DurationNs != 2000 {
		t.Errorf("decoded = %+v", decoded)
	}

	buf.Reset()
	if err := WriteJSON(&buf, NewJSONRange("u8", 12, 14, sampleRange(), time.Millisecond)); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	var rng JSONRange
	if err := json.Unmarshal(buf.Bytes(), &rng); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if rng.Count != 3 || rng.Values[2].Value != "121" || !rng.Values[2].Overflowed || rng.Values[0].Overflowed {
		t.Errorf("decoded range = %+v", rng)
	}
	if strings.Count(buf.String(), `"overflowed"`) != 1 {
		t.Errorf("overflowed should be omitted for exact entries:\n%s", buf.String())
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	t.Parallel()
	res := orchestration.CalculationResult{Name: "u64", Result: big.NewInt(55), Duration: 100 * time.Millisecond}
	tmpDir := t.TempDir()

	t.Run("Quiet mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, res, 10, OutputConfig{Quiet: true}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if buf.String() != "55\n" {
			t.Errorf("Quiet output should be the bare value, got '%s'", buf.String())
		}
	})

	t.Run("JSON mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, res, 10, OutputConfig{JSON: true}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"value": "55"`) {
			t.Errorf("JSON output = %s", buf.String())
		}
	})

	t.Run("Wrapped value warns", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		wrapped := orchestration.CalculationResult{Name: "u8", Result: big.NewInt(121), Overflowed: true}
		if err := DisplayResultWithConfig(&buf, wrapped, 14, OutputConfig{ShowValue: true}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "wrapped around") {
			t.Errorf("missing overflow warning: %s", buf.String())
		}
	})

	t.Run("Normal mode with file output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		outputFile := filepath.Join(tmpDir, "test_output.txt")
		if err := DisplayResultWithConfig(&buf, res, 10, OutputConfig{OutputFile: outputFile}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if _, err := os.Stat(outputFile); err != nil {
			t.Errorf("Output file should exist: %v", err)
		}
		if !strings.Contains(buf.String(), "Result saved to") {
			t.Errorf("Should show file save message, got '%s'", buf.String())
		}
	})

	t.Run("Quiet mode with file output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		outputFile := filepath.Join(tmpDir, "quiet_output.txt")
		if err := DisplayResultWithConfig(&buf, res, 10, OutputConfig{OutputFile: outputFile, Quiet: true}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if _, err := os.Stat(outputFile); err != nil {
			t.Errorf("Output file should exist: %v", err)
		}
		if strings.Contains(buf.String(), "Result saved to") {
			t.Error("Quiet mode should not show file save message")
		}
	})
}
