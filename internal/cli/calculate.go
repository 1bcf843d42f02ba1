package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/config"
	"github.com/agbru/quickfib/internal/ui"
)

// PrintExecutionConfig displays the target, the timeout and the environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	if cfg.RangeMode {
		fmt.Fprintf(out, "Calculating %sF(%d)..F(%d)%s with a timeout of %s%s%s.\n",
			ui.ColorMagenta(), cfg.From, cfg.To, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "Calculating %sF(%d)%s with a timeout of %s%s%s.\n",
			ui.ColorMagenta(), cfg.N, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Big-integer FFT threshold: %s%d%s bits.\n",
		ui.ColorCyan(), cfg.FFTThreshold, ui.ColorReset())
}

// PrintExecutionMode displays whether one backend runs or several are
// compared.
func PrintExecutionMode(calculators []calculator.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = fmt.Sprintf("Parallel comparison of %d backends", len(calculators))
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s backend (%s)",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset(), calculators[0].Description())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
