package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/agbru/quickfib/fibonacci/bignum"
	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/config"
	"github.com/agbru/quickfib/internal/format"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/ui"
)

// REPLMaxRange caps the length of a range command.
const REPLMaxRange = 1000

// REPLConfig configures an interactive session.
type REPLConfig struct {
	DefaultAlgo string
	// Timeout bounds each command. Zero means one minute.
	Timeout   time.Duration
	HexOutput bool
}

// REPL is an interactive quickfib session reading one command per line.
type REPL struct {
	config   REPLConfig
	factory  calculator.Factory
	backend  string
	commands []replCommand
	in       io.Reader
	out      io.Writer
}

// replCommand is one entry of the command table. run reports false to end
// the session.
type replCommand struct {
	names []string
	usage string
	help  string
	run   func(ctx context.Context, args []string) bool
}

// NewREPL creates a session over the calculators of factory. A default
// that is empty, "all" or unknown selects the first registered backend.
func NewREPL(factory calculator.Factory, cfg REPLConfig) *REPL {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	r := &REPL{config: cfg, factory: factory, backend: cfg.DefaultAlgo, in: os.Stdin, out: os.Stdout}
	if _, err := factory.Get(r.backend); err != nil {
		if names := factory.List(); len(names) > 0 {
			r.backend = names[0]
		}
	}
	r.commands = r.commandTable()
	return r
}

func (r *REPL) SetInput(in io.Reader)   { r.in = in }
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

func (r *REPL) commandTable() []replCommand {
	keep := func(f func(ctx context.Context, args []string)) func(context.Context, []string) bool {
		return func(ctx context.Context, args []string) bool { f(ctx, args); return true }
	}
	return []replCommand{
		{[]string{"calc", "c"}, "calc <n>", "compute F(n) with the current backend", keep(r.cmdCalc)},
		{[]string{"range", "r"}, "range <from> <to>", "list F(from)..F(to)", keep(r.cmdRange)},
		{[]string{"last"}, "last <n> <k>", "last k decimal digits of F(n)", keep(r.cmdLast)},
		{[]string{"compare", "cmp"}, "compare <n>", "run every backend on F(n)", keep(r.cmdCompare)},
		{[]string{"algo", "a"}, "algo <name>", "switch backend", keep(r.cmdAlgo)},
		{[]string{"list", "ls"}, "list", "show backends and their limits", keep(r.cmdList)},
		{[]string{"hex"}, "hex", "toggle hexadecimal output", keep(r.cmdHex)},
		{[]string{"status", "st"}, "status", "show session settings", keep(r.cmdStatus)},
		{[]string{"help", "h", "?"}, "help", "show this list", keep(func(context.Context, []string) { r.printHelp() })},
		{[]string{"exit", "quit", "q"}, "exit", "leave the session", func(context.Context, []string) bool {
			fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
			return false
		}},
	}
}

// Start runs commands until exit, end of input or the end of ctx. ctx is
// also the parent of every command's timeout.
func (r *REPL) Start(ctx context.Context) {
	fmt.Fprintf(r.out, "%s%squickfib%s interactive mode. Backend: %s%s%s\n\n",
		ui.ColorBold(), ui.ColorCyan(), ui.ColorReset(), ui.ColorYellow(), r.backend, ui.ColorReset())
	r.printHelp()

	scanner := bufio.NewScanner(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorGreen()+"quickfib> "+ui.ColorReset())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
				return
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		if line := strings.TrimSpace(scanner.Text()); line != "" && !r.dispatch(ctx, line) {
			return
		}
	}
}

// dispatch runs one command line and reports whether to continue.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]

	cmd, found := lo.Find(r.commands, func(c replCommand) bool { return lo.Contains(c.names, name) })
	if found {
		return cmd.run(ctx, args)
	}
	if _, err := strconv.ParseUint(name, 10, 64); err == nil {
		r.cmdCalc(ctx, fields[:1])
		return true
	}
	fmt.Fprintf(r.out, "%sUnknown command: %s%s (try %shelp%s)\n", ui.ColorRed(), name, ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
	return true
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, c := range r.commands {
		fmt.Fprintf(r.out, "  %s%-18s%s %s\n", ui.ColorYellow(), c.usage, ui.ColorReset(), c.help)
	}
	fmt.Fprintf(r.out, "  %s%-18s%s shorthand for calc <n>\n\n", ui.ColorYellow(), "<n>", ui.ColorReset())
}

func (r *REPL) errorf(format string, a ...any) {
	fmt.Fprintf(r.out, "%s%s%s\n", ui.ColorRed(), fmt.Sprintf(format, a...), ui.ColorReset())
}

// indices parses exactly count unsigned integers.
func (r *REPL) indices(args []string, usage string, count int) ([]uint64, bool) {
	if len(args) != count {
		r.errorf("Usage: %s", usage)
		return nil, false
	}
	out := make([]uint64, count)
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			r.errorf("Invalid value: %s", a)
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (r *REPL) calculator() (calculator.Calculator, bool) {
	calc, err := r.factory.Get(r.backend)
	if err != nil {
		r.errorf("Backend not found: %s", r.backend)
		return nil, false
	}
	return calc, true
}

func (r *REPL) cmdCalc(parent context.Context, args []string) {
	idx, ok := r.indices(args, "calc <n>", 1)
	if !ok {
		return
	}
	calc, ok := r.calculator()
	if !ok {
		return
	}
	n := idx[0]
	ctx, cancel := context.WithTimeout(parent, r.config.Timeout)
	defer cancel()

	res := orchestration.ExecuteCalculations(ctx, []calculator.Calculator{calc}, n, CLIProgressReporter{}, r.out)[0]
	if res.Err != nil {
		r.errorf("Error: %v", res.Err)
		return
	}
	if res.Overflowed {
		DisplayOverflowWarning(res.Name, n, r.out)
	}

	value := res.Result.String()
	prefix := ""
	switch {
	case r.config.HexOutput:
		prefix, value = "0x", res.Result.Text(16)
		if len(value) > TruncationLimit {
			value = format.TruncateDigits(value, HexDisplayEdges)
		}
	case len(value) > TruncationLimit:
		value = format.TruncateDigits(value, DisplayEdges) + " (truncated)"
	}
	fmt.Fprintf(r.out, "F(%d) = %s%s%s%s\n", n, ui.ColorGreen(), prefix, value, ui.ColorReset())
	fmt.Fprintf(r.out, "  %s%d digits, %d bits, %s [%s]%s\n\n", ui.ColorGrey(),
		len(res.Result.String()), res.Result.BitLen(), format.FormatExecutionDuration(res.Duration), res.Name, ui.ColorReset())
}

func (r *REPL) cmdRange(parent context.Context, args []string) {
	idx, ok := r.indices(args, "range <from> <to>", 2)
	if !ok {
		return
	}
	from, to := idx[0], idx[1]
	switch {
	case from > to:
		fmt.Fprintf(r.out, "%sEmpty range: %d > %d%s\n", ui.ColorYellow(), from, to, ui.ColorReset())
		return
	case to-from >= REPLMaxRange:
		r.errorf("Range too long: at most %d indices", REPLMaxRange)
		return
	}
	calc, ok := r.calculator()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(parent, r.config.Timeout)
	defer cancel()

	entries, err := orchestration.ExecuteRange(ctx, calc, from, to, orchestration.NullProgressReporter{}, r.out)
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	DisplayRange(r.out, entries, false, false)
	if wrapped := lo.CountBy(entries, func(e orchestration.RangeEntry) bool { return e.Overflowed }); wrapped > 0 {
		fmt.Fprintf(r.out, "%s%d value(s) wrapped around the %s width.%s\n", ui.ColorYellow(), wrapped, calc.Name(), ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdLast(_ context.Context, args []string) {
	idx, ok := r.indices(args, "last <n> <k>", 2)
	if !ok {
		return
	}
	n, k := idx[0], idx[1]
	if k == 0 || k > config.MaxLastDigits {
		r.errorf("k must be between 1 and %d", config.MaxLastDigits)
		return
	}
	start := time.Now()
	digits, err := bignum.LastDigits(n, int(k))
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	DisplayLastDigits(r.out, n, int(k), digits, time.Since(start), false)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdCompare(parent context.Context, args []string) {
	idx, ok := r.indices(args, "compare <n>", 1)
	if !ok {
		return
	}
	n := idx[0]
	ctx, cancel := context.WithTimeout(parent, r.config.Timeout)
	defer cancel()

	calcs := orchestration.GetCalculatorsToRun("all", r.factory)
	results := orchestration.ExecuteCalculations(ctx, calcs, n, orchestration.NullProgressReporter{}, r.out)

	fmt.Fprintf(r.out, "\n%sComparison for F(%d):%s\n", ui.ColorBold(), n, ui.ColorReset())
	CLIResultPresenter{}.PresentComparisonTable(results, r.out)

	exact := lo.Filter(results, func(res orchestration.CalculationResult, _ int) bool {
		return res.Err == nil && !res.Overflowed
	})
	distinct := lo.Uniq(lo.Map(exact, func(res orchestration.CalculationResult, _ int) string {
		return res.Result.String()
	}))
	switch len(distinct) {
	case 0:
		fmt.Fprintf(r.out, "%sNo backend produced an exact value.%s\n\n", ui.ColorYellow(), ui.ColorReset())
	case 1:
		fmt.Fprintf(r.out, "%s✓ %d exact results agree.%s\n\n", ui.ColorGreen(), len(exact), ui.ColorReset())
	default:
		fmt.Fprintf(r.out, "%s✗ INCONSISTENT: %d distinct exact values.%s\n\n", ui.ColorRed(), len(distinct), ui.ColorReset())
	}
}

func (r *REPL) cmdAlgo(_ context.Context, args []string) {
	available := strings.Join(r.factory.List(), ", ")
	if len(args) != 1 {
		r.errorf("Usage: algo <name>")
		fmt.Fprintf(r.out, "Available backends: %s\n", available)
		return
	}
	name := strings.ToLower(args[0])
	calc, err := r.factory.Get(name)
	if err != nil {
		r.errorf("Unknown backend: %s", name)
		fmt.Fprintf(r.out, "Available backends: %s\n", available)
		return
	}
	r.backend = name
	fmt.Fprintf(r.out, "Backend changed to: %s%s%s\n", ui.ColorGreen(), calc.Name(), ui.ColorReset())
}

func (r *REPL) cmdList(context.Context, []string) {
	fmt.Fprintf(r.out, "%sAvailable backends:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.factory.List() {
		calc, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		marker := "  "
		if name == r.backend {
			marker = ui.ColorGreen() + "* " + ui.ColorReset()
		}
		limit := "unbounded"
		if top := calc.MaxIndex(); top != calculator.Unbounded {
			limit = fmt.Sprintf("exact to F(%d)", top)
		}
		fmt.Fprintf(r.out, "%s%s%-11s%s %-18s %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), limit, calc.Description())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdHex(context.Context, []string) {
	r.config.HexOutput = !r.config.HexOutput
	fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ui.ColorGreen(), onOff(r.config.HexOutput, "enabled", "disabled"), ui.ColorReset())
}

func (r *REPL) cmdStatus(context.Context, []string) {
	rows := [][2]string{
		{"Backend", r.backend},
		{"Timeout", r.config.Timeout.String()},
		{"FFT threshold", fmt.Sprintf("%d bits", bignum.FFTThreshold())},
		{"Hexadecimal", onOff(r.config.HexOutput, "yes", "no")},
	}
	if calc, err := r.factory.Get(r.backend); err == nil && calc.MaxIndex() != calculator.Unbounded {
		rows = slices.Insert(rows, 1, [2]string{"Exact up to", fmt.Sprintf("F(%d)", calc.MaxIndex())})
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %-14s %s%s%s\n", row[0]+":", ui.ColorCyan(), row[1], ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func onOff(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
