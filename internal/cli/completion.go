package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
type FlagCompletion struct {
	Long      string   // long name without "--"
	Short     string   // short name without "-"
	Help      string   // description text
	Values    []string // suggested values; nil for booleans
	ValueName string   // value label, empty for booleans
	IsFile    bool     // the value is a file path
	IsAlgo    bool     // the values are the backend names
}

// takesValue reports whether the flag expects an argument.
func (f FlagCompletion) takesValue() bool { return f.ValueName != "" }

// flagRegistry lists every quickfib flag. All generators read from it.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Short: "n", Help: "Fibonacci index to calculate", ValueName: "number"},
	{Long: "from", Help: "First index of a range", ValueName: "number"},
	{Long: "to", Help: "Last index of a range", ValueName: "number"},
	{Long: "algo", Help: "Backend to use", IsAlgo: true, ValueName: "backend"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m", "30m"}, ValueName: "duration"},
	{Long: "calculate", Short: "c", Help: "Print the computed value"},
	{Long: "verbose", Short: "v", Help: "Print the full value"},
	{Long: "details", Short: "d", Help: "Show memory and host details"},
	{Long: "quiet", Short: "q", Help: "Print only the result"},
	{Long: "json", Help: "Print results as JSON"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file"},
	{Long: "last-digits", Help: "Print only the last K digits", Values: []string{"10", "100", "1000"}, ValueName: "digits"},
	{Long: "fft-threshold", Help: "FFT threshold in bits", Values: []string{"0", "500000", "1000000", "2000000"}, ValueName: "bits"},
	{Long: "gc-mode", Help: "GC control during calculation", Values: []string{"auto", "aggressive", "disabled"}, ValueName: "mode"},
	{Long: "repl", Help: "Start the interactive shell"},
	{Long: "tui", Help: "Start the terminal dashboard"},
	{Long: "serve", Help: "Serve the HTTP API", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
	{Long: "no-color", Help: "Disable colors"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
}

// GenerateCompletion writes a completion script for shell.
//
// Parameters:
//   - out: Destination of the script.
//   - shell: "bash", "zsh", "fish" or "powershell" ("ps").
//   - algorithms: Backend names offered for --algo.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, algorithms)
	case "zsh":
		return generateZshCompletion(out, algorithms)
	case "fish":
		return generateFishCompletion(out, algorithms)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, algorithms)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func flagValues(f FlagCompletion, algorithms []string) []string {
	if f.IsAlgo {
		return append([]string{"all"}, algorithms...)
	}
	return f.Values
}

func generateBashCompletion(out io.Writer, algorithms []string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		names := flagNames(f)
		opts = append(opts, names...)
		switch {
		case f.IsFile:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(names, "|"))
		case len(flagValues(f, algorithms)) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(names, "|"), strings.Join(flagValues(f, algorithms), " "))
		case f.takesValue():
			fmt.Fprintf(&cases, "        %s)\n            return 0\n            ;;\n", strings.Join(names, "|"))
		}
	}

	_, err := fmt.Fprintf(out, `# Bash completion for quickfib
# Add to ~/.bashrc: eval "$(quickfib --completion bash)"

_quickfib_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    return 0
}

complete -F _quickfib_completions quickfib
`, strings.Join(opts, " "), cases.String())
	return err
}

func generateZshCompletion(out io.Writer, algorithms []string) error {
	var b strings.Builder
	b.WriteString("#compdef quickfib\n# Zsh completion for quickfib\n\n_quickfib() {\n    _arguments \\\n")
	for i, f := range flagRegistry {
		spec := "'" + zshFlagSpec(f) + "[" + f.Help + "]"
		switch {
		case f.IsFile:
			spec += ":" + f.ValueName + ":_files"
		case len(flagValues(f, algorithms)) > 0:
			spec += ":" + f.ValueName + ":(" + strings.Join(flagValues(f, algorithms), " ") + ")"
		case f.takesValue():
			spec += ":" + f.ValueName + ":"
		}
		spec += "'"
		if i < len(flagRegistry)-1 {
			spec += " \\"
		}
		b.WriteString("        " + spec + "\n")
	}
	b.WriteString("}\n\n_quickfib \"$@\"\n")
	_, err := io.WriteString(out, b.String())
	return err
}

// zshFlagSpec renders the '(--output -o)'{--output,-o}' exclusion form for
// flags that have both a long and a short name.
func zshFlagSpec(f FlagCompletion) string {
	names := flagNames(f)
	if len(names) == 1 {
		return names[0]
	}
	return "(" + strings.Join(names, " ") + ")'{" + strings.Join(names, ",") + "}'"
}

func generateFishCompletion(out io.Writer, algorithms []string) error {
	var b strings.Builder
	b.WriteString("# Fish completion for quickfib\n# Save to ~/.config/fish/completions/quickfib.fish\n\n")
	for _, f := range flagRegistry {
		line := "complete -c quickfib"
		if f.Long != "" {
			line += " -l " + f.Long
		}
		if f.Short != "" {
			if len(f.Short) == 1 {
				line += " -s " + f.Short
			} else {
				line += " -o " + f.Short
			}
		}
		switch {
		case f.IsFile:
			line += " -r -F"
		case len(flagValues(f, algorithms)) > 0:
			line += " -x -a '" + strings.Join(flagValues(f, algorithms), " ") + "'"
		case f.takesValue():
			line += " -x"
		}
		line += " -d '" + f.Help + "'"
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func generatePowerShellCompletion(out io.Writer, algorithms []string) error {
	var flags, values strings.Builder
	for _, f := range flagRegistry {
		for _, name := range flagNames(f) {
			fmt.Fprintf(&flags, "        @{ Name = '%s'; Help = '%s' }\n", name, f.Help)
			if v := flagValues(f, algorithms); len(v) > 0 {
				fmt.Fprintf(&values, "        '%s' = @('%s')\n", name, strings.Join(v, "', '"))
			}
		}
	}
	_, err := fmt.Fprintf(out, `# PowerShell completion for quickfib
# Add to $PROFILE: quickfib --completion powershell | Out-String | Invoke-Expression

Register-ArgumentCompleter -Native -CommandName quickfib -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $flags = @(
%s    )
    $values = @{
%s    }

    $elements = $commandAst.CommandElements
    $prev = if ($elements.Count -gt 1) { $elements[$elements.Count - 1].ToString() } else { '' }
    if ($wordToComplete -ne '' -and $elements.Count -gt 2) { $prev = $elements[$elements.Count - 2].ToString() }

    if ($values.ContainsKey($prev)) {
        $values[$prev] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    $flags | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Help)
    }
}
`, flags.String(), values.String())
	return err
}
