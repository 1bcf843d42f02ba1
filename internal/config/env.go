package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// envBinding ties QUICKFIB_<key> to the flags it stands in for. set is
// called with the raw value only when none of the flags was given.
type envBinding struct {
	key   string
	flags []string
	set   func(c *AppConfig, raw string)
}

func uintEnv(key, flagName string, dst func(*AppConfig) *uint64) envBinding {
	return envBinding{key, []string{flagName}, func(c *AppConfig, raw string) {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			*dst(c) = v
		}
	}}
}

func intEnv(key, flagName string, dst func(*AppConfig) *int) envBinding {
	return envBinding{key, []string{flagName}, func(c *AppConfig, raw string) {
		if v, err := strconv.Atoi(raw); err == nil {
			*dst(c) = v
		}
	}}
}

func stringEnv(key string, dst func(*AppConfig) *string, flags ...string) envBinding {
	return envBinding{key, flags, func(c *AppConfig, raw string) { *dst(c) = raw }}
}

func boolEnv(key string, dst func(*AppConfig) *bool, flags ...string) envBinding {
	return envBinding{key, flags, func(c *AppConfig, raw string) {
		p := dst(c)
		*p = parseBoolEnv(raw, *p)
	}}
}

// envBindings lists every supported variable, without the QUICKFIB_ prefix.
var envBindings = []envBinding{
	uintEnv("N", "n", func(c *AppConfig) *uint64 { return &c.N }),
	uintEnv("FROM", "from", func(c *AppConfig) *uint64 { return &c.From }),
	{"TO", []string{"to"}, func(c *AppConfig, raw string) {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			c.To, c.RangeMode = v, true
		}
	}},
	intEnv("LAST_DIGITS", "last-digits", func(c *AppConfig) *int { return &c.LastDigits }),
	intEnv("FFT_THRESHOLD", "fft-threshold", func(c *AppConfig) *int { return &c.FFTThreshold }),
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, raw string) {
		if d, err := time.ParseDuration(raw); err == nil {
			c.Timeout = d
		}
	}},
	stringEnv("ALGO", func(c *AppConfig) *string { return &c.Algo }, "algo"),
	stringEnv("OUTPUT", func(c *AppConfig) *string { return &c.OutputFile }, "output", "o"),
	stringEnv("SERVE", func(c *AppConfig) *string { return &c.ServeAddr }, "serve"),
	stringEnv("LOG_LEVEL", func(c *AppConfig) *string { return &c.LogLevel }, "log-level"),
	stringEnv("GC_MODE", func(c *AppConfig) *string { return &c.GCMode }, "gc-mode"),
	boolEnv("VERBOSE", func(c *AppConfig) *bool { return &c.Verbose }, "verbose", "v"),
	boolEnv("DETAILS", func(c *AppConfig) *bool { return &c.Details }, "details", "d"),
	boolEnv("QUIET", func(c *AppConfig) *bool { return &c.Quiet }, "quiet", "q"),
	boolEnv("CALCULATE", func(c *AppConfig) *bool { return &c.ShowValue }, "calculate", "c"),
	boolEnv("JSON", func(c *AppConfig) *bool { return &c.JSON }, "json"),
	boolEnv("NO_COLOR", func(c *AppConfig) *bool { return &c.NoColor }, "no-color"),
	boolEnv("TUI", func(c *AppConfig) *bool { return &c.TUI }, "tui"),
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case. Anything
// else leaves fallback.
func parseBoolEnv(raw string, fallback bool) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyEnvOverrides fills c from QUICKFIB_* variables for every setting
// whose flag was not given. Flags win over the environment, which wins
// over defaults.
func applyEnvOverrides(c *AppConfig, fs *flag.FlagSet) {
	given := setFlags(fs)
	for _, b := range envBindings {
		explicit := false
		for _, name := range b.flags {
			explicit = explicit || given[name]
		}
		if explicit {
			continue
		}
		if raw := os.Getenv(EnvPrefix + b.key); raw != "" {
			b.set(c, raw)
		}
	}
}
