package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/quickfib/fibonacci/bignum"
	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/cli"
	"github.com/agbru/quickfib/internal/config"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/logging"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/server"
	"github.com/agbru/quickfib/internal/tui"
	"github.com/agbru/quickfib/internal/ui"
)

// Application represents the quickfib application instance.
type Application struct {
	Config    config.AppConfig
	Factory   calculator.Factory
	ErrWriter io.Writer
	Logger    *logging.ZerologAdapter

	level zerolog.Level
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom calculator factory for the application.
func WithFactory(f calculator.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = calculator.GlobalFactory()
	}

	programName := "quickfib"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}

	app.Config = config.ApplyAdaptiveThresholds(cfg)
	app.level = level
	app.Logger = logging.NewLoggerWithLevel(errWriter, "quickfib", level)
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	zerolog.SetGlobalLevel(a.level)
	ui.InitTheme(a.Config.NoColor)
	bignum.SetFFTThreshold(a.Config.FFTThreshold)
	a.Logger.Debug("configuration loaded",
		logging.String("algo", a.Config.Algo),
		logging.Uint64("n", a.Config.N),
		logging.Int("fft_threshold", a.Config.FFTThreshold))

	switch {
	case a.Config.REPL:
		return a.runREPL(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx, out)
	case a.Config.ServeAddr != "":
		return a.runServer(ctx)
	case a.Config.LastDigits > 0:
		return a.runLastDigits(ctx, out)
	case a.Config.RangeMode:
		return a.runRange(ctx, out)
	}
	return a.runCalculate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
	})
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runTUI launches the interactive TUI dashboard. The timeout does not apply:
// each run inside the dashboard is canceled by the next one or on quit.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	return tui.Run(ctx, calculatorsToRun, a.Config, Version)
}

// runServer serves the HTTP API until SIGINT or SIGTERM.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewLoggerWithLevel(a.ErrWriter, "server", a.level).
		With(logging.String("addr", a.Config.ServeAddr))
	cfg := server.DefaultConfig(a.Config.ServeAddr)
	cfg.RequestTimeout = a.Config.Timeout

	if err := server.NewServer(a.Factory, cfg, logger).Start(ctx); err != nil {
		logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
