package main

import (
	"context"
	"os"

	"github.com/agbru/quickfib/internal/app"
	apperrors "github.com/agbru/quickfib/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(0)
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(apperrors.ExitCode(err))
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
