package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaa/musicmaid/internal/config"
	"github.com/jaa/musicmaid/internal/output"
)

func loadConfig(app *AppContext) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ExplicitPath: strings.TrimSpace(app.Opts.ConfigPath),
		WorkingDir:   wd,
	})
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// absDir turns a directory given on the command line into an absolute
// path; unlike config values, relative arguments are taken from the
// working directory.
func absDir(raw string) (string, error) {
	expanded, err := config.ExpandPath(raw)
	if err != nil {
		return "", err
	}
	if expanded == "" {
		return "", fmt.Errorf("directory argument is empty")
	}
	return filepath.Abs(expanded)
}

func canPrompt(app *AppContext, noInput bool) bool {
	return !noInput && !app.Opts.JSON && output.IsTerminal(app.IO.In)
}

func newEmitter(app *AppContext) output.EventEmitter {
	if app.Opts.JSON {
		return output.NewJSONEmitter(app.IO.Out)
	}
	human := output.NewHumanEmitter(app.IO.Out, app.IO.ErrOut, app.Opts.Quiet, app.Opts.Verbose)
	if app.Opts.Quiet || app.Opts.Verbose || !output.IsTerminal(app.IO.Out) {
		return human
	}
	return output.NewCompactEmitter(app.IO.Out, human)
}
