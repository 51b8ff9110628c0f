package cli

import (
	"errors"
	"strings"

	"github.com/jaa/musicmaid/internal/config"
	"github.com/jaa/musicmaid/internal/engine"
	"github.com/jaa/musicmaid/internal/exitcode"
)

// ExitError pins the process exit code for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

var usageErrorMarkers = []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts at most", "accepts between"}

func mapExitCode(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var coded *ExitError
	if errors.As(err, &coded) {
		return coded.Code
	}
	if errors.Is(err, engine.ErrInterrupted) {
		return exitcode.Interrupted
	}
	var invalid *config.ValidationError
	if errors.As(err, &invalid) {
		return exitcode.InvalidConfig
	}
	message := err.Error()
	for _, marker := range usageErrorMarkers {
		if strings.Contains(message, marker) {
			return exitcode.InvalidUsage
		}
	}
	return exitcode.RuntimeFailure
}
