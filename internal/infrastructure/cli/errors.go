package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/export"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	switch {
	case errors.Is(err, wiring.ErrNoDataSource):
		return NewCLIError("no data source configured", "Pass --data <file|url> or run 'timeboard init <file|url>'", err)
	case errors.Is(err, board.ErrNotArray):
		return NewCLIError("invalid data format", "The export must be a JSON array of task records", err)
	case errors.Is(err, board.ErrSourceUnavailable):
		return NewCLIError("data source unavailable", "Check the path or URL with 'timeboard doctor'", err)
	case errors.Is(err, export.ErrNothingToExport):
		return &CLIError{Message: "nothing to export", Hint: "No items match the filters; relax --client, --group or --days", Err: err, ExitCode: 2}
	case errors.Is(err, board.ErrNoSnapshot):
		return NewCLIError("no data loaded", "Reload the data source first", err)
	}

	var loadErr *board.LoadError
	if errors.As(err, &loadErr) {
		return NewCLIError("failed to load data", "Check the data source with 'timeboard doctor'", err)
	}

	return err
}
