package board

import (
	"errors"
	"fmt"
)

var (
	ErrNotArray          = errors.New("invalid format: the JSON document is not an array")
	ErrNotRecord         = errors.New("invalid record: expected a JSON object")
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrNoSnapshot        = errors.New("no data loaded")
	ErrTooLarge          = errors.New("document too large")
)

// LoadError is a fatal failure to obtain the source document. Its message is
// meant to be shown to the user as is.
type LoadError struct {
	Source string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to load %s: HTTP %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
