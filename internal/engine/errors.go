package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when an engine is constructed from
	// an unusable bank or difficulty range.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownQuestion indicates a response referenced a question that is
	// not part of the session's bank.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrAlreadyAnswered indicates a response for a question that already
	// has an entry in the response history.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// ConfigError describes which configuration field was rejected and why.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }
