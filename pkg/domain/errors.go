package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned when a column strategy selector is not one of
// the defined strategies. It indicates a programming error rather than bad input.
var ErrUnknownStrategy = errors.New("unknown column strategy")

// ConfigError reports a user-input problem with a column request. Callers are
// expected to show Message and let the user correct the input.
type ConfigError struct {
	Op      string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(op, format string, args ...any) *ConfigError {
	return &ConfigError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// ErrUnknownSample is returned when a submitted sample name is not in the catalog.
type ErrUnknownSample struct {
	Name string
}

func (e ErrUnknownSample) Error() string {
	return fmt.Sprintf("invalid sample name %s", e.Name)
}

// IsUserError reports whether err stems from correctable user input.
func IsUserError(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return true
	}
	var sampleErr ErrUnknownSample
	return errors.As(err, &sampleErr)
}
