package button

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDispatchTarget means a descriptor has none of href, callback,
	// action or page.
	ErrNoDispatchTarget = errors.New("nothing to do: no href, callback, action or page specified")

	// ErrNoPendingConfirmation is returned by Confirm when no dialog is open.
	ErrNoPendingConfirmation = errors.New("no confirmation pending")

	// ErrMissingCollaborator means the mode needs a collaborator that was not
	// supplied to New.
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// ConfigError reports a misconfigured descriptor. It indicates an
// integration bug, not a runtime condition.
type ConfigError struct {
	Label string // Button label, may be empty
	Field string // Offending field, e.g. "confirm.label"
	Err   error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	label := e.Label
	if label == "" {
		label = "<unlabeled>"
	}
	if e.Field != "" {
		return fmt.Sprintf("button %q: %s: %v", label, e.Field, e.Err)
	}
	return fmt.Sprintf("button %q: %v", label, e.Err)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(label, field, msg string) *ConfigError {
	return &ConfigError{Label: label, Field: field, Err: errors.New(msg)}
}
