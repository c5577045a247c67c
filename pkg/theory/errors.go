package theory

import (
	"errors"
	"fmt"
)

// ValidationError describes a single ill-formed declaration of a theory.
type ValidationError struct {
	Constructor string // Type or term constructor name ("" for theory-level problems)
	Reason      string
}

func (e *ValidationError) Error() string {
	if e.Constructor == "" {
		return e.Reason
	}
	return fmt.Sprintf("constructor %q: %s", e.Constructor, e.Reason)
}

// AggregateError collects every validation failure found in a theory.
type AggregateError struct {
	Theory string
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("theory %s: %s", e.Theory, e.Errors[0].Error())
	}
	msg := fmt.Sprintf("theory %s: %d validation errors:\n", e.Theory, len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err wraps an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
