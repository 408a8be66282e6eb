package graph

import (
	"errors"
	"fmt"

	"github.com/steinerkelvin/Kindelia/internal/term"
)

// UnboundVariableError reports a variable occurrence with no pending
// binding in scope. It is a construction-time error: the program is
// rejected, nothing was mutated.
type UnboundVariableError struct {
	Name term.Name
}

// Error implements the error interface.
func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable %q", string(e.Name))
}

// IsUnboundVariable reports whether the error is an UnboundVariableError.
// Uses errors.As to handle wrapped errors.
func IsUnboundVariable(err error) bool {
	var ue *UnboundVariableError
	return errors.As(err, &ue)
}

// MalformedGraphError reports an internal invariant violation: a dangling
// back-reference, or a superposition reached with an empty duplication
// path. Well-formed input never produces it; it indicates a defect, not a
// user error.
type MalformedGraphError struct {
	Reason string
}

// Error implements the error interface.
func (e *MalformedGraphError) Error() string {
	return fmt.Sprintf("malformed graph: %s", e.Reason)
}

// IsMalformedGraph reports whether the error is a MalformedGraphError.
// Uses errors.As to handle wrapped errors.
func IsMalformedGraph(err error) bool {
	var me *MalformedGraphError
	return errors.As(err, &me)
}
