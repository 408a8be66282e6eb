package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during reduction or readback
// of a reduced graph. It carries a code for programmatic matching plus the
// eval token of the affected run.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Token identifies the evaluation run.
	Token string

	// FunName names the function whose equation was being instantiated,
	// when one was.
	FunName string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeStepBudgetExceeded indicates the run exceeded its budget.
	ErrCodeStepBudgetExceeded RuntimeErrorCode = "STEP_BUDGET_EXCEEDED"

	// ErrCodeMalformedGraph indicates an internal invariant violation.
	ErrCodeMalformedGraph RuntimeErrorCode = "MALFORMED_GRAPH"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Token != "" && e.FunName != "" {
		return fmt.Sprintf("%s: %s (eval=%s, fun=%s)", e.Code, e.Message, e.Token, e.FunName)
	}
	if e.Token != "" {
		return fmt.Sprintf("%s: %s (eval=%s)", e.Code, e.Message, e.Token)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsBudgetError returns true if the error reports an exhausted step
// budget. Matches both RuntimeError and StepsExceededError, wrapped or not.
func IsBudgetError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStepBudgetExceeded
	}
	var se *StepsExceededError
	return errors.As(err, &se)
}
