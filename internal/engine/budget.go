package engine

import (
	"errors"
	"fmt"
)

// StepBudget counts rewrite-rule firings for one evaluation and enforces
// the configured maximum.
//
// Each Normalize or Whnf call gets its own StepBudget. The budget is
// checked once per rule firing, before the rule mutates the graph, so an
// exhausted budget never leaves a rule half-applied.
//
// Reduction on this graph model is not guaranteed to terminate; the
// budget is the only termination guarantee the engine offers.
type StepBudget struct {
	maxSteps int
	current  int
}

// NewStepBudget creates a budget with the given limit.
//
// maxSteps: maximum number of rule firings for one evaluation.
// Typical default: 4096 (configurable via engine.WithMaxSteps()).
func NewStepBudget(maxSteps int) *StepBudget {
	return &StepBudget{maxSteps: maxSteps}
}

// Check increments the step counter and validates against the limit.
//
// Returns StepsExceededError once the budget is exhausted. Call before
// firing each rewrite rule.
func (b *StepBudget) Check(token string) error {
	b.current++
	if b.current > b.maxSteps {
		return &StepsExceededError{
			Token: token,
			Steps: b.current,
			Limit: b.maxSteps,
		}
	}
	return nil
}

// Current returns the number of steps taken so far.
// Used for Stats and diagnostics.
func (b *StepBudget) Current() int {
	return b.current
}

// MaxSteps returns the configured limit.
func (b *StepBudget) MaxSteps() int {
	return b.maxSteps
}

// StepsExceededError is returned when an evaluation exceeds its step
// budget. The partially reduced graph is left as-is; callers may still
// read it back.
type StepsExceededError struct {
	Token string // evaluation that exceeded the budget
	Steps int    // steps taken
	Limit int    // maximum allowed
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("evaluation %s exceeded step budget: %d steps > %d limit",
		e.Token, e.Steps, e.Limit)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
