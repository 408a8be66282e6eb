package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError_Formatting(t *testing.T) {
	full := &RuntimeError{
		Code:    ErrCodeMalformedGraph,
		Message: "equation body failed to instantiate",
		Token:   "eval-1",
		FunName: "Get",
	}
	assert.Equal(t, "MALFORMED_GRAPH: equation body failed to instantiate (eval=eval-1, fun=Get)", full.Error())

	withToken := &RuntimeError{Code: ErrCodeStepBudgetExceeded, Message: "out of steps", Token: "eval-2"}
	assert.Equal(t, "STEP_BUDGET_EXCEEDED: out of steps (eval=eval-2)", withToken.Error())

	bare := &RuntimeError{Code: ErrCodeMalformedGraph, Message: "dangling projection"}
	assert.Equal(t, "MALFORMED_GRAPH: dangling projection", bare.Error())
}

func TestIsBudgetError(t *testing.T) {
	budget := &RuntimeError{Code: ErrCodeStepBudgetExceeded, Message: "out of steps", Token: "eval-1"}
	assert.True(t, IsBudgetError(budget))
	assert.True(t, IsBudgetError(fmt.Errorf("normalize: %w", budget)))
	assert.True(t, IsBudgetError(&StepsExceededError{Token: "eval-1", Steps: 11, Limit: 10}))
	assert.False(t, IsBudgetError(&RuntimeError{Code: ErrCodeMalformedGraph, Message: "dangling projection"}))
	assert.False(t, IsBudgetError(nil))
}
