package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsStepsInOrder(t *testing.T) {
	var calls []ExecutionStep

	op := Operation[int, int, string]{
		Name: "double",
		Validate: func(_ context.Context, in int) error {
			calls = append(calls, StepValidate)
			return nil
		},
		Perform: func(_ context.Context, in int) (int, error) {
			calls = append(calls, StepPerform)
			return in * 2, nil
		},
		Verify: func(_ context.Context, in, out int) error {
			calls = append(calls, StepVerify)
			return nil
		},
		Respond: func(_ context.Context, _ int, out int) (string, error) {
			calls = append(calls, StepRespond)
			if out == 42 {
				return "forty-two", nil
			}
			return "other", nil
		},
	}

	got, err := Execute(context.Background(), NewExecutor(discardLogger()), op, 21)

	require.NoError(t, err)
	assert.Equal(t, "forty-two", got)
	assert.Equal(t, []ExecutionStep{StepValidate, StepPerform, StepVerify, StepRespond}, calls)
}

func TestExecute_StopsAtFailingStep(t *testing.T) {
	cause := errors.New("boom")
	performed := false

	op := Operation[string, string, string]{
		Name:     "fail",
		Validate: func(context.Context, string) error { return cause },
		Perform: func(context.Context, string) (string, error) {
			performed = true
			return "", nil
		},
	}

	_, err := Execute(context.Background(), NewExecutor(nil), op, "x")

	require.Error(t, err)
	assert.False(t, performed)
	require.ErrorIs(t, err, cause)
	assert.True(t, IsExecutionError(err))

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepValidate, step)
	assert.Equal(t, "validate failed: input validation failed: boom", err.Error())
}

func TestExecute_NilStepsAreSkipped(t *testing.T) {
	got, err := Execute(context.Background(), NewExecutor(nil), Operation[int, int, int]{Name: "empty"}, 1)

	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestGetExecutionStep_NotExecutionError(t *testing.T) {
	_, ok := GetExecutionStep(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsExecutionError(nil))
}
