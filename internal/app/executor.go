package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// ExecutionStep names one stage of an Operation. Stages run in the order
// validate, perform, verify, respond, and the first failure stops the run,
// so a rejected backend answer never reaches the caller half-applied.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate" // inputs, before any backend call
	StepPerform  ExecutionStep = "perform"  // the single backend call
	StepVerify   ExecutionStep = "verify"   // backend answer against the request
	StepRespond  ExecutionStep = "respond"  // caller's result
)

// ExecutionError tags a failure with the step it happened in. The cause
// stays reachable through errors.Is and errors.As.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s failed: %s", e.Step, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs operations and logs each step.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor falls back to slog.Default for a nil logger. A logger in the
// request context takes precedence at Execute time.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation holds the step functions of one use case. I is the input, P the
// raw backend result and O the caller's result. Nil steps are skipped.
type Operation[I, P, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) error
	Respond  func(ctx context.Context, input I, performed P) (O, error)
}

type stage struct {
	step    ExecutionStep
	message string
	run     func() error
}

// stages binds op's non-nil steps to input and the shared results.
func (op Operation[I, P, O]) stages(ctx context.Context, input I, performed *P, result *O) []stage {
	var out []stage

	if op.Validate != nil {
		out = append(out, stage{StepValidate, "input validation failed", func() error {
			return op.Validate(ctx, input)
		}})
	}

	if op.Perform != nil {
		out = append(out, stage{StepPerform, "backend call failed", func() (err error) {
			*performed, err = op.Perform(ctx, input)
			return err
		}})
	}

	if op.Verify != nil {
		out = append(out, stage{StepVerify, "backend result rejected", func() error {
			return op.Verify(ctx, input, *performed)
		}})
	}

	if op.Respond != nil {
		out = append(out, stage{StepRespond, "building response failed", func() (err error) {
			*result, err = op.Respond(ctx, input, *performed)
			return err
		}})
	}

	return out
}

// Execute runs op on input. Validation failures log at warn, the rest at
// error.
func Execute[I, P, O any](ctx context.Context, exec *Executor, op Operation[I, P, O], input I) (O, error) {
	var (
		performed P
		result    O
	)

	logger := logging.Or(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	for _, s := range op.stages(ctx, input, &performed, &result) {
		logger.Log(ctx, logging.LevelTrace, "step started", slog.String("step", string(s.step)))

		if err := s.run(); err != nil {
			level := slog.LevelError
			if s.step == StepValidate {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "step failed", slog.String("step", string(s.step)), slog.Any("error", err))

			var zero O

			return zero, &ExecutionError{Step: s.step, Message: s.message, Cause: err}
		}
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// IsExecutionError reports whether err came out of Execute.
func IsExecutionError(err error) bool {
	_, ok := GetExecutionStep(err)
	return ok
}

// GetExecutionStep returns the step err failed in.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
