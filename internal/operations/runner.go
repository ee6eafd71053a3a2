// Package operations sequences a monitoring run: collect, extract,
// analyze, report, notify, archive. Steps run in order and the first
// failure aborts the run; archival only happens after every earlier step
// has succeeded, so a failed notification can never demote the baseline
// and swallow a detected change.
package operations

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrStepSkipped is returned by a step that decided it has nothing to do
// this run (no changes to report, notifier unconfigured). The runner marks
// the step skipped and continues.
var ErrStepSkipped = errors.New("step skipped")

// Step is one unit of the pipeline.
type Step interface {
	ID() string
	Name() string
	Execute(ctx context.Context, state *RunState) error
}

// Runner executes steps sequentially with per-step state tracking.
type Runner struct {
	logger *slog.Logger
	steps  []Step
}

// NewRunner creates a runner over the given steps.
func NewRunner(logger *slog.Logger, steps []Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, steps: steps}
}

// Run drives the pipeline to completion or first failure. The returned
// summary always covers every step, including the ones never reached.
func (r *Runner) Run(ctx context.Context, state *RunState) (*RunSummary, error) {
	start := time.Now()

	summary := &RunSummary{RunID: state.RunID}
	states := make([]*StepState, len(r.steps))
	for i, step := range r.steps {
		states[i] = NewStepState(step.ID(), step.Name())
	}
	summary.Steps = states

	var runErr error

	for i, step := range r.steps {
		if runErr != nil {
			break
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		stepState := states[i]
		stepState.Start()

		r.logger.InfoContext(ctx, "step started",
			slog.String("step", step.ID()),
			slog.String("run_id", state.RunID))

		err := step.Execute(ctx, state)
		switch {
		case errors.Is(err, ErrStepSkipped):
			stepState.Skip(skipReason(err))
			r.logger.InfoContext(ctx, "step skipped",
				slog.String("step", step.ID()),
				slog.String("reason", stepState.Message))
		case err != nil:
			stepState.Fail(err)
			r.logger.ErrorContext(ctx, "step failed",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			runErr = err
		default:
			stepState.Complete("")
			r.logger.InfoContext(ctx, "step completed",
				slog.String("step", step.ID()),
				slog.Duration("duration", stepState.Duration()))
		}
	}

	summary.Duration = time.Since(start)
	if runErr != nil {
		summary.Err = runErr.Error()
	}

	r.logger.InfoContext(ctx, "run finished",
		slog.String("run_id", state.RunID),
		slog.Duration("duration", summary.Duration),
		slog.Bool("success", runErr == nil))

	return summary, runErr
}

// skipReason unwraps the reason a step attached to ErrStepSkipped.
func skipReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Skipped wraps ErrStepSkipped with a human-readable reason.
func Skipped(reason string) error {
	return &skippedError{reason: reason}
}

type skippedError struct {
	reason string
}

func (e *skippedError) Error() string { return e.reason }

func (e *skippedError) Is(target error) bool { return target == ErrStepSkipped }
