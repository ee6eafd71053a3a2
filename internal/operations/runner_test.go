package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStep struct {
	id      string
	execute func(ctx context.Context, state *RunState) error
	calls   int
}

func (s *fakeStep) ID() string   { return s.id }
func (s *fakeStep) Name() string { return s.id }

func (s *fakeStep) Execute(ctx context.Context, state *RunState) error {
	s.calls++
	if s.execute != nil {
		return s.execute(ctx, state)
	}
	return nil
}

func newState() *RunState {
	return &RunState{RunID: "run-test", RunTime: time.Now()}
}

func TestRunnerRunsStepsInOrder(t *testing.T) {
	var order []string
	mkStep := func(id string) *fakeStep {
		return &fakeStep{id: id, execute: func(ctx context.Context, state *RunState) error {
			order = append(order, id)
			return nil
		}}
	}

	steps := []Step{mkStep("collect"), mkStep("extract"), mkStep("analyze")}
	summary, err := NewRunner(nil, steps).Run(context.Background(), newState())
	require.NoError(t, err)

	assert.Equal(t, []string{"collect", "extract", "analyze"}, order)
	require.Len(t, summary.Steps, 3)
	for _, s := range summary.Steps {
		assert.Equal(t, StepStatusCompleted, s.Status)
	}
	assert.Empty(t, summary.Err)
}

func TestRunnerStopsOnFirstFailure(t *testing.T) {
	boom := errors.New("extraction failed")
	first := &fakeStep{id: "collect"}
	failing := &fakeStep{id: "extract", execute: func(ctx context.Context, state *RunState) error {
		return boom
	}}
	never := &fakeStep{id: "archive"}

	summary, err := NewRunner(nil, []Step{first, failing, never}).Run(context.Background(), newState())
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, never.calls)

	assert.Equal(t, StepStatusCompleted, summary.Steps[0].Status)
	assert.Equal(t, StepStatusFailed, summary.Steps[1].Status)
	assert.Equal(t, boom.Error(), summary.Steps[1].Err)
	// Never-reached steps stay pending in the summary.
	assert.Equal(t, StepStatusPending, summary.Steps[2].Status)
	assert.Equal(t, boom.Error(), summary.Err)
}

func TestRunnerSkippedStepContinues(t *testing.T) {
	skipping := &fakeStep{id: "report", execute: func(ctx context.Context, state *RunState) error {
		return Skipped("no changes detected")
	}}
	after := &fakeStep{id: "archive"}

	summary, err := NewRunner(nil, []Step{skipping, after}).Run(context.Background(), newState())
	require.NoError(t, err)

	assert.Equal(t, StepStatusSkipped, summary.Steps[0].Status)
	assert.Equal(t, "no changes detected", summary.Steps[0].Message)
	assert.Equal(t, 1, after.calls)
	assert.Equal(t, StepStatusCompleted, summary.Steps[1].Status)
}

func TestRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	step := &fakeStep{id: "collect"}
	_, err := NewRunner(nil, []Step{step}).Run(ctx, newState())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, step.calls)
}

func TestSkippedErrorMatching(t *testing.T) {
	err := Skipped("notifier not configured")
	assert.ErrorIs(t, err, ErrStepSkipped)
	assert.Equal(t, "notifier not configured", err.Error())

	assert.NotErrorIs(t, errors.New("other"), ErrStepSkipped)
}

func TestStepStateLifecycle(t *testing.T) {
	s := NewStepState("extract", "Data Extraction")
	assert.Equal(t, StepStatusPending, s.Status)
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.Status)

	s.Complete("3 files")
	assert.Equal(t, StepStatusCompleted, s.Status)
	assert.Equal(t, "3 files", s.Message)
	assert.GreaterOrEqual(t, s.Duration(), time.Duration(0))
}
