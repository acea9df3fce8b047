package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cashflowcli/internal/errors"
	"cashflowcli/internal/shared/testutil"
)

type fakeStage struct {
	BaseStage
	err error
	ran *[]string
}

func newFakeStage(id string, deps ...string) *fakeStage {
	return &fakeStage{BaseStage: NewBaseStage(id, "Fake "+id, deps)}
}

func (s *fakeStage) Execute(ctx context.Context, state *RunState) error {
	if s.ran != nil {
		*s.ran = append(*s.ran, s.ID())
	}
	return s.err
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newFakeStage("a")))
	assert.True(t, r.Has("a"))
	assert.Equal(t, 1, r.Count())

	assert.Error(t, r.Register(newFakeStage("a")), "duplicate id")
	assert.Error(t, r.Register(newFakeStage("")), "empty id")
	assert.Error(t, r.Register(nil))

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Fake a", got.Name())

	_, err = r.Get("missing")
	assert.Error(t, err)
}

func TestRegistry_GetDependencyOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFakeStage("report", "analyze")))
	require.NoError(t, r.Register(newFakeStage("open")))
	require.NoError(t, r.Register(newFakeStage("extract", "open")))
	require.NoError(t, r.Register(newFakeStage("break_even", "open")))
	require.NoError(t, r.Register(newFakeStage("analyze", "extract")))

	ordered, err := r.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "extract", "break_even", "analyze", "report"}, ids(ordered))
	assert.Equal(t, []string{"report", "open", "extract", "break_even", "analyze"}, ids(r.List()))
}

func TestRegistry_DependencyErrors(t *testing.T) {
	t.Run("missing dependency", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(newFakeStage("a", "ghost")))
		_, err := r.GetDependencyOrder()
		assert.ErrorContains(t, err, "non-existent")
	})

	t.Run("cycle", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(newFakeStage("a", "b")))
		require.NoError(t, r.Register(newFakeStage("b", "a")))
		_, err := r.GetDependencyOrder()
		assert.ErrorContains(t, err, "cycle")

		_, err = NewPipeline(r, nil, nil)
		assert.Error(t, err)
	})
}

func TestRegistry_GetDependents(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFakeStage("analyze")))
	require.NoError(t, r.Register(newFakeStage("chart", "analyze")))
	require.NoError(t, r.Register(newFakeStage("summary", "analyze")))
	require.NoError(t, r.Register(newFakeStage("other")))

	assert.Equal(t, []string{"chart", "summary"}, ids(r.GetDependents("analyze")))
	assert.Empty(t, r.GetDependents("other"))
}

func TestPipeline_SkipsDependentsOfFailedStage(t *testing.T) {
	var ran []string
	failing := newFakeStage("a")
	failing.err = errors.New("plain errors are fatal")

	r := NewRegistry()
	for _, s := range []*fakeStage{failing, newFakeStage("b", "a"), newFakeStage("c")} {
		s.ran = &ran
		require.NoError(t, r.Register(s))
	}

	p, err := NewPipeline(r, nil, nil)
	require.NoError(t, err)

	state := NewRunState("run", nil)
	err = p.Run(context.Background(), state)
	require.Error(t, err)

	assert.Equal(t, []string{"a"}, ran)
	assert.Equal(t, StepStatusSkipped, state.GetStep("b").GetStatus())
	assert.Equal(t, StepStatusSkipped, state.GetStep("c").GetStatus())
}

func TestPipeline_NonFatalFailureBlocksOnlyDependents(t *testing.T) {
	var ran []string
	failing := newFakeStage("render")
	failing.err = apperrors.NewRenderError("disk full", nil)

	r := NewRegistry()
	for _, s := range []*fakeStage{failing, newFakeStage("publish", "render"), newFakeStage("export")} {
		s.ran = &ran
		require.NoError(t, r.Register(s))
	}

	logger, handler := testutil.NewTestLogger(t)
	p, err := NewPipeline(r, nil, logger)
	require.NoError(t, err)

	state := NewRunState("run", nil)
	require.NoError(t, p.Run(context.Background(), state))

	assert.Equal(t, []string{"render", "export"}, ran)
	assert.Equal(t, StepStatusSkipped, state.GetStep("publish").GetStatus())
	assert.Equal(t, StepStatusCompleted, state.GetStep("export").GetStatus())

	var blocked any
	for _, rec := range handler.GetRecords() {
		if rec.Message == "Stage failed, continuing" {
			blocked = rec.Attrs["blocked_stages"]
		}
	}
	assert.Equal(t, []string{"publish"}, blocked)
}

func TestStepState_Transitions(t *testing.T) {
	s := NewStepState("extract", "Extract Scenarios")
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())

	s.Fail(errors.New("boom"))
	assert.Equal(t, StepStatusFailed, s.GetStatus())
	assert.Equal(t, "boom", s.Message)
	assert.Equal(t, "failure", s.GetStatus().Outcome())

	skipped := NewStepState("chart", "Render")
	skipped.Skip("dependency analyze not completed")
	assert.Equal(t, "skipped", skipped.GetStatus().Outcome())
	assert.Equal(t, "success", StepStatusCompleted.Outcome())
}
