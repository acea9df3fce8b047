package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	apperrors "cashflowcli/internal/errors"
	"cashflowcli/internal/infrastructure"
)

// Pipeline executes the registered stages in dependency order. A fatal
// error aborts the run; any other failure is logged and the run continues
// with the stages that do not depend on the failed one.
type Pipeline struct {
	registry  *Registry
	telemetry *infrastructure.OTelProviders
	logger    *slog.Logger
}

// NewPipeline creates a pipeline over a registry. telemetry may be nil.
func NewPipeline(registry *Registry, telemetry *infrastructure.OTelProviders, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := registry.GetDependencyOrder(); err != nil {
		return nil, fmt.Errorf("invalid stage graph: %w", err)
	}
	return &Pipeline{
		registry:  registry,
		telemetry: telemetry,
		logger:    infrastructure.WithComponent(logger, "pipeline"),
	}, nil
}

// Run executes every stage against state. It returns the fatal error that
// aborted the run, or nil when the run completed, even with non-fatal
// failures recorded on the stage states. The workbook is always closed.
func (p *Pipeline) Run(ctx context.Context, state *RunState) error {
	stages, err := p.registry.GetDependencyOrder()
	if err != nil {
		return apperrors.NewConfigError("invalid stage graph", err)
	}

	for _, stage := range stages {
		state.SetStep(stage.ID(), NewStepState(stage.ID(), stage.Name()))
	}

	state.Start()
	attrs := []any{slog.String("run", state.ID), slog.Int("stage_count", len(stages))}
	if state.Paths != nil {
		attrs = append(attrs, slog.String("input", state.Paths.InputFile))
	}
	p.logger.InfoContext(ctx, "Run started", attrs...)

	defer func() {
		if err := state.CloseWorkbook(); err != nil {
			p.logger.WarnContext(ctx, "Failed to close workbook", slog.String("error", err.Error()))
		}
		p.writeMetrics(ctx)
	}()

	for i, stage := range stages {
		step := state.GetStep(stage.ID())

		if err := ctx.Err(); err != nil {
			p.abort(state, stages[i:], "run cancelled")
			state.Fail(err)
			return err
		}

		if reason := p.blockedBy(state, stage); reason != "" {
			p.skip(ctx, stage, step, reason)
			continue
		}
		if err := stage.Validate(state); err != nil {
			p.skip(ctx, stage, step, err.Error())
			continue
		}

		p.logger.DebugContext(ctx, "Executing stage",
			slog.String("stage", stage.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(stages)))

		err := p.executeStage(ctx, state, stage, step)
		if err == nil {
			continue
		}

		if apperrors.IsFatal(err) {
			infrastructure.WithError(p.logger, err).ErrorContext(ctx, "Stage failed, aborting run",
				slog.String("stage", stage.ID()),
				slog.String("error_type", string(apperrors.TypeOf(err))))
			p.abort(state, stages[i+1:], fmt.Sprintf("run aborted by %s", stage.ID()))
			state.Fail(err)
			return err
		}

		infrastructure.WithError(p.logger, err).WarnContext(ctx, "Stage failed, continuing",
			slog.String("stage", stage.ID()),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.Any("blocked_stages", ids(p.registry.GetDependents(stage.ID()))))
	}

	state.Complete()
	p.logger.InfoContext(ctx, "Run completed",
		slog.Int("outputs", len(state.Outputs())),
		slog.Int("failed_stages", len(state.FailedSteps())),
		slog.Duration("duration", state.Duration()))
	return nil
}

func (p *Pipeline) executeStage(ctx context.Context, state *RunState, stage Stage, step *StepState) error {
	ctx, span := p.startSpan(ctx, stage.ID())
	step.Start()
	start := time.Now()

	err := stage.Execute(ctx, state)
	if err != nil {
		step.Fail(err)
	} else {
		step.Complete()
		infrastructure.WithTrace(ctx, p.logger).InfoContext(ctx, "Stage completed",
			slog.String("stage", stage.ID()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	}

	p.record(ctx, span, stage.ID(), step.GetStatus(), time.Since(start), err)
	return err
}

// blockedBy returns why stage cannot run because of an unfinished dependency
func (p *Pipeline) blockedBy(state *RunState, stage Stage) string {
	for _, dep := range stage.GetDependencies() {
		depState := state.GetStep(dep)
		if depState == nil || depState.GetStatus() != StepStatusCompleted {
			return fmt.Sprintf("dependency %s not completed", dep)
		}
	}
	return ""
}

func (p *Pipeline) skip(ctx context.Context, stage Stage, step *StepState, reason string) {
	step.Skip(reason)
	p.logger.InfoContext(ctx, "Stage skipped",
		slog.String("stage", stage.ID()),
		slog.String("reason", reason))

	_, span := p.startSpan(ctx, stage.ID())
	p.record(ctx, span, stage.ID(), StepStatusSkipped, 0, nil)
}

func ids(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.ID()
	}
	return out
}

func (p *Pipeline) abort(state *RunState, remaining []Stage, reason string) {
	for _, stage := range remaining {
		if step := state.GetStep(stage.ID()); step != nil && step.GetStatus() == StepStatusPending {
			step.Skip(reason)
		}
	}
}

func (p *Pipeline) startSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	if p.telemetry == nil {
		return ctx, nil
	}
	return p.telemetry.StartStage(ctx, stage)
}

func (p *Pipeline) record(ctx context.Context, span trace.Span, stage string, status StepStatus, d time.Duration, err error) {
	if p.telemetry == nil || span == nil {
		return
	}
	p.telemetry.RecordStage(ctx, span, stage, status.Outcome(), d, err)
}

func (p *Pipeline) writeMetrics(ctx context.Context) {
	if p.telemetry == nil {
		return
	}
	if err := p.telemetry.WriteMetrics(); err != nil {
		p.logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
		return
	}
	if path := p.telemetry.MetricsFile(); path != "" {
		p.logger.DebugContext(ctx, "Metrics written", slog.String("path", path))
	}
}
