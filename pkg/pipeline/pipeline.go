// Package pipeline chains skills together into sequential workflows.
// Each step runs one action on one skill and feeds its result mapping into
// the next step, optionally rewritten by a mapper function. Execution is
// fail-fast: the first step that cannot be resolved, mapped or executed
// successfully aborts the run, and everything observed so far is reported
// in the Result envelope.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openclaw/go-skills/pkg/logger"
	"github.com/openclaw/go-skills/pkg/registry"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/openclaw/go-skills/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = telemetry.Tracer("skillctl.pipeline")

// Mapper rewrites the previous step's result mapping into the parameters
// for the next step. Returning an error aborts the pipeline at that step.
type Mapper func(skill.Params) (skill.Params, error)

// Step declares a single pipeline step. Exactly one of Skill (a direct
// handle) or SkillName (a registry lookup at execution time) must be set.
type Step struct {
	Skill     skill.Skill
	SkillName string
	Action    string
	Mapper    Mapper
}

func (s Step) validate() error {
	if s.Skill == nil && s.SkillName == "" {
		return errors.New("either a skill handle or a skill name must be provided")
	}
	if s.Skill != nil && s.SkillName != "" {
		return errors.New("provide either a skill handle or a skill name, not both")
	}
	if s.Action == "" {
		return errors.New("action must not be empty")
	}
	return nil
}

func (s Step) skillName() string {
	if s.SkillName != "" {
		return s.SkillName
	}
	if s.Skill != nil {
		return s.Skill.Name()
	}
	return "unknown"
}

// Pipeline is an ordered list of steps. Build one with New and AddStep,
// then run it with Execute. A Pipeline is not safe for concurrent
// mutation; execute from as many goroutines as you like once built.
type Pipeline struct {
	name     string
	registry *registry.Registry
	steps    []Step
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithName sets the pipeline name reported in result metadata.
func WithName(name string) Option {
	return func(p *Pipeline) {
		p.name = name
	}
}

// WithRegistry provides the registry used to resolve steps that reference
// skills by name.
func WithRegistry(reg *registry.Registry) Option {
	return func(p *Pipeline) {
		p.registry = reg
	}
}

// New creates an empty pipeline. Without WithName the pipeline is called
// "pipeline".
func New(opts ...Option) *Pipeline {
	p := &Pipeline{name: "pipeline"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Len returns the number of declared steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Steps returns a copy of the declared steps.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Add appends a step, rejecting malformed ones with an error. Use this
// when steps come from configuration rather than code.
func (p *Pipeline) Add(step Step) error {
	if err := step.validate(); err != nil {
		return errors.Wrap(err, "invalid pipeline step")
	}
	p.steps = append(p.steps, step)
	return nil
}

// AddStep appends a step and returns the pipeline for fluent chaining.
// It panics on a malformed step, so misdeclared pipelines fail loudly at
// construction instead of at execution time.
func (p *Pipeline) AddStep(step Step) *Pipeline {
	if err := p.Add(step); err != nil {
		panic(err)
	}
	return p
}

// ExecOption configures a single Execute call.
type ExecOption func(*execConfig)

type execConfig struct {
	context skill.Params
}

// WithContext supplies the shared context mapping handed to every step's
// skill input.
func WithContext(c skill.Params) ExecOption {
	return func(cfg *execConfig) {
		cfg.context = c
	}
}

// Execute runs the pipeline sequentially, starting from the initial
// parameters. It never returns a Go error; inspect Result.Success,
// Result.Error and Result.FailedStep instead. An empty pipeline succeeds
// immediately with a nil FinalResult.
func (p *Pipeline) Execute(ctx context.Context, initial skill.Params, opts ...ExecOption) *Result {
	var cfg execConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	runID := uuid.NewString()
	log := logger.G(ctx).WithFields(logrus.Fields{
		"pipeline": p.name,
		"run_id":   runID,
	})

	if len(p.steps) == 0 {
		log.Debug("pipeline has no steps, nothing to execute")
		return &Result{
			Success:    true,
			Steps:      []StepResult{},
			FailedStep: NoFailedStep,
			Metadata:   p.buildMetadata(runID, 0, nil),
		}
	}

	ctx, span := tracer.Start(
		ctx,
		"pipeline.execute",
		trace.WithAttributes(
			attribute.String("pipeline.name", p.name),
			attribute.String("pipeline.run_id", runID),
			attribute.Int("pipeline.step_count", len(p.steps)),
		),
	)
	defer span.End()

	log.WithField("step_count", len(p.steps)).Debug("executing pipeline")

	start := time.Now()
	stepResults := make([]StepResult, 0, len(p.steps))
	current := initial
	if current == nil {
		current = skill.Params{}
	}

	for i, step := range p.steps {
		resolved, err := p.resolveSkill(step)
		if err != nil {
			msg := fmt.Sprintf("step %d: failed to resolve skill: %s", i, err)
			return p.fail(span, log, runID, start, stepResults, i, msg)
		}

		mapped := current
		if step.Mapper != nil {
			mapped, err = applyMapper(step.Mapper, current)
			if err != nil {
				msg := fmt.Sprintf("step %d: mapper failed: %s", i, err)
				return p.fail(span, log, runID, start, stepResults, i, msg)
			}
		}

		stepCtx, stepSpan := tracer.Start(
			ctx,
			"pipeline.step",
			trace.WithAttributes(
				attribute.Int("step.index", i),
				attribute.String("step.skill", resolved.Name()),
				attribute.String("step.action", step.Action),
			),
		)
		output := skill.Execute(stepCtx, resolved, skill.Input{
			Action:     step.Action,
			Parameters: mapped,
			Context:    cfg.context,
		})
		if output.Success {
			stepSpan.SetStatus(codes.Ok, "")
		} else {
			stepSpan.SetStatus(codes.Error, output.Error)
		}
		stepSpan.End()

		stepResults = append(stepResults, StepResult{
			StepIndex: i,
			SkillName: resolved.Name(),
			Action:    step.Action,
			Output:    output,
		})

		if !output.Success {
			msg := fmt.Sprintf("step %d (%s/%s) failed: %s", i, resolved.Name(), step.Action, output.Error)
			return p.fail(span, log, runID, start, stepResults, i, msg)
		}

		current = output.Result
		if current == nil {
			current = skill.Params{}
		}
	}

	span.SetStatus(codes.Ok, "")
	log.Debug("pipeline execution completed")

	return &Result{
		Success:     true,
		Steps:       stepResults,
		FinalResult: current,
		FailedStep:  NoFailedStep,
		Metadata:    p.buildMetadata(runID, elapsedMS(start), stepResults),
	}
}

func (p *Pipeline) fail(span trace.Span, log *logrus.Entry, runID string, start time.Time, stepResults []StepResult, failedStep int, msg string) *Result {
	span.SetStatus(codes.Error, msg)
	span.RecordError(errors.New(msg))
	log.WithField("step", failedStep).Warn(msg)

	return &Result{
		Success:    false,
		Steps:      stepResults,
		Error:      msg,
		FailedStep: failedStep,
		Metadata:   p.buildMetadata(runID, elapsedMS(start), stepResults),
	}
}

func (p *Pipeline) resolveSkill(step Step) (skill.Skill, error) {
	if step.Skill != nil {
		return step.Skill, nil
	}
	if p.registry == nil {
		return nil, errors.Errorf("step references skill %q by name, but no registry was provided to the pipeline", step.SkillName)
	}
	return p.registry.Get(step.SkillName)
}

func applyMapper(m Mapper, params skill.Params) (mapped skill.Params, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return m(params)
}

func (p *Pipeline) buildMetadata(runID string, totalMS float64, stepResults []StepResult) Metadata {
	perStep := make([]StepTiming, 0, len(stepResults))
	for _, sr := range stepResults {
		perStep = append(perStep, StepTiming{
			StepIndex:       sr.StepIndex,
			SkillName:       sr.SkillName,
			Action:          sr.Action,
			ExecutionTimeMS: sr.Output.Metadata.ExecutionTimeMS,
		})
	}
	return Metadata{
		PipelineName:         p.name,
		RunID:                runID,
		TotalExecutionTimeMS: totalMS,
		StepCount:            len(p.steps),
		StepsExecuted:        len(stepResults),
		PerStepTimes:         perStep,
	}
}

// Describe reports the pipeline's declared shape without executing it.
// Name-referenced steps report the declared name, direct-handle steps the
// handle's own name.
func (p *Pipeline) Describe() Info {
	steps := make([]StepInfo, 0, len(p.steps))
	for i, step := range p.steps {
		steps = append(steps, StepInfo{
			Index:     i,
			Skill:     step.skillName(),
			Action:    step.Action,
			HasMapper: step.Mapper != nil,
		})
	}
	return Info{
		Name:      p.name,
		StepCount: len(p.steps),
		Steps:     steps,
	}
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
