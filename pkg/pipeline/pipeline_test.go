package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/openclaw/go-skills/pkg/registry"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upperSkill struct {
	skill.Meta
}

func newUpperSkill() *upperSkill {
	return &upperSkill{Meta: skill.NewMeta("upper", "1.0.0", "converts text to uppercase")}
}

func (s *upperSkill) Process(_ context.Context, action string, params skill.Params) (skill.Params, error) {
	if action != "transform" {
		return nil, errors.Errorf("unknown action: %s", action)
	}
	text, ok := params["text"].(string)
	if !ok {
		return nil, errors.New("missing required parameter: text")
	}
	return skill.Params{"text": strings.ToUpper(text)}, nil
}

type wordCountSkill struct {
	skill.Meta
}

func newWordCountSkill() *wordCountSkill {
	return &wordCountSkill{Meta: skill.NewMeta("word-count", "1.0.0", "counts words in text")}
}

func (s *wordCountSkill) Process(_ context.Context, action string, params skill.Params) (skill.Params, error) {
	if action != "count" {
		return nil, errors.Errorf("unknown action: %s", action)
	}
	text, ok := params["text"].(string)
	if !ok {
		return nil, errors.New("missing required parameter: text")
	}
	return skill.Params{"word_count": len(strings.Fields(text)), "text": text}, nil
}

type failingSkill struct {
	skill.Meta
}

func newFailingSkill() *failingSkill {
	return &failingSkill{Meta: skill.NewMeta("failing", "1.0.0", "always fails")}
}

func (s *failingSkill) Process(_ context.Context, _ string, _ skill.Params) (skill.Params, error) {
	return nil, errors.New("intentional failure")
}

type nilResultSkill struct {
	skill.Meta
}

func newNilResultSkill() *nilResultSkill {
	return &nilResultSkill{Meta: skill.NewMeta("nil-result", "1.0.0", "returns no result")}
}

func (s *nilResultSkill) Process(_ context.Context, _ string, _ skill.Params) (skill.Params, error) {
	return nil, nil
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.RegisterAll(newUpperSkill(), newWordCountSkill(), newFailingSkill()))
	return reg
}

func TestEmptyPipeline(t *testing.T) {
	p := New(WithName("empty"))

	assert.Equal(t, "empty", p.Name())
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Steps())
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "pipeline", New().Name())
}

func TestAddStepReturnsPipeline(t *testing.T) {
	p := New()
	got := p.AddStep(Step{Skill: newUpperSkill(), Action: "transform"})

	assert.Same(t, p, got)
	assert.Equal(t, 1, p.Len())
}

func TestFluentChaining(t *testing.T) {
	p := New().
		AddStep(Step{Skill: newUpperSkill(), Action: "transform"}).
		AddStep(Step{Skill: newWordCountSkill(), Action: "count"})

	assert.Equal(t, 2, p.Len())
}

func TestAddStepPanicsOnInvalid(t *testing.T) {
	tests := []struct {
		name string
		step Step
	}{
		{
			name: "no skill reference",
			step: Step{Action: "transform"},
		},
		{
			name: "both skill references",
			step: Step{Skill: newUpperSkill(), SkillName: "upper", Action: "transform"},
		},
		{
			name: "empty action",
			step: Step{Skill: newUpperSkill()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() {
				New().AddStep(tt.step)
			})
		})
	}
}

func TestAddReturnsErrorOnInvalid(t *testing.T) {
	p := New()

	err := p.Add(Step{Action: "transform"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill")
	assert.Equal(t, 0, p.Len())

	require.NoError(t, p.Add(Step{Skill: newUpperSkill(), Action: "transform"}))
	assert.Equal(t, 1, p.Len())
}

func TestStepsReturnsCopy(t *testing.T) {
	p := New().AddStep(Step{Skill: newUpperSkill(), Action: "transform"})

	steps := p.Steps()
	steps[0].Action = "mutated"

	assert.Equal(t, "transform", p.Steps()[0].Action)
}

func TestSingleStep(t *testing.T) {
	p := New().AddStep(Step{Skill: newUpperSkill(), Action: "transform"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello world"})

	require.True(t, res.Success)
	assert.Equal(t, "HELLO WORLD", res.FinalResult["text"])
	assert.Len(t, res.Steps, 1)
	assert.Equal(t, NoFailedStep, res.FailedStep)
	assert.Empty(t, res.Error)
}

func TestTwoSteps(t *testing.T) {
	p := New().
		AddStep(Step{Skill: newUpperSkill(), Action: "transform"}).
		AddStep(Step{Skill: newWordCountSkill(), Action: "count"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello world"})

	require.True(t, res.Success)
	assert.Equal(t, 2, res.FinalResult["word_count"])
	assert.Equal(t, "HELLO WORLD", res.FinalResult["text"])
	assert.Len(t, res.Steps, 2)
}

func TestEmptyPipelineExecution(t *testing.T) {
	p := New()

	res := p.Execute(context.Background(), skill.Params{"text": "ignored"})

	require.True(t, res.Success)
	assert.Nil(t, res.FinalResult)
	assert.Empty(t, res.Steps)
	assert.Equal(t, NoFailedStep, res.FailedStep)
	assert.Equal(t, 0, res.Metadata.StepCount)
	assert.Equal(t, 0, res.Metadata.StepsExecuted)
	assert.Empty(t, res.Metadata.PerStepTimes)
	assert.NotEmpty(t, res.Metadata.RunID)
}

func TestRegistryBasedStep(t *testing.T) {
	p := New(WithRegistry(newTestRegistry(t))).
		AddStep(Step{SkillName: "upper", Action: "transform"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello"})

	require.True(t, res.Success)
	assert.Equal(t, "HELLO", res.FinalResult["text"])
}

func TestMixedRegistryAndDirect(t *testing.T) {
	p := New(WithRegistry(newTestRegistry(t))).
		AddStep(Step{SkillName: "upper", Action: "transform"}).
		AddStep(Step{Skill: newWordCountSkill(), Action: "count"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello world"})

	require.True(t, res.Success)
	assert.Equal(t, 2, res.FinalResult["word_count"])
}

func TestRegistryMissingSkill(t *testing.T) {
	p := New(WithRegistry(newTestRegistry(t))).
		AddStep(Step{SkillName: "nonexistent", Action: "do"})

	res := p.Execute(context.Background(), skill.Params{})

	require.False(t, res.Success)
	assert.Equal(t, 0, res.FailedStep)
	assert.Contains(t, res.Error, "failed to resolve skill")
	assert.Contains(t, res.Error, "no skill registered")
	assert.Empty(t, res.Steps)
	assert.Equal(t, 0, res.Metadata.StepsExecuted)
}

func TestSkillNameWithoutRegistry(t *testing.T) {
	p := New().AddStep(Step{SkillName: "upper", Action: "transform"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello"})

	require.False(t, res.Success)
	assert.Equal(t, 0, res.FailedStep)
	assert.Contains(t, res.Error, "registry")
}

func TestMapperTransformsParameters(t *testing.T) {
	p := New().
		AddStep(Step{Skill: newWordCountSkill(), Action: "count"}).
		AddStep(Step{
			Skill:  newUpperSkill(),
			Action: "transform",
			Mapper: func(prev skill.Params) (skill.Params, error) {
				return skill.Params{"text": fmt.Sprintf("Words: %d", prev["word_count"])}, nil
			},
		})

	res := p.Execute(context.Background(), skill.Params{"text": "hello world foo"})

	require.True(t, res.Success)
	assert.Equal(t, "WORDS: 3", res.FinalResult["text"])
}

func TestMapperFailure(t *testing.T) {
	p := New().
		AddStep(Step{Skill: newUpperSkill(), Action: "transform"}).
		AddStep(Step{
			Skill:  newUpperSkill(),
			Action: "transform",
			Mapper: func(skill.Params) (skill.Params, error) {
				return nil, errors.New("mapper broke")
			},
		})

	res := p.Execute(context.Background(), skill.Params{"text": "hello"})

	require.False(t, res.Success)
	assert.Equal(t, 1, res.FailedStep)
	assert.Contains(t, res.Error, "mapper failed")
	assert.Contains(t, res.Error, "mapper broke")
	assert.Len(t, res.Steps, 1)
	assert.Equal(t, 1, res.Metadata.StepsExecuted)
}

func TestMapperPanicRecovered(t *testing.T) {
	p := New().AddStep(Step{
		Skill:  newUpperSkill(),
		Action: "transform",
		Mapper: func(skill.Params) (skill.Params, error) {
			panic("mapper exploded")
		},
	})

	res := p.Execute(context.Background(), skill.Params{"text": "hello"})

	require.False(t, res.Success)
	assert.Equal(t, 0, res.FailedStep)
	assert.Contains(t, res.Error, "mapper failed")
	assert.Contains(t, res.Error, "mapper exploded")
}

func TestFailFast(t *testing.T) {
	p := New().
		AddStep(Step{Skill: newUpperSkill(), Action: "transform"}).
		AddStep(Step{Skill: newFailingSkill(), Action: "anything"}).
		AddStep(Step{Skill: newUpperSkill(), Action: "transform"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello"})

	require.False(t, res.Success)
	assert.Equal(t, 1, res.FailedStep)
	require.Len(t, res.Steps, 2)
	assert.True(t, res.Steps[0].Output.Success)
	assert.False(t, res.Steps[1].Output.Success)
	assert.Contains(t, res.Error, "failing/anything")
	assert.Equal(t, 3, res.Metadata.StepCount)
	assert.Equal(t, 2, res.Metadata.StepsExecuted)
}

func TestMetadataTotalTime(t *testing.T) {
	p := New(WithName("timed")).
		AddStep(Step{Skill: newUpperSkill(), Action: "transform"}).
		AddStep(Step{Skill: newWordCountSkill(), Action: "count"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello world"})

	require.True(t, res.Success)
	assert.Equal(t, "timed", res.Metadata.PipelineName)
	assert.NotEmpty(t, res.Metadata.RunID)
	assert.GreaterOrEqual(t, res.Metadata.TotalExecutionTimeMS, 0.0)
	assert.Equal(t, 2, res.Metadata.StepCount)
	assert.Equal(t, 2, res.Metadata.StepsExecuted)
	assert.Len(t, res.Metadata.PerStepTimes, 2)
}

func TestMetadataPerStep(t *testing.T) {
	p := New().AddStep(Step{Skill: newUpperSkill(), Action: "transform"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello"})

	require.True(t, res.Success)
	require.Len(t, res.Metadata.PerStepTimes, 1)
	timing := res.Metadata.PerStepTimes[0]
	assert.Equal(t, 0, timing.StepIndex)
	assert.Equal(t, "upper", timing.SkillName)
	assert.Equal(t, "transform", timing.Action)
	assert.GreaterOrEqual(t, timing.ExecutionTimeMS, 0.0)
}

func TestMetadataOnFailure(t *testing.T) {
	p := New(WithName("fail-pipe")).AddStep(Step{Skill: newFailingSkill(), Action: "go"})

	res := p.Execute(context.Background(), skill.Params{})

	require.False(t, res.Success)
	assert.Equal(t, "fail-pipe", res.Metadata.PipelineName)
	assert.Equal(t, 1, res.Metadata.StepsExecuted)
}

func TestDescribe(t *testing.T) {
	p := New(WithName("my-pipeline")).
		AddStep(Step{Skill: newUpperSkill(), Action: "transform"}).
		AddStep(Step{
			Skill:  newWordCountSkill(),
			Action: "count",
			Mapper: func(prev skill.Params) (skill.Params, error) { return prev, nil },
		})

	info := p.Describe()

	assert.Equal(t, "my-pipeline", info.Name)
	assert.Equal(t, 2, info.StepCount)
	require.Len(t, info.Steps, 2)
	assert.Equal(t, 0, info.Steps[0].Index)
	assert.Equal(t, "upper", info.Steps[0].Skill)
	assert.Equal(t, "transform", info.Steps[0].Action)
	assert.False(t, info.Steps[0].HasMapper)
	assert.True(t, info.Steps[1].HasMapper)
}

func TestDescribeWithRegistryNames(t *testing.T) {
	p := New(WithRegistry(newTestRegistry(t)), WithName("reg-pipe")).
		AddStep(Step{SkillName: "upper", Action: "transform"})

	info := p.Describe()

	require.Len(t, info.Steps, 1)
	assert.Equal(t, "upper", info.Steps[0].Skill)
}

func TestNilInitialParameters(t *testing.T) {
	p := New().AddStep(Step{Skill: newUpperSkill(), Action: "transform"})

	res := p.Execute(context.Background(), nil)

	require.False(t, res.Success)
	assert.Equal(t, 0, res.FailedStep)
}

func TestStepWithNilResult(t *testing.T) {
	p := New().
		AddStep(Step{Skill: newNilResultSkill(), Action: "go"}).
		AddStep(Step{Skill: newNilResultSkill(), Action: "go"})

	res := p.Execute(context.Background(), skill.Params{})

	require.True(t, res.Success)
	assert.NotNil(t, res.FinalResult)
	assert.Empty(t, res.FinalResult)
}

func TestContextPassedToSteps(t *testing.T) {
	p := New().AddStep(Step{Skill: newUpperSkill(), Action: "transform"})

	res := p.Execute(context.Background(), skill.Params{"text": "hello"}, WithContext(skill.Params{"user": "test"}))

	assert.True(t, res.Success)
}
