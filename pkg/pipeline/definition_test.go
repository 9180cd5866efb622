package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefinition(t *testing.T) {
	path := writeDefinition(t, `name: analysis
steps:
  - skill: upper
    action: transform
  - skill: word-count
    action: count
`)

	def, err := LoadDefinition(path)
	require.NoError(t, err)

	assert.Equal(t, "analysis", def.Name)
	require.Len(t, def.Steps, 2)
	assert.Equal(t, "upper", def.Steps[0].Skill)
	assert.Equal(t, "transform", def.Steps[0].Action)
	assert.Equal(t, "word-count", def.Steps[1].Skill)
}

func TestLoadDefinitionMissingFile(t *testing.T) {
	_, err := LoadDefinition(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadDefinitionInvalidYAML(t *testing.T) {
	path := writeDefinition(t, "name: [unterminated")

	_, err := LoadDefinition(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestDefinitionBuild(t *testing.T) {
	def := &Definition{
		Name: "analysis",
		Steps: []StepDefinition{
			{Skill: "upper", Action: "transform"},
			{Skill: "word-count", Action: "count"},
		},
	}

	p, err := def.Build(newTestRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, "analysis", p.Name())
	assert.Equal(t, 2, p.Len())

	res := p.Execute(context.Background(), skill.Params{"text": "hello world"})
	require.True(t, res.Success)
	assert.Equal(t, 2, res.FinalResult["word_count"])
	assert.Equal(t, "HELLO WORLD", res.FinalResult["text"])
}

func TestDefinitionBuildDefaultName(t *testing.T) {
	def := &Definition{
		Steps: []StepDefinition{{Skill: "upper", Action: "transform"}},
	}

	p, err := def.Build(newTestRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, "pipeline", p.Name())
}

func TestDefinitionBuildRequiresRegistry(t *testing.T) {
	def := &Definition{Steps: []StepDefinition{{Skill: "upper", Action: "transform"}}}

	_, err := def.Build(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry")
}

func TestDefinitionBuildInvalidStep(t *testing.T) {
	def := &Definition{
		Steps: []StepDefinition{{Skill: "upper"}},
	}

	_, err := def.Build(newTestRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0")
}
