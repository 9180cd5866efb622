package pipeline

import (
	"os"

	"github.com/openclaw/go-skills/pkg/registry"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Definition is the YAML representation of a pipeline. Steps reference
// skills by registry name only; mappers cannot be expressed in a file.
type Definition struct {
	Name  string           `yaml:"name"`
	Steps []StepDefinition `yaml:"steps"`
}

// StepDefinition is one step of a YAML pipeline definition.
type StepDefinition struct {
	Skill  string `yaml:"skill"`
	Action string `yaml:"action"`
}

// LoadDefinition reads and parses a pipeline definition file.
func LoadDefinition(path string) (*Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read pipeline definition")
	}

	var def Definition
	if err := yaml.Unmarshal(content, &def); err != nil {
		return nil, errors.Wrap(err, "failed to parse pipeline definition")
	}
	return &def, nil
}

// Build constructs an executable pipeline from the definition. All steps
// resolve through the given registry at execution time.
func (d *Definition) Build(reg *registry.Registry) (*Pipeline, error) {
	if reg == nil {
		return nil, errors.New("a registry is required to build a pipeline from a definition")
	}

	opts := []Option{WithRegistry(reg)}
	if d.Name != "" {
		opts = append(opts, WithName(d.Name))
	}

	p := New(opts...)
	for i, sd := range d.Steps {
		step := Step{SkillName: sd.Skill, Action: sd.Action}
		if err := p.Add(step); err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
	}
	return p, nil
}
