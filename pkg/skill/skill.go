// Package skill defines the capability contract shared by every skill:
// a named, versioned unit of domain logic that accepts an action plus
// parameters and returns a result mapping. Execute wraps any conforming
// implementation with timing and failure-to-envelope translation so
// that callers always receive a uniform Output.
package skill

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Skill is the capability interface implemented by every skill. Process
// holds the domain logic for a named action and signals failure by
// returning an error; it must not build its own Output envelope. The
// remaining methods report static metadata, usually via an embedded
// Meta.
type Skill interface {
	Name() string
	Version() string
	Description() string
	Process(ctx context.Context, action string, params Params) (Params, error)
}

// DefaultVersion is assigned to skills constructed without an explicit
// version.
const DefaultVersion = "1.0.0"

// Meta carries a skill's static metadata. Embed it in a concrete skill
// so that only Process remains to be written.
type Meta struct {
	name        string
	version     string
	description string
}

// NewMeta builds skill metadata. An empty version defaults to
// DefaultVersion.
func NewMeta(name, version, description string) Meta {
	if version == "" {
		version = DefaultVersion
	}
	return Meta{name: name, version: version, description: description}
}

// Name returns the skill name.
func (m Meta) Name() string { return m.name }

// Version returns the skill version.
func (m Meta) Version() string { return m.version }

// Description returns the human-readable skill description.
func (m Meta) Description() string { return m.description }

// Execute invokes a skill's Process with timing and failure translation.
// A nil error from Process yields a success envelope carrying the result
// mapping; an error or a panic inside Process yields a failure envelope
// with the message as Error and a nil Result. No failure propagates past
// this call. Metadata always carries the skill name, version, and
// elapsed milliseconds.
func Execute(ctx context.Context, s Skill, input Input) (out Output) {
	start := time.Now()

	metadata := func() Metadata {
		return Metadata{
			Skill:           s.Name(),
			Version:         s.Version(),
			ExecutionTimeMS: durationMS(time.Since(start)),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			out = Output{
				Success:  false,
				Error:    fmt.Sprintf("panic: %v", r),
				Metadata: metadata(),
			}
		}
	}()

	result, err := s.Process(ctx, input.Action, input.Parameters)
	if err != nil {
		return Output{
			Success:  false,
			Error:    err.Error(),
			Metadata: metadata(),
		}
	}

	return Output{
		Success:  true,
		Result:   result,
		Metadata: metadata(),
	}
}

// Describe reports a skill's static metadata. Skills implementing
// SchemaProvider additionally list their action names, sorted.
func Describe(s Skill) Info {
	info := Info{
		Name:        s.Name(),
		Version:     s.Version(),
		Description: s.Description(),
	}

	if provider, ok := s.(SchemaProvider); ok {
		schemas := provider.ActionSchemas()
		actions := make([]string, 0, len(schemas))
		for action := range schemas {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		info.Actions = actions
	}

	return info
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
