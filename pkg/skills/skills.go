// Package skills provides the built-in skills that ship with the
// framework: text analysis, math, web fetching, and web scraping. Each
// skill decodes its parameter mapping into a typed input struct and
// publishes per-action JSON schemas for introspection.
package skills

import (
	"github.com/mitchellh/mapstructure"
	"github.com/openclaw/go-skills/pkg/registry"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
)

// RegisterBuiltins registers one instance of every built-in skill with
// the given registry.
func RegisterBuiltins(reg *registry.Registry) error {
	return reg.RegisterAll(
		NewTextAnalyzer(),
		NewMath(),
		NewWebFetch(),
		NewWebScraper(),
	)
}

// decodeParams maps a parameter mapping onto a typed input struct.
// Decoding is weakly typed so that string and numeric parameter values
// coming from CLI flags or YAML coerce into the declared field types.
func decodeParams(params skill.Params, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to build parameter decoder")
	}
	if err := decoder.Decode(map[string]any(params)); err != nil {
		return errors.Wrap(err, "invalid parameters")
	}
	return nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
