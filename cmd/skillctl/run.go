package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openclaw/go-skills/pkg/presenter"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type RunConfig struct {
	Params []string
	JSON   string
}

func NewRunConfig() *RunConfig {
	return &RunConfig{
		Params: nil,
		JSON:   "",
	}
}

var runCmd = &cobra.Command{
	Use:   "run <skill> <action>",
	Short: "Execute a single skill action",
	Long: `Execute one action of a registered skill and print the output envelope as JSON.

Parameters are supplied as repeated --param key=value pairs (values are parsed
as JSON when possible, so numbers, bools, and lists survive the command line)
or as one --json document.

Examples:
  skillctl run text-analyzer text_stats --param text="Hello world."
  skillctl run math evaluate --param expression="2 + 3 * 4"
  skillctl run math statistics --json '{"numbers": [1, 2, 3], "operation": "mean"}'`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := getRunConfigFromFlags(cmd)
		runSkillAction(cmd.Context(), args[0], args[1], config)
	},
}

func init() {
	defaults := NewRunConfig()
	runCmd.Flags().StringArray("param", defaults.Params, "Skill parameter as key=value (repeatable)")
	runCmd.Flags().String("json", defaults.JSON, "Skill parameters as a JSON object")

	rootCmd.AddCommand(withTracing(runCmd))
}

func getRunConfigFromFlags(cmd *cobra.Command) *RunConfig {
	config := NewRunConfig()
	if params, err := cmd.Flags().GetStringArray("param"); err == nil {
		config.Params = params
	}
	if raw, err := cmd.Flags().GetString("json"); err == nil {
		config.JSON = raw
	}
	return config
}

func runSkillAction(ctx context.Context, name, action string, config *RunConfig) {
	s, err := builtinRegistry().Get(name)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Skill '%s' is not registered", name))
		os.Exit(1)
	}

	params, err := buildParams(config.Params, config.JSON)
	if err != nil {
		presenter.Error(err, "Invalid parameters")
		os.Exit(1)
	}

	output := skill.Execute(ctx, s, skill.Input{Action: action, Parameters: params})

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		presenter.Error(err, "Failed to format skill output")
		os.Exit(1)
	}
	fmt.Println(string(encoded))

	if !output.Success {
		presenter.Error(errors.New(output.Error), fmt.Sprintf("Skill '%s' action '%s' failed", name, action))
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("%s/%s completed in %.2fms", name, action, output.Metadata.ExecutionTimeMS))
}

// buildParams merges an optional --json document with repeated
// --param key=value pairs; pairs win on key collisions.
func buildParams(pairs []string, rawJSON string) (skill.Params, error) {
	params := skill.Params{}
	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &params); err != nil {
			return nil, errors.Wrap(err, "failed to parse --json parameters")
		}
	}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Errorf("invalid --param %q, expected key=value", pair)
		}
		params[key] = parseParamValue(value)
	}
	return params, nil
}

// parseParamValue interprets a flag value as JSON when possible;
// anything that does not parse stays a plain string.
func parseParamValue(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}
