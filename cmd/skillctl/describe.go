package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/openclaw/go-skills/pkg/presenter"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/spf13/cobra"
)

type DescribeConfig struct {
	Schema bool
}

func NewDescribeConfig() *DescribeConfig {
	return &DescribeConfig{
		Schema: false,
	}
}

var describeCmd = &cobra.Command{
	Use:   "describe <skill>",
	Short: "Show a skill's metadata",
	Long: `Show a registered skill's name, version, description, and actions as JSON.

Examples:
  skillctl describe text-analyzer
  skillctl describe math --schema`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getDescribeConfigFromFlags(cmd)
		describeSkill(args[0], config)
	},
}

func init() {
	defaults := NewDescribeConfig()
	describeCmd.Flags().Bool("schema", defaults.Schema, "Include per-action parameter schemas")

	rootCmd.AddCommand(withTracing(describeCmd))
}

func getDescribeConfigFromFlags(cmd *cobra.Command) *DescribeConfig {
	config := NewDescribeConfig()
	if schema, err := cmd.Flags().GetBool("schema"); err == nil {
		config.Schema = schema
	}
	return config
}

func describeSkill(name string, config *DescribeConfig) {
	s, err := builtinRegistry().Get(name)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Skill '%s' is not registered", name))
		os.Exit(1)
	}

	info := skill.Describe(s)

	var payload any = info
	if config.Schema {
		described := struct {
			skill.Info
			Schemas map[string]*jsonschema.Schema `json:"schemas,omitempty"`
		}{Info: info}
		if provider, ok := s.(skill.SchemaProvider); ok {
			described.Schemas = provider.ActionSchemas()
		}
		payload = described
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		presenter.Error(err, "Failed to format skill metadata")
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
