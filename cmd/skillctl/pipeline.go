package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openclaw/go-skills/pkg/pipeline"
	"github.com/openclaw/go-skills/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type PipelineRunConfig struct {
	File   string
	Params []string
	JSON   string
}

func NewPipelineRunConfig() *PipelineRunConfig {
	return &PipelineRunConfig{
		File:   "",
		Params: nil,
		JSON:   "",
	}
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run skill pipelines",
	Long:  `Build and execute sequential skill pipelines from definition files.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a pipeline definition file",
	Long: `Load a YAML pipeline definition, build it against the registered skills,
and execute it with the given initial parameters. The definition lists steps
by skill name and action:

  name: analyze
  steps:
    - skill: web-fetch
      action: extract_text
    - skill: text-analyzer
      action: text_stats

Examples:
  skillctl pipeline run -f pipeline.yaml --param url=https://example.com
  skillctl pipeline run -f pipeline.yaml --json '{"text": "Hello world."}'`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getPipelineRunConfigFromFlags(cmd)
		runPipeline(cmd.Context(), config)
	},
}

func init() {
	defaults := NewPipelineRunConfig()
	pipelineRunCmd.Flags().StringP("file", "f", defaults.File, "Path to the pipeline definition YAML")
	pipelineRunCmd.Flags().StringArray("param", defaults.Params, "Initial parameter as key=value (repeatable)")
	pipelineRunCmd.Flags().String("json", defaults.JSON, "Initial parameters as a JSON object")
	pipelineRunCmd.MarkFlagRequired("file")

	pipelineCmd.AddCommand(withTracing(pipelineRunCmd))
	rootCmd.AddCommand(pipelineCmd)
}

func getPipelineRunConfigFromFlags(cmd *cobra.Command) *PipelineRunConfig {
	config := NewPipelineRunConfig()
	if file, err := cmd.Flags().GetString("file"); err == nil {
		config.File = file
	}
	if params, err := cmd.Flags().GetStringArray("param"); err == nil {
		config.Params = params
	}
	if raw, err := cmd.Flags().GetString("json"); err == nil {
		config.JSON = raw
	}
	return config
}

func runPipeline(ctx context.Context, config *PipelineRunConfig) {
	def, err := pipeline.LoadDefinition(config.File)
	if err != nil {
		presenter.Error(err, "Failed to load pipeline definition")
		os.Exit(1)
	}

	p, err := def.Build(builtinRegistry())
	if err != nil {
		presenter.Error(err, "Failed to build pipeline")
		os.Exit(1)
	}

	initial, err := buildParams(config.Params, config.JSON)
	if err != nil {
		presenter.Error(err, "Invalid parameters")
		os.Exit(1)
	}

	result := p.Execute(ctx, initial)

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		presenter.Error(err, "Failed to format pipeline result")
		os.Exit(1)
	}
	fmt.Println(string(encoded))

	if !result.Success {
		presenter.Error(errors.New(result.Error), fmt.Sprintf("Pipeline '%s' failed at step %d", p.Name(), result.FailedStep))
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Pipeline '%s' completed %d step(s) in %.2fms",
		p.Name(), result.Metadata.StepsExecuted, result.Metadata.TotalExecutionTimeMS))
}
