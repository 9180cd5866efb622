package pipeline

import (
	"github.com/openclaw/go-skills/pkg/skill"
)

// NoFailedStep is the FailedStep value on a Result whose steps all
// succeeded. Step indices are zero-based, so 0 is a valid failure index.
const NoFailedStep = -1

// StepResult captures the full output envelope of a single executed step.
type StepResult struct {
	StepIndex int          `json:"step_index"`
	SkillName string       `json:"skill_name"`
	Action    string       `json:"action"`
	Output    skill.Output `json:"output"`
}

// StepTiming reports how long a single step's skill execution took.
type StepTiming struct {
	StepIndex       int     `json:"step_index"`
	SkillName       string  `json:"skill_name"`
	Action          string  `json:"action"`
	ExecutionTimeMS float64 `json:"execution_time_ms"`
}

// Metadata carries run-level accounting for a pipeline execution. StepCount
// is the number of declared steps, StepsExecuted the number that produced a
// StepResult before the run finished or aborted.
type Metadata struct {
	PipelineName         string       `json:"pipeline_name"`
	RunID                string       `json:"run_id"`
	TotalExecutionTimeMS float64      `json:"total_execution_time_ms"`
	StepCount            int          `json:"step_count"`
	StepsExecuted        int          `json:"steps_executed"`
	PerStepTimes         []StepTiming `json:"per_step_times"`
}

// Result is the aggregated outcome of a pipeline run. Execution never
// returns a Go error; failures are reported through Success, Error and
// FailedStep so callers always receive the per-step results and metadata
// accumulated up to the point of failure.
type Result struct {
	Success     bool         `json:"success"`
	Steps       []StepResult `json:"steps"`
	FinalResult skill.Params `json:"final_result"`
	Error       string       `json:"error,omitempty"`
	FailedStep  int          `json:"failed_step"`
	Metadata    Metadata     `json:"metadata"`
}

// Info describes a pipeline's shape for introspection.
type Info struct {
	Name      string     `json:"name"`
	StepCount int        `json:"step_count"`
	Steps     []StepInfo `json:"steps"`
}

// StepInfo describes a single declared step.
type StepInfo struct {
	Index     int    `json:"index"`
	Skill     string `json:"skill"`
	Action    string `json:"action"`
	HasMapper bool   `json:"has_mapper"`
}
