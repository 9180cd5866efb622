package skill

// Params is the uniform parameter mapping passed into and out of skills.
// Values are JSON-like: strings, numbers, bools, nil, nested maps, and
// slices.
type Params map[string]any

// Input carries a single skill invocation: the action to perform, its
// parameters, and an optional shared context mapping supplied by the
// caller. Inputs are built per call and never mutated.
type Input struct {
	Action     string `json:"action"`
	Parameters Params `json:"parameters,omitempty"`
	Context    Params `json:"context,omitempty"`
}

// Output is the uniform result envelope produced by Execute. Exactly one
// of (Success true, Result set) or (Success false, Error non-empty,
// Result nil) holds.
type Output struct {
	Success  bool     `json:"success"`
	Result   Params   `json:"result,omitempty"`
	Error    string   `json:"error,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Metadata records which skill produced an output and how long the
// invocation took.
type Metadata struct {
	Skill           string  `json:"skill"`
	Version         string  `json:"version"`
	ExecutionTimeMS float64 `json:"execution_time_ms"`
}

// Info is the static description of a skill as reported by Describe.
// Actions is populated only for skills that declare action schemas.
type Info struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions,omitempty"`
}
