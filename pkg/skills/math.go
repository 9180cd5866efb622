package skills

import (
	"context"
	"math"

	"github.com/expr-lang/expr"
	"github.com/invopop/jsonschema"
	"github.com/montanaflynn/stats"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
)

// mathEnv is the evaluation environment for the evaluate action. Only
// these names are callable from expressions.
var mathEnv = map[string]any{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"log":   math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"abs":   math.Abs,
	"round": math.Round,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"pi":    math.Pi,
	"e":     math.E,
}

// unitEntry maps a unit symbol to its category and conversion factor
// relative to the category's base unit (meter, gram, second).
type unitEntry struct {
	category string
	factor   float64
}

var unitTable = map[string]unitEntry{
	"m":   {"length", 1},
	"km":  {"length", 1000},
	"cm":  {"length", 0.01},
	"mm":  {"length", 0.001},
	"mi":  {"length", 1609.344},
	"ft":  {"length", 0.3048},
	"in":  {"length", 0.0254},
	"kg":  {"weight", 1000},
	"g":   {"weight", 1},
	"mg":  {"weight", 0.001},
	"lb":  {"weight", 453.59237},
	"oz":  {"weight", 28.349523125},
	"s":   {"time", 1},
	"min": {"time", 60},
	"h":   {"time", 3600},
	"d":   {"time", 86400},
}

// Temperature conversions are non-linear and handled separately.
var temperatureUnits = map[string]bool{"C": true, "F": true, "K": true}

// Math evaluates expressions, converts units, and computes statistics.
//
// Actions:
//   - evaluate: evaluate a mathematical expression
//   - convert_units: convert between length, weight, time, and temperature units
//   - statistics: compute statistical measures over a list of numbers
type Math struct {
	skill.Meta
}

// MathEvaluateInput is the parameter struct for the evaluate action.
type MathEvaluateInput struct {
	Expression string `json:"expression" jsonschema:"description=The mathematical expression to evaluate"`
}

// MathConvertInput is the parameter struct for the convert_units action.
type MathConvertInput struct {
	Value    *float64 `json:"value" jsonschema:"description=The numeric value to convert"`
	FromUnit string   `json:"from_unit" jsonschema:"description=The unit to convert from"`
	ToUnit   string   `json:"to_unit" jsonschema:"description=The unit to convert to"`
}

// MathStatisticsInput is the parameter struct for the statistics action.
type MathStatisticsInput struct {
	Numbers   []float64 `json:"numbers" jsonschema:"description=The numbers to analyze"`
	Operation string    `json:"operation,omitempty" jsonschema:"description=A single statistic to compute instead of the full summary"`
}

// NewMath creates the math skill.
func NewMath() *Math {
	return &Math{
		Meta: skill.NewMeta("math", "1.0.0", "Evaluate math expressions, convert units, and compute statistics"),
	}
}

// ActionSchemas returns the parameter schema for each supported action.
func (s *Math) ActionSchemas() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"evaluate":      skill.GenerateSchema[MathEvaluateInput](),
		"convert_units": skill.GenerateSchema[MathConvertInput](),
		"statistics":    skill.GenerateSchema[MathStatisticsInput](),
	}
}

// Process runs one math action.
func (s *Math) Process(_ context.Context, action string, params skill.Params) (skill.Params, error) {
	switch action {
	case "evaluate":
		return s.evaluate(params)
	case "convert_units":
		return s.convertUnits(params)
	case "statistics":
		return s.statistics(params)
	default:
		return nil, errors.Errorf("unknown action: %s", action)
	}
}

func (s *Math) evaluate(params skill.Params) (skill.Params, error) {
	var input MathEvaluateInput
	if err := decodeParams(params, &input); err != nil {
		return nil, err
	}
	if input.Expression == "" {
		return nil, errors.New("missing required parameter: expression")
	}

	program, err := expr.Compile(input.Expression, expr.Env(mathEnv))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid expression: %s", input.Expression)
	}
	value, err := expr.Run(program, mathEnv)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid expression: %s", input.Expression)
	}

	result, err := toFloat(value)
	if err != nil {
		return nil, errors.Wrapf(err, "expression did not produce a number: %s", input.Expression)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil, errors.Errorf("expression result is not finite: %s", input.Expression)
	}

	return skill.Params{
		"expression": input.Expression,
		"result":     result,
	}, nil
}

func (s *Math) convertUnits(params skill.Params) (skill.Params, error) {
	var input MathConvertInput
	if err := decodeParams(params, &input); err != nil {
		return nil, err
	}
	if input.Value == nil {
		return nil, errors.New("missing required parameter: value")
	}
	if input.FromUnit == "" {
		return nil, errors.New("missing required parameter: from_unit")
	}
	if input.ToUnit == "" {
		return nil, errors.New("missing required parameter: to_unit")
	}

	value := *input.Value

	if temperatureUnits[input.FromUnit] && temperatureUnits[input.ToUnit] {
		return skill.Params{
			"value":     value,
			"from_unit": input.FromUnit,
			"to_unit":   input.ToUnit,
			"result":    round6(convertTemperature(value, input.FromUnit, input.ToUnit)),
		}, nil
	}

	from, ok := unitTable[input.FromUnit]
	if !ok {
		return nil, errors.Errorf("unknown unit: %s", input.FromUnit)
	}
	to, ok := unitTable[input.ToUnit]
	if !ok {
		return nil, errors.Errorf("unknown unit: %s", input.ToUnit)
	}
	if from.category != to.category {
		return nil, errors.Errorf("incompatible units: %s (%s) and %s (%s)",
			input.FromUnit, from.category, input.ToUnit, to.category)
	}

	return skill.Params{
		"value":     value,
		"from_unit": input.FromUnit,
		"to_unit":   input.ToUnit,
		"result":    round6(value * from.factor / to.factor),
	}, nil
}

func (s *Math) statistics(params skill.Params) (skill.Params, error) {
	var input MathStatisticsInput
	if err := decodeParams(params, &input); err != nil {
		return nil, err
	}
	if input.Numbers == nil {
		return nil, errors.New("missing required parameter: numbers")
	}
	if len(input.Numbers) == 0 {
		return nil, errors.New("parameter 'numbers' must be a non-empty list")
	}

	data := stats.Float64Data(input.Numbers)
	operation := input.Operation
	if operation == "" {
		operation = "summary"
	}

	if operation == "summary" {
		return s.summary(data)
	}

	var (
		result float64
		err    error
	)
	switch operation {
	case "mean":
		result, err = data.Mean()
	case "median":
		result, err = data.Median()
	case "stdev":
		if data.Len() >= 2 {
			result, err = data.StandardDeviationSample()
		}
	case "variance":
		if data.Len() >= 2 {
			result, err = data.SampleVariance()
		}
	case "min":
		result, err = data.Min()
	case "max":
		result, err = data.Max()
	case "sum":
		result, err = data.Sum()
	default:
		return nil, errors.Errorf("unknown operation: %s, supported: summary, max, mean, median, min, stdev, sum, variance", operation)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compute %s", operation)
	}

	return skill.Params{
		"numbers":   []float64(data),
		"count":     data.Len(),
		"operation": operation,
		"result":    result,
	}, nil
}

func (s *Math) summary(data stats.Float64Data) (skill.Params, error) {
	mean, err := data.Mean()
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute summary")
	}
	median, err := data.Median()
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute summary")
	}
	minimum, err := data.Min()
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute summary")
	}
	maximum, err := data.Max()
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute summary")
	}
	total, err := data.Sum()
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute summary")
	}

	stdev, variance := 0.0, 0.0
	if data.Len() >= 2 {
		stdev, err = data.StandardDeviationSample()
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute summary")
		}
		variance, err = data.SampleVariance()
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute summary")
		}
	}

	return skill.Params{
		"numbers":  []float64(data),
		"count":    data.Len(),
		"mean":     mean,
		"median":   median,
		"stdev":    round6(stdev),
		"variance": round6(variance),
		"min":      minimum,
		"max":      maximum,
		"sum":      total,
	}, nil
}

func convertTemperature(value float64, fromUnit, toUnit string) float64 {
	var celsius float64
	switch fromUnit {
	case "C":
		celsius = value
	case "F":
		celsius = (value - 32) * 5 / 9
	default: // K
		celsius = value - 273.15
	}

	switch toUnit {
	case "C":
		return celsius
	case "F":
		return celsius*9/5 + 32
	default: // K
		return celsius + 273.15
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, errors.Errorf("value of type %T is not numeric", v)
}
