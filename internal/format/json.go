package format

import (
	"encoding/json"
	"math"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/stats"
)

// JSONFormatter formats estimations as JSON with calculated values
type JSONFormatter struct {
	config *model.Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(config *model.Config) *JSONFormatter {
	return &JSONFormatter{config: config}
}

// Output represents the complete estimation report
type Output struct {
	Technology  string `json:"technology" yaml:"technology"`
	ProjectType string `json:"projectType" yaml:"projectType"`
	TimeUnit    string `json:"timeUnit" yaml:"timeUnit"`

	Processes []ProcessOutput        `json:"processes" yaml:"processes"`
	Summary   []stats.ProcessSummary `json:"summary" yaml:"summary"`
	Phases    PhaseOutput            `json:"phases" yaml:"phases"`
	Errors    []InputErrorOutput     `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ProcessOutput represents a process with its inputs
type ProcessOutput struct {
	Process    string        `json:"process" yaml:"process"`
	Inputs     []InputOutput `json:"inputs" yaml:"inputs"`
	MostLikely float64       `json:"mostLikely" yaml:"mostLikely"`
}

// InputOutput represents an input row with its computed effort
type InputOutput struct {
	Input      string  `json:"input" yaml:"input"`
	EffortKey  string  `json:"effortKey" yaml:"effortKey"`
	TotalCount int     `json:"totalCount" yaml:"totalCount"`
	SPercent   int     `json:"sPercent" yaml:"sPercent"`
	MPercent   int     `json:"mPercent" yaml:"mPercent"`
	LPercent   int     `json:"lPercent" yaml:"lPercent"`
	Effort     float64 `json:"effort" yaml:"effort"`
	Comments   string  `json:"comments,omitempty" yaml:"comments,omitempty"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// PhaseOutput represents the phase allocation table
type PhaseOutput struct {
	Breakdown map[string]int   `json:"breakdown" yaml:"breakdown"`
	Rows      []PhaseRowOutput `json:"rows,omitempty" yaml:"rows,omitempty"`
	Warning   string           `json:"warning,omitempty" yaml:"warning,omitempty"`
	Error     string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// PhaseRowOutput represents the phase allocation of a summary row
type PhaseRowOutput struct {
	Process     string             `json:"process" yaml:"process"`
	PERT        float64            `json:"pert" yaml:"pert"`
	TotalEffort float64            `json:"totalEffort" yaml:"totalEffort"`
	Phases      map[string]float64 `json:"phases" yaml:"phases"`
}

// InputErrorOutput represents an input excluded from its process total
type InputErrorOutput struct {
	Process string `json:"process" yaml:"process"`
	Input   string `json:"input" yaml:"input"`
	Error   string `json:"error" yaml:"error"`
}

// Format formats an estimation as JSON
func (f *JSONFormatter) Format(state *model.EstimationState) (string, error) {
	output := f.BuildOutput(state)
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// BuildOutput builds the output structure
func (f *JSONFormatter) BuildOutput(state *model.EstimationState) *Output {
	summary := stats.Summarize(state)
	roundUp := f.config.RoundUpEstimations

	processes := make([]ProcessOutput, 0, len(summary.Estimates))
	for _, estimate := range summary.Estimates {
		inputs := make([]InputOutput, 0, len(estimate.Inputs))
		for _, in := range estimate.Inputs {
			row := InputOutput{
				Input:      in.Input,
				EffortKey:  string(in.Key),
				TotalCount: in.Record.TotalCount,
				SPercent:   in.Record.SPercent,
				MPercent:   in.Record.MPercent,
				LPercent:   in.Record.LPercent,
				Effort:     roundFloat(in.Effort, roundUp),
				Comments:   in.Record.Comments,
			}
			if in.Err != nil {
				row.Error = in.Err.Error()
			}
			inputs = append(inputs, row)
		}
		processes = append(processes, ProcessOutput{
			Process:    string(estimate.Process),
			Inputs:     inputs,
			MostLikely: roundFloat(estimate.MostLikely, roundUp),
		})
	}

	rows := make([]stats.ProcessSummary, 0, len(summary.Processes)+1)
	for _, row := range summary.Rows() {
		rows = append(rows, stats.ProcessSummary{
			Process:     row.Process,
			MostLikely:  roundFloat(row.MostLikely, roundUp),
			Optimistic:  roundFloat(row.Optimistic, roundUp),
			Pessimistic: roundFloat(row.Pessimistic, roundUp),
			PERT:        roundFloat(row.PERT, roundUp),
		})
	}

	errs := make([]InputErrorOutput, 0, len(summary.Invalid))
	for _, in := range summary.Invalid {
		errs = append(errs, InputErrorOutput{
			Process: string(in.Process),
			Input:   in.Input,
			Error:   in.Err.Error(),
		})
	}

	return &Output{
		Technology:  string(state.Technology),
		ProjectType: string(state.ProjectType),
		TimeUnit:    f.config.TimeUnit.Acronym,
		Processes:   processes,
		Summary:     rows,
		Phases:      f.buildPhases(summary, state.Breakdown),
		Errors:      errs,
	}
}

func (f *JSONFormatter) buildPhases(summary stats.Summary, breakdown model.PhaseBreakdown) PhaseOutput {
	roundUp := f.config.RoundUpEstimations

	output := PhaseOutput{
		Breakdown: make(map[string]int, len(breakdown)),
	}
	for _, phase := range model.Phases() {
		output.Breakdown[string(phase)] = breakdown[phase]
	}

	report, err := stats.AllocatePhases(summary, breakdown)
	if err != nil {
		output.Error = err.Error()
		return output
	}
	if report.Warning != nil {
		output.Warning = report.Warning.Error()
	}

	for _, row := range append(report.Rows, report.Total) {
		phases := make(map[string]float64, len(row.Hours))
		for phase, hours := range row.Hours {
			phases[string(phase)] = roundFloat(hours, roundUp)
		}
		output.Rows = append(output.Rows, PhaseRowOutput{
			Process:     row.Process,
			PERT:        roundFloat(row.PERT, roundUp),
			TotalEffort: roundFloat(row.TotalEffort, roundUp),
			Phases:      phases,
		})
	}

	return output
}

// roundFloat rounds the value up if roundUp is true, otherwise returns the value
func roundFloat(value float64, roundUp bool) float64 {
	if roundUp {
		return math.Ceil(value)
	}
	return value
}
