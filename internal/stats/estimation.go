package stats

import (
	"github.com/bornholm/effortcalc/internal/model"
)

const (
	// OptimisticFactor derives the optimistic estimate from the most likely one
	OptimisticFactor = 0.9
	// PessimisticFactor derives the pessimistic estimate from the most likely one
	PessimisticFactor = 1.15
	// TotalLabel is the label of the grand total row
	TotalLabel = "Total"
)

// ProcessSummary is the three-point roll-up of a process, or of the grand total
type ProcessSummary struct {
	Process     string  `json:"process" yaml:"process"`
	MostLikely  float64 `json:"mostLikely" yaml:"mostLikely"`
	Optimistic  float64 `json:"optimistic" yaml:"optimistic"`
	Pessimistic float64 `json:"pessimistic" yaml:"pessimistic"`
	PERT        float64 `json:"pert" yaml:"pert"`
}

// RollUp derives the optimistic, pessimistic and PERT estimates from the most likely one
// PERT = (O + 4*M + P) / 6
func RollUp(label string, mostLikely float64) ProcessSummary {
	optimistic := mostLikely * OptimisticFactor
	pessimistic := mostLikely * PessimisticFactor
	return ProcessSummary{
		Process:     label,
		MostLikely:  mostLikely,
		Optimistic:  optimistic,
		Pessimistic: pessimistic,
		PERT:        (optimistic + 4*mostLikely + pessimistic) / 6,
	}
}

// InputEstimate is the computed effort of one process input
type InputEstimate struct {
	Process model.Process
	Input   string
	Key     model.EffortKey
	Record  model.EstimateRecord
	Stored  bool
	Effort  float64
	Err     error
}

// Valid reports whether the input contributed to its process total
func (e InputEstimate) Valid() bool {
	return e.Err == nil
}

// ProcessEstimate groups the input estimates of a process with their total
type ProcessEstimate struct {
	Process    model.Process
	MostLikely float64
	Inputs     []InputEstimate
}

// EstimateInput computes the effort of a single process input from the state
func EstimateInput(state *model.EstimationState, process model.Process, input string) (float64, error) {
	in, err := process.Input(input)
	if err != nil {
		return 0, err
	}
	record, _ := state.Record(process, input)
	return record.ComputeEffort(state.Multipliers.Get(in.Key))
}

// AggregateProcess computes every input of the process and sums the valid ones.
// Invalid inputs contribute 0 and keep their error.
func AggregateProcess(state *model.EstimationState, process model.Process) ProcessEstimate {
	result := ProcessEstimate{Process: process}

	for _, in := range process.Inputs() {
		record, stored := state.Record(process, in.Name)
		effort, err := record.ComputeEffort(state.Multipliers.Get(in.Key))

		result.Inputs = append(result.Inputs, InputEstimate{
			Process: process,
			Input:   in.Name,
			Key:     in.Key,
			Record:  record,
			Stored:  stored,
			Effort:  effort,
			Err:     err,
		})

		if err == nil {
			result.MostLikely += effort
		}
	}

	return result
}

// Summary is the full estimation report of a state
type Summary struct {
	Estimates []ProcessEstimate
	Processes []ProcessSummary
	Total     ProcessSummary
	Invalid   []InputEstimate
}

// Summarize recomputes every process of the taxonomy and rolls them up.
// The total row applies the PERT formula to the sum of the most likely estimates.
func Summarize(state *model.EstimationState) Summary {
	summary := Summary{}

	var total float64
	for _, process := range model.Processes() {
		estimate := AggregateProcess(state, process)
		summary.Estimates = append(summary.Estimates, estimate)
		summary.Processes = append(summary.Processes, RollUp(string(process), estimate.MostLikely))
		total += estimate.MostLikely

		for _, in := range estimate.Inputs {
			if !in.Valid() {
				summary.Invalid = append(summary.Invalid, in)
			}
		}
	}

	summary.Total = RollUp(TotalLabel, total)

	return summary
}

// Rows returns the process rows followed by the total row
func (s Summary) Rows() []ProcessSummary {
	rows := make([]ProcessSummary, 0, len(s.Processes)+1)
	rows = append(rows, s.Processes...)
	return append(rows, s.Total)
}
