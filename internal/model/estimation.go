package model

import (
	"fmt"
)

// Estimates holds the estimate records per process and input name
type Estimates map[Process]map[string]EstimateRecord

// Clone returns a deep copy of the estimates
func (e Estimates) Clone() Estimates {
	clone := make(Estimates, len(e))
	for process, records := range e {
		inner := make(map[string]EstimateRecord, len(records))
		for name, record := range records {
			inner[name] = record
		}
		clone[process] = inner
	}
	return clone
}

// EstimationState is the whole mutable state of an estimation session
type EstimationState struct {
	Technology  Technology
	ProjectType ProjectType
	Multipliers MultiplierTable
	Estimates   Estimates
	Breakdown   PhaseBreakdown
}

// NewEstimationState starts a new estimation: baseline multipliers overlaid
// with the default profile of the pair, no estimates and the default phase breakdown
func NewEstimationState(projectType ProjectType, technology Technology) (*EstimationState, error) {
	defaults, err := LoadDefaults(projectType, technology)
	if err != nil {
		return nil, err
	}

	multipliers := BaselineMultipliers()
	multipliers.ApplyDefaults(defaults)

	return &EstimationState{
		Technology:  technology,
		ProjectType: projectType,
		Multipliers: multipliers,
		Estimates:   make(Estimates),
		Breakdown:   DefaultPhaseBreakdown(),
	}, nil
}

// Record returns the record of a process input. A record that was never set
// is returned with its default values and false.
func (s *EstimationState) Record(process Process, input string) (EstimateRecord, bool) {
	if records, ok := s.Estimates[process]; ok {
		if record, ok := records[input]; ok {
			return record, true
		}
	}
	return NewEstimateRecord(), false
}

// SetEstimate validates the record values, computes the effort with the
// multipliers of the input's effort key and stores the record.
// The state is left unchanged on error.
func (s *EstimationState) SetEstimate(process Process, input string, totalCount, sPercent, mPercent, lPercent int, comments string) (EstimateRecord, error) {
	in, err := process.Input(input)
	if err != nil {
		return EstimateRecord{}, err
	}

	record := EstimateRecord{
		TotalCount: totalCount,
		SPercent:   sPercent,
		MPercent:   mPercent,
		LPercent:   lPercent,
		Comments:   comments,
	}

	effort, err := record.ComputeEffort(s.Multipliers.Get(in.Key))
	if err != nil {
		return EstimateRecord{}, fmt.Errorf("%s / %s: %w", process, input, err)
	}
	record.Effort = effort

	s.putRecord(process, input, record)

	return record, nil
}

// SetComments updates the free text of a record, creating it with defaults if needed
func (s *EstimationState) SetComments(process Process, input string, comments string) error {
	if _, err := process.Input(input); err != nil {
		return err
	}

	record, _ := s.Record(process, input)
	record.Comments = comments
	s.putRecord(process, input, record)

	return nil
}

func (s *EstimationState) putRecord(process Process, input string, record EstimateRecord) {
	if s.Estimates == nil {
		s.Estimates = make(Estimates)
	}
	if _, ok := s.Estimates[process]; !ok {
		s.Estimates[process] = make(map[string]EstimateRecord)
	}
	s.Estimates[process][input] = record
}

// SetMultiplier changes the hours of one size of an effort key
func (s *EstimationState) SetMultiplier(key EffortKey, size Size, hours float64) error {
	if s.Multipliers == nil {
		s.Multipliers = make(MultiplierTable)
	}
	return s.Multipliers.Set(key, size, hours)
}

// SelectProfile switches technology and project type and overlays the
// matching default profile onto the current multipliers
func (s *EstimationState) SelectProfile(projectType ProjectType, technology Technology) error {
	defaults, err := LoadDefaults(projectType, technology)
	if err != nil {
		return err
	}

	if s.Multipliers == nil {
		s.Multipliers = BaselineMultipliers()
	}
	s.Multipliers.ApplyDefaults(defaults)
	s.ProjectType = projectType
	s.Technology = technology

	return nil
}

// Recompute refreshes the stored effort of every valid record from the
// current multipliers. Invalid records are left untouched.
func (s *EstimationState) Recompute() {
	for process, records := range s.Estimates {
		for name, record := range records {
			in, err := process.Input(name)
			if err != nil {
				continue
			}
			effort, err := record.ComputeEffort(s.Multipliers.Get(in.Key))
			if err != nil {
				continue
			}
			record.Effort = effort
			records[name] = record
		}
	}
}

// Clone returns a deep copy of the state
func (s *EstimationState) Clone() *EstimationState {
	return &EstimationState{
		Technology:  s.Technology,
		ProjectType: s.ProjectType,
		Multipliers: s.Multipliers.Clone(),
		Estimates:   s.Estimates.Clone(),
		Breakdown:   s.Breakdown.Clone(),
	}
}
