// Package document reads and writes the JSON configuration document that
// carries an estimation between sessions.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bornholm/effortcalc/internal/model"
)

// Document is the persisted form of an estimation state
type Document struct {
	Technology   model.Technology      `json:"Technology"`
	ProjectType  model.ProjectType     `json:"ProjectType"`
	EffortInputs model.MultiplierTable `json:"EffortInputs"`
	Estimates    model.Estimates       `json:"Estimates"`
}

// FromState builds the document of a state
func FromState(state *model.EstimationState) *Document {
	estimates := state.Estimates.Clone()
	if estimates == nil {
		estimates = make(model.Estimates)
	}
	return &Document{
		Technology:   state.Technology,
		ProjectType:  state.ProjectType,
		EffortInputs: state.Multipliers.Clone(),
		Estimates:    estimates,
	}
}

// Serialize encodes the state as an indented JSON document
func Serialize(state *model.EstimationState) ([]byte, error) {
	data, err := json.MarshalIndent(FromState(state), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// rawDocument keeps track of which keys are present in the imported data
type rawDocument struct {
	Technology   *string                               `json:"Technology"`
	ProjectType  *string                               `json:"ProjectType"`
	EffortInputs map[string]json.RawMessage            `json:"EffortInputs"`
	Estimates    map[string]map[string]json.RawMessage `json:"Estimates"`
}

// Deserialize decodes data and merges it onto a copy of current.
// Keys absent from the document keep the values of current:
//   - EffortInputs is overlaid key by key, and size by size
//   - Estimates, when present, replaces the current estimates; missing
//     record fields take the record defaults
//
// current is never modified. Any error wraps model.ErrMalformedDocument.
func Deserialize(data []byte, current *model.EstimationState) (*model.EstimationState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", model.ErrMalformedDocument)
	}

	var raw rawDocument
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
	}

	state := current.Clone()

	if raw.Technology != nil {
		technology, err := model.ParseTechnology(*raw.Technology)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
		}
		state.Technology = technology
	}

	if raw.ProjectType != nil {
		projectType, err := model.ParseProjectType(*raw.ProjectType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
		}
		state.ProjectType = projectType
	}

	if raw.EffortInputs != nil {
		if err := mergeEffortInputs(state.Multipliers, raw.EffortInputs); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
		}
	}

	if raw.Estimates != nil {
		estimates, err := decodeEstimates(raw.Estimates)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
		}
		state.Estimates = estimates
	}

	return state, nil
}

func mergeEffortInputs(table model.MultiplierTable, inputs map[string]json.RawMessage) error {
	for name, data := range inputs {
		key, err := model.ParseEffortKey(name)
		if err != nil {
			return err
		}

		multiplier := table.Get(key)
		if err := json.Unmarshal(data, &multiplier); err != nil {
			return fmt.Errorf("effort input '%s': %w", name, err)
		}
		if err := multiplier.Validate(); err != nil {
			return fmt.Errorf("effort input '%s': %w", name, err)
		}

		table[key] = multiplier
	}
	return nil
}

func decodeEstimates(raw map[string]map[string]json.RawMessage) (model.Estimates, error) {
	estimates := make(model.Estimates, len(raw))

	for processName, inputs := range raw {
		process, err := model.ParseProcess(processName)
		if err != nil {
			return nil, err
		}

		records := make(map[string]model.EstimateRecord, len(inputs))
		for inputName, data := range inputs {
			if _, err := process.Input(inputName); err != nil {
				return nil, err
			}

			record := model.NewEstimateRecord()
			if err := json.Unmarshal(data, &record); err != nil {
				return nil, fmt.Errorf("estimate '%s / %s': %w", processName, inputName, err)
			}
			records[inputName] = record
		}

		estimates[process] = records
	}

	return estimates, nil
}
