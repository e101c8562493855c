package model

import "fmt"

// Process is a named delivery stage
type Process string

const (
	DataDiscovery   Process = "Data Discovery"
	DataModel       Process = "Data Model"
	BronzeLayer     Process = "Bronze Layer"
	SilverLayer     Process = "Silver Layer"
	MatchMergeLayer Process = "Match & Merge Layer"
	GoldLayer       Process = "Gold Layer"
)

// ProcessInput binds a task label of a process to the effort key it draws its multipliers from
type ProcessInput struct {
	Name string
	Key  EffortKey
}

type processDefinition struct {
	Process Process
	Inputs  []ProcessInput
}

var taxonomy = []processDefinition{
	{DataDiscovery, []ProcessInput{
		{"Business Discovery", BusinessProcesses},
		{"Source System Analysis", SourceSystemAnalysis},
		{"DQ Assessment", BusinessRules},
	}},
	{DataModel, []ProcessInput{
		{"Conceptual Model", ConceptualDataModel},
		{"Logical Model", LogicalDataModel},
	}},
	{BronzeLayer, []ProcessInput{
		{"Extract", Sources},
		{"Assemble", Load},
		{"Pipelines", Pipelines},
	}},
	{SilverLayer, []ProcessInput{
		{"Read", Read},
		{"DQ", DQ},
		{"Transform", Queries},
		{"Write", Write},
		{"Pipelines", Pipelines},
	}},
	{MatchMergeLayer, []ProcessInput{
		{"Match & Merge", Integrations},
		{"Pipelines", Pipelines},
	}},
	{GoldLayer, []ProcessInput{
		{"Read", Read},
		{"Transform", Queries},
		{"Write", Write},
		{"Pipelines", Pipelines},
		{"Security", Roles},
		{"Copy", Load},
		{"Views", Views},
	}},
}

// Processes returns the processes in delivery order
func Processes() []Process {
	processes := make([]Process, 0, len(taxonomy))
	for _, def := range taxonomy {
		processes = append(processes, def.Process)
	}
	return processes
}

// Inputs returns the ordered inputs of the process
func (p Process) Inputs() []ProcessInput {
	for _, def := range taxonomy {
		if def.Process == p {
			inputs := make([]ProcessInput, len(def.Inputs))
			copy(inputs, def.Inputs)
			return inputs
		}
	}
	return nil
}

// Valid reports whether the process is part of the taxonomy
func (p Process) Valid() bool {
	for _, def := range taxonomy {
		if def.Process == p {
			return true
		}
	}
	return false
}

// Input returns the input with the given name
func (p Process) Input(name string) (ProcessInput, error) {
	if !p.Valid() {
		return ProcessInput{}, fmt.Errorf("%w: '%s'", ErrUnknownProcess, p)
	}
	for _, in := range p.Inputs() {
		if in.Name == name {
			return in, nil
		}
	}
	return ProcessInput{}, fmt.Errorf("%w: '%s' in process '%s'", ErrUnknownInput, name, p)
}

// ParseProcess returns the process matching s
func ParseProcess(s string) (Process, error) {
	p := Process(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownProcess, s)
	}
	return p, nil
}
