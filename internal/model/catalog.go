package model

import "fmt"

// EffortKey identifies a unit-of-work category with its own per-size hour cost
type EffortKey string

const (
	BusinessProcesses    EffortKey = "BusinessProcesses"
	SourceSystemAnalysis EffortKey = "SourceSystemAnalysis"
	BusinessRules        EffortKey = "BusinessRules"
	ConceptualDataModel  EffortKey = "ConceptualDataModel"
	LogicalDataModel     EffortKey = "LogicalDataModel"
	Sources              EffortKey = "Sources"
	Read                 EffortKey = "Read"
	DQ                   EffortKey = "DQ"
	Queries              EffortKey = "Queries"
	Write                EffortKey = "Write"
	Integrations         EffortKey = "Integrations"
	Roles                EffortKey = "Roles"
	Load                 EffortKey = "Load"
	Pipelines            EffortKey = "Pipelines"
	Views                EffortKey = "Views"
	Repos                EffortKey = "Repos"
	EnvironmentSetup     EffortKey = "Environment Setup"
)

// EffortCategory describes an effort key
type EffortCategory struct {
	Key         EffortKey
	Description string
}

var effortCatalog = []EffortCategory{
	{BusinessProcesses, "Business process discovery workshops"},
	{SourceSystemAnalysis, "Analysis of a source system"},
	{BusinessRules, "Business and data quality rules assessment"},
	{ConceptualDataModel, "Conceptual data model entities"},
	{LogicalDataModel, "Logical data model entities"},
	{Sources, "Source extractions"},
	{Read, "Read operations over a layer"},
	{DQ, "Data quality checks"},
	{Queries, "Transformation queries"},
	{Write, "Write operations into a layer"},
	{Integrations, "Match and merge integrations"},
	{Roles, "Security roles and grants"},
	{Load, "Load and copy jobs"},
	{Pipelines, "Orchestration pipelines"},
	{Views, "Consumption views"},
	{Repos, "Code repositories"},
	{EnvironmentSetup, "Environment provisioning"},
}

// EffortKeys returns all effort keys in catalog order
func EffortKeys() []EffortKey {
	keys := make([]EffortKey, 0, len(effortCatalog))
	for _, c := range effortCatalog {
		keys = append(keys, c.Key)
	}
	return keys
}

// EffortCatalog returns the catalog entries in order
func EffortCatalog() []EffortCategory {
	catalog := make([]EffortCategory, len(effortCatalog))
	copy(catalog, effortCatalog)
	return catalog
}

// Describe returns the description of the key, or the key itself if unknown
func (k EffortKey) Describe() string {
	for _, c := range effortCatalog {
		if c.Key == k {
			return c.Description
		}
	}
	return string(k)
}

// Valid reports whether the key is part of the catalog
func (k EffortKey) Valid() bool {
	for _, c := range effortCatalog {
		if c.Key == k {
			return true
		}
	}
	return false
}

// ParseEffortKey returns the catalog key matching s
func ParseEffortKey(s string) (EffortKey, error) {
	k := EffortKey(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: effort key '%s'", ErrInvalidValue, s)
	}
	return k, nil
}
