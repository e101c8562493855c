package model

import (
	"fmt"
	"strings"
)

// ProjectType is either a new build or an upgrade of an existing platform
type ProjectType string

const (
	ProjectTypeNew     ProjectType = "New"
	ProjectTypeUpgrade ProjectType = "Upgrade"
)

// Technology is the target data platform
type Technology string

const (
	Snowflake        Technology = "Snowflake"
	Databricks       Technology = "Databricks"
	MDP              Technology = "MDP"
	PoweredByExcelV2 Technology = "Powered By Excel(EV2)"
)

const (
	DefaultTechnology  = Snowflake
	DefaultProjectType = ProjectTypeNew
)

// Technologies returns the supported technologies
func Technologies() []Technology {
	return []Technology{Snowflake, Databricks, MDP, PoweredByExcelV2}
}

// ProjectTypes returns the supported project types
func ProjectTypes() []ProjectType {
	return []ProjectType{ProjectTypeNew, ProjectTypeUpgrade}
}

// ParseTechnology matches s against the supported technologies, case insensitive
func ParseTechnology(s string) (Technology, error) {
	for _, t := range Technologies() {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: technology '%s'", ErrUnknownProfile, s)
}

// ParseProjectType matches s against the supported project types, case insensitive
func ParseProjectType(s string) (ProjectType, error) {
	for _, pt := range ProjectTypes() {
		if strings.EqualFold(string(pt), strings.TrimSpace(s)) {
			return pt, nil
		}
	}
	return "", fmt.Errorf("%w: project type '%s'", ErrUnknownProfile, s)
}

// uniformProfile sets every catalog key to base, then applies the overrides
func uniformProfile(base SizeMultiplier, overrides MultiplierTable) MultiplierTable {
	table := make(MultiplierTable, len(effortCatalog))
	for _, key := range EffortKeys() {
		table[key] = base
	}
	table.ApplyDefaults(overrides)
	return table
}

// defaultProfiles holds the built-in multipliers per project type and technology.
// Upgrade profiles are sparse and only cover the keys an upgrade changes.
var defaultProfiles = map[ProjectType]map[Technology]MultiplierTable{
	ProjectTypeNew: {
		Snowflake: uniformProfile(SizeMultiplier{3, 5, 9}, nil),
		MDP: uniformProfile(SizeMultiplier{13, 5, 9}, MultiplierTable{
			BusinessRules: {3, 15, 9},
			Sources:       {13, 15, 9},
			Read:          {13, 15, 9},
		}),
		Databricks: uniformProfile(SizeMultiplier{23, 5, 9}, MultiplierTable{
			BusinessRules: {3, 15, 9},
			Sources:       {23, 15, 9},
			Read:          {23, 15, 9},
		}),
		PoweredByExcelV2: uniformProfile(SizeMultiplier{23, 5, 9}, MultiplierTable{
			BusinessRules: {3, 15, 9},
			Sources:       {23, 15, 9},
			Read:          {23, 15, 9},
		}),
	},
	ProjectTypeUpgrade: {
		Snowflake: {
			Sources: {2, 4, 8},
			Queries: {2, 5, 8},
		},
		MDP: {
			Sources: {3, 5, 9},
			Queries: {2, 5, 9},
		},
		Databricks: {
			Sources: {3, 5, 8},
			Queries: {2, 4, 6},
		},
		PoweredByExcelV2: {
			Sources: {3, 5, 8},
			Queries: {2, 4, 6},
		},
	},
}

// LoadDefaults returns the built-in profile of the (projectType, technology) pair.
// When keys are given, only those keys are returned and each of them must be
// defined by the profile.
func LoadDefaults(projectType ProjectType, technology Technology, keys ...EffortKey) (MultiplierTable, error) {
	byTech, ok := defaultProfiles[projectType]
	if !ok {
		return nil, fmt.Errorf("%w: project type '%s'", ErrUnknownProfile, projectType)
	}
	profile, ok := byTech[technology]
	if !ok {
		return nil, fmt.Errorf("%w: technology '%s'", ErrUnknownProfile, technology)
	}

	if len(keys) == 0 {
		return profile.Clone(), nil
	}

	subset := make(MultiplierTable, len(keys))
	for _, key := range keys {
		m, ok := profile[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s does not define '%s'", ErrUnknownProfile, projectType, technology, key)
		}
		subset[key] = m
	}
	return subset, nil
}
