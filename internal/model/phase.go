package model

import (
	"fmt"
	"strings"
)

// Phase is a software delivery lifecycle phase
type Phase string

const (
	PhaseDiscovery Phase = "Discovery"
	PhaseDesign    Phase = "Design"
	PhaseDevelop   Phase = "Develop"
	PhaseTest      Phase = "Test"
	PhaseDeploy    Phase = "Deploy"
)

// Phases returns the phases in lifecycle order
func Phases() []Phase {
	return []Phase{PhaseDiscovery, PhaseDesign, PhaseDevelop, PhaseTest, PhaseDeploy}
}

// ParsePhase matches s against the lifecycle phases, case insensitive
func ParsePhase(s string) (Phase, error) {
	for _, p := range Phases() {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: phase '%s'", ErrInvalidValue, s)
}

// PhaseBreakdown maps each phase to its share of the total effort, in percent
type PhaseBreakdown map[Phase]int

// DefaultPhaseBreakdown returns the 10/20/40/20/10 breakdown
func DefaultPhaseBreakdown() PhaseBreakdown {
	return PhaseBreakdown{
		PhaseDiscovery: 10,
		PhaseDesign:    20,
		PhaseDevelop:   40,
		PhaseTest:      20,
		PhaseDeploy:    10,
	}
}

// Set changes the percentage of a phase
func (b PhaseBreakdown) Set(phase Phase, percent int) error {
	if _, err := ParsePhase(string(phase)); err != nil {
		return err
	}
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %s must be within [0, 100], got %d", ErrInvalidValue, phase, percent)
	}
	b[phase] = percent
	return nil
}

// Sum returns the sum of all phase percentages
func (b PhaseBreakdown) Sum() int {
	sum := 0
	for _, p := range Phases() {
		sum += b[p]
	}
	return sum
}

// Check returns an ErrAllocationImbalance warning when the percentages do not add up to 100
func (b PhaseBreakdown) Check() error {
	if sum := b.Sum(); sum != 100 {
		return fmt.Errorf("%w: the total allocation is %d%%", ErrAllocationImbalance, sum)
	}
	return nil
}

// Clone returns a copy of the breakdown
func (b PhaseBreakdown) Clone() PhaseBreakdown {
	clone := make(PhaseBreakdown, len(b))
	for p, v := range b {
		clone[p] = v
	}
	return clone
}
