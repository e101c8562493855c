package stats

import (
	"fmt"

	"github.com/bornholm/effortcalc/internal/model"
)

// Allocation is the distribution of an estimate across lifecycle phases
type Allocation struct {
	TotalEffort float64
	Hours       map[model.Phase]float64
}

// Allocate distributes a PERT estimate across the phases of the breakdown.
// The Develop share anchors the total: TotalEffort = PERT / (Develop / 100),
// then each phase gets TotalEffort * (phase / 100). An imbalanced breakdown is
// used as is.
func Allocate(pert float64, breakdown model.PhaseBreakdown) (Allocation, error) {
	develop := breakdown[model.PhaseDevelop]
	if develop == 0 {
		return Allocation{}, model.ErrDivisionByZero
	}

	total := pert / (float64(develop) / 100)

	hours := make(map[model.Phase]float64, len(model.Phases()))
	for _, phase := range model.Phases() {
		hours[phase] = total * (float64(breakdown[phase]) / 100)
	}

	return Allocation{
		TotalEffort: total,
		Hours:       hours,
	}, nil
}

// PhaseRow is the phase allocation of one summary row
type PhaseRow struct {
	Process string
	PERT    float64
	Allocation
}

// PhaseReport holds the phase allocation of every summary row.
// Warning carries a non-fatal ErrAllocationImbalance.
type PhaseReport struct {
	Rows    []PhaseRow
	Total   PhaseRow
	Warning error
}

// AllocatePhases allocates every process row and the total row of the summary
func AllocatePhases(summary Summary, breakdown model.PhaseBreakdown) (PhaseReport, error) {
	report := PhaseReport{
		Warning: breakdown.Check(),
	}

	for _, row := range summary.Processes {
		allocation, err := Allocate(row.PERT, breakdown)
		if err != nil {
			return PhaseReport{}, fmt.Errorf("failed to allocate '%s': %w", row.Process, err)
		}
		report.Rows = append(report.Rows, PhaseRow{Process: row.Process, PERT: row.PERT, Allocation: allocation})
	}

	allocation, err := Allocate(summary.Total.PERT, breakdown)
	if err != nil {
		return PhaseReport{}, fmt.Errorf("failed to allocate total: %w", err)
	}
	report.Total = PhaseRow{Process: summary.Total.Process, PERT: summary.Total.PERT, Allocation: allocation}

	return report, nil
}
