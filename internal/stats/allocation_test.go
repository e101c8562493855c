package stats

import (
	"testing"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_DevelopAnchorsTotal(t *testing.T) {
	allocation, err := Allocate(RollUp("Silver Layer", 100).PERT, model.DefaultPhaseBreakdown())
	require.NoError(t, err)

	assert.InDelta(t, 252.0833, allocation.TotalEffort, 1e-4)
	assert.InDelta(t, 25.2083, allocation.Hours[model.PhaseDiscovery], 1e-4)
	assert.InDelta(t, 50.4167, allocation.Hours[model.PhaseDesign], 1e-4)
	assert.InDelta(t, 100.8333, allocation.Hours[model.PhaseDevelop], 1e-4)
	assert.InDelta(t, 50.4167, allocation.Hours[model.PhaseTest], 1e-4)
	assert.InDelta(t, 25.2083, allocation.Hours[model.PhaseDeploy], 1e-4)
}

func TestAllocate_DevelopHoursEqualPERT(t *testing.T) {
	breakdown := model.PhaseBreakdown{
		model.PhaseDiscovery: 5,
		model.PhaseDesign:    10,
		model.PhaseDevelop:   60,
		model.PhaseTest:      15,
		model.PhaseDeploy:    10,
	}

	allocation, err := Allocate(42, breakdown)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, allocation.Hours[model.PhaseDevelop], 1e-9)
	assert.InDelta(t, 70.0, allocation.TotalEffort, 1e-9)
}

func TestAllocate_DivisionByZero(t *testing.T) {
	breakdown := model.DefaultPhaseBreakdown()
	breakdown[model.PhaseDevelop] = 0

	_, err := Allocate(100, breakdown)
	assert.ErrorIs(t, err, model.ErrDivisionByZero)
}

func TestAllocatePhases_ImbalanceIsAWarning(t *testing.T) {
	breakdown := model.DefaultPhaseBreakdown()
	breakdown[model.PhaseTest] = 30

	summary := Summary{
		Processes: []ProcessSummary{RollUp("Silver Layer", 100)},
		Total:     RollUp(TotalLabel, 100),
	}

	report, err := AllocatePhases(summary, breakdown)
	require.NoError(t, err)
	assert.ErrorIs(t, report.Warning, model.ErrAllocationImbalance)

	require.Len(t, report.Rows, 1)
	assert.InDelta(t, 252.0833, report.Rows[0].TotalEffort, 1e-4)
	assert.InDelta(t, 75.625, report.Rows[0].Hours[model.PhaseTest], 1e-4)
	assert.Equal(t, TotalLabel, report.Total.Process)
}

func TestAllocatePhases_DivisionByZero(t *testing.T) {
	breakdown := model.DefaultPhaseBreakdown()
	breakdown[model.PhaseDevelop] = 0

	summary := Summary{
		Processes: []ProcessSummary{RollUp("Gold Layer", 10)},
		Total:     RollUp(TotalLabel, 10),
	}

	_, err := AllocatePhases(summary, breakdown)
	assert.ErrorIs(t, err, model.ErrDivisionByZero)
}

func TestAllocatePhases_FromState(t *testing.T) {
	state, err := model.NewEstimationState(model.ProjectTypeNew, model.Snowflake)
	require.NoError(t, err)
	_, err = state.SetEstimate(model.SilverLayer, "Transform", 10, 40, 30, 30, "")
	require.NoError(t, err)

	report, err := AllocatePhases(Summarize(state), state.Breakdown)
	require.NoError(t, err)
	assert.NoError(t, report.Warning)
	require.Len(t, report.Rows, len(model.Processes()))

	pert := RollUp(TotalLabel, 54).PERT
	assert.InDelta(t, pert, report.Total.Hours[model.PhaseDevelop], 1e-9)
	assert.InDelta(t, pert/0.4, report.Total.TotalEffort, 1e-9)
}
