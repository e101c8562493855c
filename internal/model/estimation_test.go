package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnowflakeState(t *testing.T) *EstimationState {
	t.Helper()
	state, err := NewEstimationState(ProjectTypeNew, Snowflake)
	require.NoError(t, err)
	return state
}

func TestComputeEffort_WeightedHours(t *testing.T) {
	record := EstimateRecord{TotalCount: 10, SPercent: 40, MPercent: 30, LPercent: 30}

	effort, err := record.ComputeEffort(SizeMultiplier{Small: 3, Medium: 5, Large: 9})
	require.NoError(t, err)
	// 4*3 + 3*5 + 3*9
	assert.InDelta(t, 54.0, effort, 1e-9)
}

func TestComputeEffort_FractionalCounts(t *testing.T) {
	record := EstimateRecord{TotalCount: 1, SPercent: 40, MPercent: 30, LPercent: 30}

	effort, err := record.ComputeEffort(SizeMultiplier{Small: 3, Medium: 5, Large: 9})
	require.NoError(t, err)
	assert.InDelta(t, 5.4, effort, 1e-9)
}

func TestComputeEffort_LinearInTotalCount(t *testing.T) {
	m := SizeMultiplier{Small: 1.5, Medium: 4, Large: 10}

	single, err := EstimateRecord{TotalCount: 7, SPercent: 20, MPercent: 50, LPercent: 30}.ComputeEffort(m)
	require.NoError(t, err)
	double, err := EstimateRecord{TotalCount: 14, SPercent: 20, MPercent: 50, LPercent: 30}.ComputeEffort(m)
	require.NoError(t, err)

	assert.InDelta(t, 2*single, double, 1e-9)
}

func TestComputeEffort_ZeroTotal(t *testing.T) {
	effort, err := NewEstimateRecord().ComputeEffort(SizeMultiplier{Small: 3, Medium: 5, Large: 9})
	require.NoError(t, err)
	assert.Zero(t, effort)
}

func TestComputeEffort_PercentageMismatch(t *testing.T) {
	record := EstimateRecord{TotalCount: 10, SPercent: 50, MPercent: 50, LPercent: 10}

	_, err := record.ComputeEffort(SizeMultiplier{Small: 1, Medium: 2, Large: 3})
	assert.ErrorIs(t, err, ErrPercentageMismatch)
}

func TestEstimateRecord_ValidateRanges(t *testing.T) {
	assert.ErrorIs(t, EstimateRecord{TotalCount: -1, SPercent: 40, MPercent: 30, LPercent: 30}.Validate(), ErrInvalidValue)
	assert.ErrorIs(t, EstimateRecord{TotalCount: 1, SPercent: 120, MPercent: -10, LPercent: -10}.Validate(), ErrInvalidValue)
	assert.NoError(t, EstimateRecord{TotalCount: 1, SPercent: 0, MPercent: 0, LPercent: 100}.Validate())
}

func TestNewEstimationState_BaselineWithProfile(t *testing.T) {
	state := newSnowflakeState(t)

	assert.Equal(t, Snowflake, state.Technology)
	assert.Equal(t, ProjectTypeNew, state.ProjectType)
	assert.Len(t, state.Multipliers, len(EffortKeys()))
	assert.Equal(t, SizeMultiplier{Small: 3, Medium: 5, Large: 9}, state.Multipliers.Get(Queries))
	assert.Empty(t, state.Estimates)
	assert.Equal(t, DefaultPhaseBreakdown(), state.Breakdown)
}

func TestNewEstimationState_UpgradeKeepsBaseline(t *testing.T) {
	state, err := NewEstimationState(ProjectTypeUpgrade, Snowflake)
	require.NoError(t, err)

	assert.Equal(t, SizeMultiplier{Small: 2, Medium: 4, Large: 8}, state.Multipliers.Get(Sources))
	assert.Equal(t, SizeMultiplier{Small: 2, Medium: 5, Large: 8}, state.Multipliers.Get(Queries))
	assert.Equal(t, SizeMultiplier{Small: 1, Medium: 2, Large: 3}, state.Multipliers.Get(Views))
}

func TestRecord_DefaultNotStored(t *testing.T) {
	state := newSnowflakeState(t)

	record, stored := state.Record(SilverLayer, "Transform")
	assert.False(t, stored)
	assert.Equal(t, NewEstimateRecord(), record)
	assert.Empty(t, state.Estimates)
}

func TestSetEstimate_StoresComputedRecord(t *testing.T) {
	state := newSnowflakeState(t)

	record, err := state.SetEstimate(SilverLayer, "Transform", 10, 40, 30, 30, "ten queries")
	require.NoError(t, err)
	assert.InDelta(t, 54.0, record.Effort, 1e-9)

	stored, ok := state.Record(SilverLayer, "Transform")
	require.True(t, ok)
	assert.Equal(t, record, stored)
	assert.Equal(t, "ten queries", stored.Comments)
}

func TestSetEstimate_RejectedLeavesStateUnchanged(t *testing.T) {
	state := newSnowflakeState(t)
	_, err := state.SetEstimate(GoldLayer, "Views", 4, 50, 25, 25, "")
	require.NoError(t, err)
	before := state.Clone()

	_, err = state.SetEstimate(GoldLayer, "Views", 8, 50, 50, 10, "")
	assert.ErrorIs(t, err, ErrPercentageMismatch)
	assert.Equal(t, before, state)
}

func TestSetEstimate_UnknownInput(t *testing.T) {
	state := newSnowflakeState(t)

	_, err := state.SetEstimate(GoldLayer, "Extract", 1, 40, 30, 30, "")
	assert.ErrorIs(t, err, ErrUnknownInput)

	_, err = state.SetEstimate(Process("Platinum Layer"), "Read", 1, 40, 30, 30, "")
	assert.ErrorIs(t, err, ErrUnknownProcess)
}

func TestSetComments_KeepsValues(t *testing.T) {
	state := newSnowflakeState(t)
	_, err := state.SetEstimate(BronzeLayer, "Extract", 5, 40, 30, 30, "")
	require.NoError(t, err)

	require.NoError(t, state.SetComments(BronzeLayer, "Extract", "two sources are SAP"))

	record, _ := state.Record(BronzeLayer, "Extract")
	assert.Equal(t, 5, record.TotalCount)
	assert.Equal(t, "two sources are SAP", record.Comments)
}

func TestSetMultiplier_RejectsNegativeHours(t *testing.T) {
	state := newSnowflakeState(t)

	err := state.SetMultiplier(Queries, Medium, -1)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, 5.0, state.Multipliers.Get(Queries).Medium)

	require.NoError(t, state.SetMultiplier(Queries, Medium, 6.5))
	assert.Equal(t, 6.5, state.Multipliers.Get(Queries).Medium)
}

func TestRecompute_UsesCurrentMultipliers(t *testing.T) {
	state := newSnowflakeState(t)
	_, err := state.SetEstimate(SilverLayer, "Transform", 10, 0, 100, 0, "")
	require.NoError(t, err)

	require.NoError(t, state.SetMultiplier(Queries, Medium, 8))
	state.Recompute()

	record, _ := state.Record(SilverLayer, "Transform")
	assert.InDelta(t, 80.0, record.Effort, 1e-9)
}

func TestSelectProfile_OverlaysDefinedKeysOnly(t *testing.T) {
	state := newSnowflakeState(t)
	require.NoError(t, state.SetMultiplier(Views, Large, 42))

	require.NoError(t, state.SelectProfile(ProjectTypeUpgrade, Databricks))

	assert.Equal(t, Databricks, state.Technology)
	assert.Equal(t, ProjectTypeUpgrade, state.ProjectType)
	assert.Equal(t, SizeMultiplier{Small: 3, Medium: 5, Large: 8}, state.Multipliers.Get(Sources))
	assert.Equal(t, 42.0, state.Multipliers.Get(Views).Large)
}

func TestClone_IsDeep(t *testing.T) {
	state := newSnowflakeState(t)
	_, err := state.SetEstimate(DataModel, "Logical Model", 3, 40, 30, 30, "")
	require.NoError(t, err)

	clone := state.Clone()
	require.NoError(t, clone.SetMultiplier(LogicalDataModel, Small, 99))
	_, err = clone.SetEstimate(DataModel, "Logical Model", 9, 40, 30, 30, "")
	require.NoError(t, err)
	clone.Breakdown[PhaseTest] = 0

	assert.Equal(t, 3.0, state.Multipliers.Get(LogicalDataModel).Small)
	record, _ := state.Record(DataModel, "Logical Model")
	assert.Equal(t, 3, record.TotalCount)
	assert.Equal(t, 20, state.Breakdown[PhaseTest])
}

func TestConfig_NewEstimationStateUsesDefaults(t *testing.T) {
	config := DefaultConfig()
	config.DefaultTechnology = MDP
	config.PhaseBreakdown = PhaseBreakdown{PhaseDiscovery: 5, PhaseDesign: 15, PhaseDevelop: 50, PhaseTest: 20, PhaseDeploy: 10}

	state, err := config.NewEstimationState("", "")
	require.NoError(t, err)

	assert.Equal(t, MDP, state.Technology)
	assert.Equal(t, ProjectTypeNew, state.ProjectType)
	assert.Equal(t, 50, state.Breakdown[PhaseDevelop])

	state.Breakdown[PhaseDevelop] = 0
	assert.Equal(t, 50, config.PhaseBreakdown[PhaseDevelop])
}
