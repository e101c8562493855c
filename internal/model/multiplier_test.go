package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults_NewProfileDefinesEveryKey(t *testing.T) {
	for _, technology := range Technologies() {
		table, err := LoadDefaults(ProjectTypeNew, technology)
		require.NoError(t, err, technology)
		assert.Len(t, table, len(EffortKeys()), technology)
		assert.NoError(t, table.Validate(), technology)
	}
}

func TestLoadDefaults_MDPOverrides(t *testing.T) {
	table, err := LoadDefaults(ProjectTypeNew, MDP)
	require.NoError(t, err)

	assert.Equal(t, SizeMultiplier{Small: 3, Medium: 15, Large: 9}, table[BusinessRules])
	assert.Equal(t, SizeMultiplier{Small: 13, Medium: 5, Large: 9}, table[Pipelines])
}

func TestLoadDefaults_KeySubset(t *testing.T) {
	table, err := LoadDefaults(ProjectTypeUpgrade, Snowflake, Sources, Queries)
	require.NoError(t, err)
	assert.Len(t, table, 2)

	_, err = LoadDefaults(ProjectTypeUpgrade, Snowflake, Views)
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestLoadDefaults_UnknownProfile(t *testing.T) {
	_, err := LoadDefaults(ProjectType("Migration"), Snowflake)
	assert.ErrorIs(t, err, ErrUnknownProfile)

	_, err = LoadDefaults(ProjectTypeNew, Technology("Oracle"))
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestLoadDefaults_ReturnsCopy(t *testing.T) {
	table, err := LoadDefaults(ProjectTypeNew, Snowflake)
	require.NoError(t, err)
	table[Queries] = SizeMultiplier{}

	again, err := LoadDefaults(ProjectTypeNew, Snowflake)
	require.NoError(t, err)
	assert.Equal(t, SizeMultiplier{Small: 3, Medium: 5, Large: 9}, again[Queries])
}

func TestApplyDefaults_SparseOverlay(t *testing.T) {
	table := BaselineMultipliers()
	table.ApplyDefaults(MultiplierTable{Sources: {Small: 2, Medium: 4, Large: 8}})

	assert.Equal(t, SizeMultiplier{Small: 2, Medium: 4, Large: 8}, table.Get(Sources))
	assert.Equal(t, SizeMultiplier{Small: 1, Medium: 2, Large: 3}, table.Get(Read))
	assert.Len(t, table, len(EffortKeys()))
}

func TestMultiplierTable_Set(t *testing.T) {
	table := BaselineMultipliers()

	require.NoError(t, table.Set(Roles, Large, 12.5))
	assert.Equal(t, SizeMultiplier{Small: 1, Medium: 2, Large: 12.5}, table.Get(Roles))

	assert.ErrorIs(t, table.Set(Roles, Small, -0.5), ErrInvalidValue)
	assert.ErrorIs(t, table.Set(Roles, Small, math.NaN()), ErrInvalidValue)
	assert.Error(t, table.Set(EffortKey("Dashboards"), Small, 1))
	assert.Error(t, table.Set(Roles, Size("XL"), 1))
}

func TestParseSize(t *testing.T) {
	size, err := ParseSize("m")
	require.NoError(t, err)
	assert.Equal(t, Medium, size)

	_, err = ParseSize("XL")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseProfile_CaseInsensitive(t *testing.T) {
	technology, err := ParseTechnology("powered by excel(ev2)")
	require.NoError(t, err)
	assert.Equal(t, PoweredByExcelV2, technology)

	projectType, err := ParseProjectType("upgrade")
	require.NoError(t, err)
	assert.Equal(t, ProjectTypeUpgrade, projectType)

	_, err = ParseTechnology("BigQuery")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestCatalog(t *testing.T) {
	keys := EffortKeys()
	require.Len(t, keys, 17)
	assert.Equal(t, BusinessProcesses, keys[0])
	assert.Equal(t, EnvironmentSetup, keys[16])

	for _, key := range keys {
		assert.NotEmpty(t, key.Describe(), key)
	}

	_, err := ParseEffortKey("Dashboards")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestTaxonomy(t *testing.T) {
	processes := Processes()
	require.Len(t, processes, 6)
	assert.Equal(t, DataDiscovery, processes[0])
	assert.Equal(t, GoldLayer, processes[5])

	for _, process := range processes {
		for _, in := range process.Inputs() {
			assert.True(t, in.Key.Valid(), "%s / %s", process, in.Name)
		}
	}

	in, err := GoldLayer.Input("Security")
	require.NoError(t, err)
	assert.Equal(t, Roles, in.Key)

	_, err = ParseProcess("Platinum Layer")
	assert.ErrorIs(t, err, ErrUnknownProcess)
}

func TestPhaseBreakdown_Check(t *testing.T) {
	breakdown := DefaultPhaseBreakdown()
	assert.NoError(t, breakdown.Check())

	require.NoError(t, breakdown.Set(PhaseTest, 30))
	assert.Equal(t, 110, breakdown.Sum())
	err := breakdown.Check()
	assert.ErrorIs(t, err, ErrAllocationImbalance)
	assert.Contains(t, err.Error(), "110%")

	assert.ErrorIs(t, breakdown.Set(PhaseTest, 101), ErrInvalidValue)
	assert.ErrorIs(t, breakdown.Set(Phase("Operate"), 10), ErrInvalidValue)
}
