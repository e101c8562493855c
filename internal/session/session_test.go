package session

import (
	"testing"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	state, err := model.NewEstimationState(model.ProjectTypeNew, model.Snowflake)
	require.NoError(t, err)
	return New(state, zap.NewNop())
}

func TestNew_AssignsShortID(t *testing.T) {
	sess := New(&model.EstimationState{}, nil)
	assert.Len(t, sess.ID(), 8)
	assert.False(t, sess.HasChanges())
}

func TestSetEstimate_TracksChanges(t *testing.T) {
	sess := newSession(t)

	record, err := sess.SetEstimate(model.SilverLayer, "Transform", 10, 40, 30, 30, "")
	require.NoError(t, err)
	assert.InDelta(t, 54.0, record.Effort, 1e-9)
	assert.True(t, sess.HasChanges())

	sess.MarkSaved()
	assert.False(t, sess.HasChanges())
}

func TestSetEstimate_RejectedKeepsRecord(t *testing.T) {
	sess := newSession(t)
	_, err := sess.SetEstimate(model.SilverLayer, "Transform", 10, 40, 30, 30, "")
	require.NoError(t, err)
	sess.MarkSaved()

	_, err = sess.SetEstimate(model.SilverLayer, "Transform", 10, 50, 50, 10, "")
	assert.ErrorIs(t, err, model.ErrPercentageMismatch)
	assert.False(t, sess.HasChanges())
	assert.Equal(t, 40, sess.Record(model.SilverLayer, "Transform").SPercent)
}

func TestSetMultiplier_RefreshesStoredEfforts(t *testing.T) {
	sess := newSession(t)
	_, err := sess.SetEstimate(model.SilverLayer, "Transform", 10, 0, 100, 0, "")
	require.NoError(t, err)

	require.NoError(t, sess.SetMultiplier(model.Queries, model.Medium, 8))

	assert.InDelta(t, 80.0, sess.Record(model.SilverLayer, "Transform").Effort, 1e-9)
	assert.InDelta(t, 80.0, sess.Summary().Total.MostLikely, 1e-9)
}

func TestSelectProfile_RefreshesStoredEfforts(t *testing.T) {
	sess := newSession(t)
	_, err := sess.SetEstimate(model.BronzeLayer, "Extract", 10, 0, 100, 0, "")
	require.NoError(t, err)

	require.NoError(t, sess.SelectProfile(model.ProjectTypeUpgrade, model.Snowflake))

	assert.Equal(t, model.ProjectTypeUpgrade, sess.State().ProjectType)
	assert.InDelta(t, 40.0, sess.Record(model.BronzeLayer, "Extract").Effort, 1e-9)

	err = sess.SelectProfile(model.ProjectType("Migration"), model.Snowflake)
	assert.ErrorIs(t, err, model.ErrUnknownProfile)
	assert.Equal(t, model.ProjectTypeUpgrade, sess.State().ProjectType)
}

func TestSetPhase_ImbalanceIsReported(t *testing.T) {
	sess := newSession(t)

	require.NoError(t, sess.SetPhase(model.PhaseTest, 30))

	report, err := sess.PhaseReport()
	require.NoError(t, err)
	assert.ErrorIs(t, report.Warning, model.ErrAllocationImbalance)

	require.NoError(t, sess.SetPhase(model.PhaseDevelop, 0))
	_, err = sess.PhaseReport()
	assert.ErrorIs(t, err, model.ErrDivisionByZero)
}

func TestImport_MergesAndRecomputes(t *testing.T) {
	sess := newSession(t)
	_, err := sess.SetEstimate(model.SilverLayer, "Transform", 10, 0, 100, 0, "")
	require.NoError(t, err)
	sess.MarkSaved()

	require.NoError(t, sess.Import([]byte(`{"EffortInputs": {"Queries": {"M": 10}}}`)))

	assert.True(t, sess.HasChanges())
	assert.InDelta(t, 100.0, sess.Record(model.SilverLayer, "Transform").Effort, 1e-9)
}

func TestImport_MalformedLeavesStateUnchanged(t *testing.T) {
	sess := newSession(t)
	before := sess.State().Clone()

	err := sess.Import([]byte(`{"Technology": "Oracle"}`))
	assert.ErrorIs(t, err, model.ErrMalformedDocument)
	assert.Equal(t, before, sess.State())
	assert.False(t, sess.HasChanges())
}

func TestExport_ImportRoundTrip(t *testing.T) {
	sess := newSession(t)
	_, err := sess.SetEstimate(model.GoldLayer, "Security", 3, 40, 30, 30, "row level security")
	require.NoError(t, err)
	require.NoError(t, sess.SetMultiplier(model.Roles, model.Large, 20))

	data, err := sess.Export()
	require.NoError(t, err)

	other := New(&model.EstimationState{Multipliers: model.BaselineMultipliers()}, zap.NewNop())
	require.NoError(t, other.Import(data))

	assert.Equal(t, sess.State().Technology, other.State().Technology)
	assert.Equal(t, sess.State().Multipliers, other.State().Multipliers)
	assert.Equal(t, sess.State().Estimates, other.State().Estimates)
}
