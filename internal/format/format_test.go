package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newState(t *testing.T) *model.EstimationState {
	t.Helper()
	state, err := model.NewEstimationState(model.ProjectTypeNew, model.Snowflake)
	require.NoError(t, err)
	_, err = state.SetEstimate(model.SilverLayer, "Transform", 10, 40, 30, 30, "joins | unions")
	require.NoError(t, err)
	return state
}

func TestMarkdownFormatter_Sections(t *testing.T) {
	out := NewMarkdownFormatter(model.DefaultConfig()).Format(newState(t))

	assert.Contains(t, out, "# Effort Estimation")
	assert.Contains(t, out, "- Technology: Snowflake")
	assert.Contains(t, out, "### Silver Layer")
	assert.Contains(t, out, "## Summary of Estimated Efforts by Process")
	assert.Contains(t, out, "## Phase Allocation")
	assert.Contains(t, out, "| Transform | Queries | 10 | 40 | 30 | 30 | 54.00 h | joins \\| unions |")
	assert.Contains(t, out, "| Total | 54.00 | 48.60 | 62.10 | 54.45 |")
	assert.NotContains(t, out, "Excluded Inputs")
	assert.NotContains(t, out, "> Warning")
}

func TestMarkdownFormatter_WarningsAndErrors(t *testing.T) {
	state := newState(t)
	state.Breakdown[model.PhaseTest] = 30
	state.Estimates[model.GoldLayer] = map[string]model.EstimateRecord{
		"Views": {TotalCount: 2, SPercent: 50, MPercent: 50, LPercent: 10},
	}

	out := NewMarkdownFormatter(model.DefaultConfig()).Format(state)
	assert.Contains(t, out, "> Warning:")
	assert.Contains(t, out, "## Excluded Inputs")
	assert.Contains(t, out, "- Gold Layer / Views:")

	state.Breakdown[model.PhaseDevelop] = 0
	out = NewMarkdownFormatter(model.DefaultConfig()).Format(state)
	assert.Contains(t, out, "> Error:")
}

func TestMarkdownFormatter_RoundUp(t *testing.T) {
	config := model.DefaultConfig()
	config.RoundUpEstimations = true

	out := NewMarkdownFormatter(config).Format(newState(t))
	assert.Contains(t, out, "| Total | 54 | 49 | 63 | 55 |")
}

func TestJSONFormatter_Output(t *testing.T) {
	out, err := NewJSONFormatter(model.DefaultConfig()).Format(newState(t))
	require.NoError(t, err)

	var output Output
	require.NoError(t, json.Unmarshal([]byte(out), &output))

	assert.Equal(t, "Snowflake", output.Technology)
	assert.Equal(t, "h", output.TimeUnit)
	require.Len(t, output.Processes, len(model.Processes()))
	require.Len(t, output.Summary, len(model.Processes())+1)

	total := output.Summary[len(output.Summary)-1]
	assert.Equal(t, "Total", total.Process)
	assert.InDelta(t, 54.45, total.PERT, 1e-9)

	require.Len(t, output.Phases.Rows, len(model.Processes())+1)
	assert.InDelta(t, 54.45, output.Phases.Rows[len(output.Phases.Rows)-1].Phases["Develop"], 1e-9)
	assert.Empty(t, output.Phases.Warning)
	assert.Empty(t, output.Errors)
}

func TestYAMLFormatter_Output(t *testing.T) {
	out, err := NewYAMLFormatter(model.DefaultConfig()).Format(newState(t))
	require.NoError(t, err)

	var output Output
	require.NoError(t, yaml.Unmarshal([]byte(out), &output))
	assert.Equal(t, "New", output.ProjectType)
	assert.True(t, strings.HasPrefix(out, "technology: Snowflake"))
}
