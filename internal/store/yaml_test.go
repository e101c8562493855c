package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	s := NewYAMLStore(filepath.Join(t.TempDir(), DefaultConfigFile))

	config, err := s.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), config)
}

func TestConfig_SaveThenLoad(t *testing.T) {
	s := NewYAMLStore(filepath.Join(t.TempDir(), DefaultConfigFile))

	config := model.DefaultConfig()
	config.DefaultTechnology = model.PoweredByExcelV2
	config.DefaultProjectType = model.ProjectTypeUpgrade
	config.PhaseBreakdown[model.PhaseDevelop] = 50
	config.TimeUnit = model.TimeUnit{Label: "day", Acronym: "d"}
	config.Logging.Level = "debug"
	require.NoError(t, s.SaveConfig(config))

	loaded, err := s.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	s := NewYAMLStore(filepath.Join(t.TempDir(), DefaultConfigFile))
	require.NoError(t, s.SaveConfig(model.DefaultConfig()))

	t.Setenv("EFFORTCALC_DEFAULTTECHNOLOGY", "databricks")
	t.Setenv("EFFORTCALC_LOGGING_LEVEL", "warn")

	config, err := s.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, model.Databricks, config.DefaultTechnology)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadConfig_RejectsUnknownTechnology(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("defaultTechnology: Oracle\n"), 0644))

	_, err := NewYAMLStore(path).LoadConfig()
	assert.ErrorIs(t, err, model.ErrUnknownProfile)
}

func TestNormalizeConfig_RestoresPhaseNames(t *testing.T) {
	config := &model.Config{
		DefaultTechnology:  "powered by excel(ev2)",
		DefaultProjectType: "new",
		PhaseBreakdown:     model.PhaseBreakdown{"develop": 40, "deploy": 10},
	}

	require.NoError(t, normalizeConfig(config))
	assert.Equal(t, model.PoweredByExcelV2, config.DefaultTechnology)
	assert.Equal(t, model.ProjectTypeNew, config.DefaultProjectType)
	assert.Equal(t, model.PhaseBreakdown{model.PhaseDevelop: 40, model.PhaseDeploy: 10}, config.PhaseBreakdown)
}

func TestState_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platform"+DocumentExtension)
	s := NewYAMLStore(filepath.Join(dir, DefaultConfigFile))

	state, err := model.NewEstimationState(model.ProjectTypeNew, model.MDP)
	require.NoError(t, err)
	_, err = state.SetEstimate(model.BronzeLayer, "Extract", 12, 50, 25, 25, "SAP and Salesforce")
	require.NoError(t, err)
	require.NoError(t, s.SaveState(path, state))

	base, err := model.NewEstimationState(model.ProjectTypeNew, model.Snowflake)
	require.NoError(t, err)
	loaded, err := s.LoadState(path, base)
	require.NoError(t, err)

	assert.Equal(t, state.Technology, loaded.Technology)
	assert.Equal(t, state.Multipliers, loaded.Multipliers)
	assert.Equal(t, state.Estimates, loaded.Estimates)

	files, err := s.ListDocuments(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"platform" + DocumentExtension}, files)
}

func TestLoadState_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken"+DocumentExtension)
	require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0644))

	base, err := model.NewEstimationState(model.ProjectTypeNew, model.Snowflake)
	require.NoError(t, err)

	_, err = NewYAMLStore("").LoadState(path, base)
	assert.ErrorIs(t, err, model.ErrMalformedDocument)
}

func TestListDocuments_MissingDirectory(t *testing.T) {
	files, err := NewYAMLStore("").ListDocuments(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
