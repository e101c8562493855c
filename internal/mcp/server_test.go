package mcp

import (
	"testing"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServer_Defaults(t *testing.T) {
	server, err := NewServer(&ServerOptions{RootDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	assert.Equal(t, model.DefaultConfig(), server.config)
	assert.NotNil(t, server.logger)
}

func TestServer_ParseProfile(t *testing.T) {
	config := model.DefaultConfig()
	config.DefaultTechnology = model.MDP

	server, err := NewServer(&ServerOptions{RootDir: t.TempDir(), Config: config, Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	projectType, technology, err := server.parseProfile("", "")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectTypeNew, projectType)
	assert.Equal(t, model.MDP, technology)

	projectType, technology, err = server.parseProfile("upgrade", "databricks")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectTypeUpgrade, projectType)
	assert.Equal(t, model.Databricks, technology)

	_, _, err = server.parseProfile("", "Oracle")
	assert.ErrorIs(t, err, model.ErrUnknownProfile)
}

func TestServer_SessionRoundTrip(t *testing.T) {
	server, err := NewServer(&ServerOptions{RootDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	state, err := model.NewEstimationState(model.ProjectTypeNew, model.Snowflake)
	require.NoError(t, err)
	require.NoError(t, server.store.SaveState("dwh.estimate.json", state))

	sess, err := server.openSession("dwh.estimate.json")
	require.NoError(t, err)
	_, err = sess.SetEstimate(model.GoldLayer, "Views", 5, 40, 30, 30, "")
	require.NoError(t, err)
	require.NoError(t, server.saveSession("dwh.estimate.json", sess))
	assert.False(t, sess.HasChanges())

	reopened, err := server.openSession("dwh.estimate.json")
	require.NoError(t, err)
	assert.Equal(t, 5, reopened.Record(model.GoldLayer, "Views").TotalCount)
}
