package logging

import (
	"testing"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_UsesConfiguredLevel(t *testing.T) {
	logger, err := New(model.LoggingConfig{Level: "warn", Format: "json"}, "", "")
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_OverrideTakesPrecedence(t *testing.T) {
	logger, err := New(model.LoggingConfig{Level: "error", Format: "json"}, "debug", "console")
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_DefaultsWhenEmpty(t *testing.T) {
	logger, err := New(model.LoggingConfig{}, "", "")
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsInvalidValues(t *testing.T) {
	_, err := New(model.LoggingConfig{Level: "verbose"}, "", "")
	assert.Error(t, err)

	_, err = New(model.LoggingConfig{Format: "xml"}, "", "")
	assert.Error(t, err)
}
