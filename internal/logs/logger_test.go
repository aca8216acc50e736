package logs

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	require.NoError(t, Init(Options{Level: "debug", Format: "json"}))
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Logger.Formatter)

	require.NoError(t, Init(Options{Level: "loud"}))
	assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())

	assert.Equal(t, "cache", With("cache").Data["component"])
}

func TestInitBadFile(t *testing.T) {
	assert.Error(t, Init(Options{File: "/nonexistent-dir/sub/app"}))
}
