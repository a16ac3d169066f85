package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")

	var buf bytes.Buffer
	l, err := NewWithOutput(&buf, "warn")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewDefaultsToInfo(t *testing.T) {
	t.Setenv(DebugEnv, "")

	l, err := NewWithOutput(&bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := NewWithOutput(&bytes.Buffer{}, "loud")
	require.Error(t, err)
}

func TestDebugEnvForcesDebug(t *testing.T) {
	t.Setenv(DebugEnv, "true")

	l, err := NewWithOutput(&bytes.Buffer{}, "error")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}
