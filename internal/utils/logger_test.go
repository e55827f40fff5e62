package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")

	logger.WithField("reset_id", 3).Info("reset performed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reset performed", entry["msg"])
	assert.Equal(t, float64(3), entry["reset_id"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewLoggerUnknownLevel(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, "chatty", "text")

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
