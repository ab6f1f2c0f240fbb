package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AddsServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", "ignis", &buf)

	log.WithFields(logrus.Fields{"service": "incident", "incident_id": "42"}).Info("incident created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ignis", entry["app"])
	assert.Equal(t, "incident", entry["service"])
	assert.Equal(t, "42", entry["incident_id"])
	assert.Equal(t, "incident created", entry["msg"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("verbose", "", &buf)

	log.Debug("hidden")

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Empty(t, buf.String())
}
