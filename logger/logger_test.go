package logger

import (
	"firewatch/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := New(config.LoggingConfig{Level: "DEBUG", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = New(config.LoggingConfig{Level: "warn", Format: "text"})
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNewFallsBackToInfoOnUnknownLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firewatch.log")
	log := New(config.LoggingConfig{Level: "loud", File: path, MaxSizeMB: 1})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Unknown log level")
	assert.Contains(t, string(data), "loud")
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firewatch.log")
	log := New(config.LoggingConfig{Level: "info", File: path, MaxSizeMB: 1})

	log.Info("hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestAudit(t *testing.T) {
	log, hook := test.NewNullLogger()

	entry := Audit(log, "u1", ActionReportGenerated, "patrol_report_u1_20250304.pdf")

	assert.Equal(t, "u1", entry.UserID)
	assert.NotEmpty(t, entry.LogID)
	require.Len(t, hook.AllEntries(), 1)
	last := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Equal(t, ActionReportGenerated, last.Data["action"])
	assert.Equal(t, "patrol_report_u1_20250304.pdf", last.Data["details"])
}
