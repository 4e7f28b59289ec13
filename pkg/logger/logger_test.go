package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscanner/pkg/config"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, &config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"})
			require.NotNil(t, log)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestServiceAndEnvFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, &config.Config{Env: "staging", LogLevel: "debug", LogFormat: "json"})

	log.Info("batch generated")

	entry := decodeLine(t, &buf)
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "staging", entry["env"])
	assert.Equal(t, "batch generated", entry["message"])
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"})

	tests := []struct {
		name      string
		logFunc   func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { log.Debug("debug message") }, "debug message", "debug"},
		{"warn", func() { log.Warn("warn message") }, "warn message", "warn"},
		{"error", func() { log.Error("error message") }, "error message", "error"},
		{"infof", func() { log.Infof("rows: %d", 20) }, "rows: 20", "info"},
		{"warnf", func() { log.Warnf("rejected %s", "005930") }, "rejected 005930", "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
		})
	}
}

func TestComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"})

	log.Component("generator").WithFields(map[string]interface{}{
		"code":  "005930",
		"total": 91.5,
	}).Warn("record rejected")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "generator", entry["component"])
	assert.Equal(t, "005930", entry["code"])
	assert.Equal(t, 91.5, entry["total"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"})

	log.WithError(errors.New("no data")).Error("aggregate failed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "no data", entry["error"])
	assert.Equal(t, "aggregate failed", entry["message"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, &config.Config{Env: "development", LogLevel: "info", LogFormat: "console"})

	log.Info("test message")

	assert.True(t, strings.Contains(buf.String(), "test message"))
	assert.False(t, json.Valid(buf.Bytes()), "console output should not be JSON")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.WithField("k", "v").Info("discarded")
	})
}
