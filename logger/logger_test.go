package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("DEBUG", "json", &buf)
	require.NoError(t, err)

	l.Named("routing").Debug("route computed", zap.String("connector", "conn_1"))
	Sync(l)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "route computed", entry["message"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "routing", entry["component"])
	assert.Equal(t, "conn_1", entry["connector"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "caller")
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", "console", &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
		errMsg string
	}{
		{"bad level", "loud", "json", `invalid log level "loud"`},
		{"bad format", "info", "xml", `invalid log format "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.format, &bytes.Buffer{})
			assert.Nil(t, l)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
