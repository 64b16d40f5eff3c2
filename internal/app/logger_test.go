package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerProductionJSONOmitsSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{AppEnv: "production", LogFormat: "json"})
	logger.Info("ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "ready", entry["msg"])
	require.NotContains(t, entry, "source")
}

func TestLoggerDevelopmentTextIncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{AppEnv: "development", LogFormat: "pretty"})
	logger.Info("ready")

	out := buf.String()
	require.Contains(t, out, "msg=ready")
	require.Contains(t, out, "source=")
}
