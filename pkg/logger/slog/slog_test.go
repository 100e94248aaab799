package slog_test

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slogbridge "github.com/erpdesk/erpdesk.go/pkg/logger/slog"
)

func TestSlogHandlerForwardsLevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug})
	log := slogbridge.New(h)

	log.Info("api call", "method", "GET")
	log.Debug("decoded", "items", 3)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "api call", first["msg"])
	assert.Equal(t, "GET", first["method"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "DEBUG", second["level"])
	assert.Equal(t, 3.0, second["items"])
}
