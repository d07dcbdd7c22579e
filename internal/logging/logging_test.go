package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}

func TestHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "info", "json")).Info("hello", "shop_id", "s1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "s1", rec["shop_id"])

	buf.Reset()
	slog.New(newHandler(&buf, "info", "text")).Info("hello", "shop_id", "s1")
	assert.Contains(t, buf.String(), "msg=hello shop_id=s1")
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, "warn", "json")

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}

func TestNewWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	path := filepath.Join(t.TempDir(), "shishalog.log")

	logger, cleanup, err := New("info", "json", path)
	require.NoError(t, err)
	logger.Info("written to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written to file"))
}

func TestNewBadFile(t *testing.T) {
	_, _, err := New("info", "json", filepath.Join(t.TempDir(), "missing", "dir", "log"))
	assert.Error(t, err)
}
