package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"github.com/depstrap/depstrap/internal/adapters/logger"
)

func newBufferedLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()

	l, ok := logger.New().(*logger.Logger)
	require.True(t, ok)

	var buf bytes.Buffer
	l.SetOutput(&buf)
	return l, &buf
}

func TestLogger_Info(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	l, buf := newBufferedLogger(t)

	l.Info("cache root ready")
	assert.Contains(t, buf.String(), "cache root ready")
}

func TestLogger_Warn(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	l, buf := newBufferedLogger(t)

	l.Warn("manifest write failed")
	assert.Contains(t, buf.String(), "manifest write failed")
	assert.Contains(t, buf.String(), "!")
}

func TestLogger_ErrorNil(t *testing.T) {
	l, buf := newBufferedLogger(t)

	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	l, buf := newBufferedLogger(t)

	root := errors.New("exit status 1")
	mid := zerr.Wrap(root, "git clone failed")
	top := zerr.Wrap(mid, "bootstrap failed")

	l.Error(top)

	out := buf.String()
	assert.Contains(t, out, "Error: bootstrap failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ git clone failed")
	assert.Contains(t, out, "→ exit status 1")
}

func TestLogger_JSONMode(t *testing.T) {
	l, buf := newBufferedLogger(t)
	l.SetJSON(true)

	l.Info("stage complete")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "stage complete", record["msg"])
	assert.Equal(t, "INFO", record["level"])
}

func TestLogger_JSONModeError(t *testing.T) {
	l, buf := newBufferedLogger(t)
	l.SetJSON(true)

	l.Error(zerr.New("stage execution failed"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "operation failed", record["msg"])
	assert.Contains(t, record["error"], "stage execution failed")
}

func TestCollectErrorEntries(t *testing.T) {
	t.Parallel()

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		entries := logger.CollectErrorEntries(errors.New("boom"))
		assert.Equal(t, []string{"boom"}, entries)
	})

	t.Run("zerr chain stops at first plain error", func(t *testing.T) {
		t.Parallel()
		root := errors.New("exit status 2")
		wrapped := zerr.Wrap(root, "make all failed")
		entries := logger.CollectErrorEntries(wrapped)
		require.Len(t, entries, 2)
		assert.Equal(t, "make all failed", entries[0])
		assert.Equal(t, "exit status 2", entries[1])
	})
}

func TestFormatErrorEntries(t *testing.T) {
	t.Parallel()

	t.Run("single entry", func(t *testing.T) {
		t.Parallel()
		out := logger.FormatErrorEntries([]string{"boom"})
		assert.Equal(t, "Error: boom", out)
	})

	t.Run("chain", func(t *testing.T) {
		t.Parallel()
		out := logger.FormatErrorEntries([]string{"top", "middle", "bottom"})
		assert.Contains(t, out, "Error: top")
		assert.Contains(t, out, "  Caused by:")
		assert.Contains(t, out, "    → middle")
		assert.Contains(t, out, "    → bottom")
	})

	t.Run("multiline message is indented", func(t *testing.T) {
		t.Parallel()
		out := logger.FormatErrorEntries([]string{"first\nsecond"})
		assert.Contains(t, out, "Error: first")
		assert.Contains(t, out, "       second")
	})
}
