package logutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(&buffer, slog.LevelInfo)

	logger.Debug("emit.unit", "method", "add")
	assert.Empty(t, buffer.String())

	logger.Warn("generate.unmatched", "collection", "opencv_core", "method", "divide")
	assert.Contains(t, buffer.String(), "level=WARN")
	assert.Contains(t, buffer.String(), "msg=generate.unmatched")
	assert.Contains(t, buffer.String(), "method=divide")
	assert.NotContains(t, buffer.String(), "source=")
}

func TestNewLoggerDebugSource(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(&buffer, Level(true))

	logger.Debug("emit.unit")
	assert.Contains(t, buffer.String(), "source=logutil_test.go:")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Level(false))
	assert.Equal(t, slog.LevelDebug, Level(true))
}
