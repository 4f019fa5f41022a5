package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestPrefixAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("session").
		WithFields(map[string]any{"day_index": 3})

	log.Info("session created: id=%d", 42)

	out := buf.String()
	assert.Contains(t, out, "[session]")
	assert.Contains(t, out, "session created: id=42")
	assert.Contains(t, out, "day_index=3")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("bogus"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logger.Default(), logger.FromContext(context.Background()))

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))
	ctx := logger.NewContext(context.Background(), log)
	assert.Equal(t, log, logger.FromContext(ctx))
}
