package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/gauntlet/internal/logger"
)

func newTestLogger(buf *bytes.Buffer, level logger.Level) *logger.Logger {
	return logger.New(
		logger.WithOutput(buf),
		logger.WithLevel(level),
		logger.WithColors(false),
		logger.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
	)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel(" error "))
	assert.Equal(t, logger.INFO, logger.ParseLevel("verbose"))
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.WARN)

	log.Info("hidden")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  ")
	assert.Contains(t, out, "shown 1")
}

func TestLogger_PrefixAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.DEBUG).
		WithPrefix("stats").
		WithFields(map[string]any{"zeta": 1, "alpha": "a"}).
		WithField("mid", true)

	log.Debug("saved")

	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "2024-01-02 03:04:05.000 DEBUG [stats] "))
	assert.True(t, strings.HasSuffix(line, "saved alpha=a mid=true zeta=1"), line)
}

func TestLogger_DerivedDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, logger.INFO)
	_ = parent.WithField("k", "v")

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "k=v")
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	assert.False(t, log.Enabled(logger.ERROR))
	log.Error("nothing happens")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.INFO).WithPrefix("req")

	ctx := logger.NewContext(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
