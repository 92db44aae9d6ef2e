package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_InfoMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.Info("histograms written")

	out := buf.String()
	assert.Contains(t, out, "histograms written")
	assert.Contains(t, out, colorGreen)
	assert.NotContains(t, out, colorRed)
}

func TestHandler_WarnAndErrorColors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.Warn("slow query")
	assert.Contains(t, buf.String(), colorYellow)

	buf.Reset()
	logger.Error("import failed")
	assert.Contains(t, buf.String(), colorRed)
}

func TestHandler_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		logFunc   func(*slog.Logger)
		shouldLog bool
	}{
		{"info logs info", slog.LevelInfo, func(l *slog.Logger) { l.Info("m") }, true},
		{"info filters debug", slog.LevelInfo, func(l *slog.Logger) { l.Debug("m") }, false},
		{"debug logs debug", slog.LevelDebug, func(l *slog.Logger) { l.Debug("m") }, true},
		{"error filters warn", slog.LevelError, func(l *slog.Logger) { l.Warn("m") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(slog.New(NewHandler(&buf, tt.level)))
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.Info("imported", "sample", "dy_m50", "events", 1234)

	out := buf.String()
	assert.Contains(t, out, "sample=dy_m50")
	assert.Contains(t, out, "events=1234")
}

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelInfo)

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("sample", "sig")}))
	logger.Info("filling")
	assert.Contains(t, buf.String(), "sample=sig")

	// empty attrs return the handler unchanged
	assert.Equal(t, h, h.WithAttrs(nil))
}

func TestHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelInfo)

	logger := slog.New(h.WithGroup("import"))
	logger.Info("done")
	assert.Contains(t, buf.String(), "[import] done")

	assert.Equal(t, h, h.WithGroup(""))
}

func TestNew(t *testing.T) {
	logger := New("debug")
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(nil, slog.LevelDebug))
}

func TestSetDefault(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	SetDefault("warn")
	assert.False(t, slog.Default().Enabled(nil, slog.LevelInfo))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"  debug  ", slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}
