package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one JSON line per event. Every entry carries the service,
// the action and the host it ran on.
type Logger struct {
	z *zap.Logger
}

func New(service string) *Logger { return NewWithLevel(service, "info") }

// NewWithLevel builds a production JSON logger at level (debug|info|warn|error).
// An unknown level falls back to info.
func NewWithLevel(service, level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.MessageKey = "message"
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stdout"}

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewExample()
	}
	return &Logger{z: z.With(zap.String("service", service), zap.String("hostname", hostname()))}
}

// NewNop discards everything.
func NewNop() *Logger { return &Logger{z: zap.NewNop()} }

// FromZap wraps an existing zap logger, e.g. one built by zaptest.
func FromZap(z *zap.Logger) *Logger { return &Logger{z: z} }

func (l *Logger) Info(action string, fields map[string]any) {
	l.z.Info(action, toFields(action, fields)...)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.z.Debug(action, toFields(action, fields)...)
}

func (l *Logger) Warn(action string, fields map[string]any) {
	l.z.Warn(action, toFields(action, fields)...)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.z.Error(action, append(toFields(action, fields), zap.Error(err))...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() { _ = l.z.Sync() }

func toFields(action string, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	out = append(out, zap.String("action", action))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func hostname() string { h, _ := os.Hostname(); return h }
