package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field aliases zap.Field so callers outside this package do not import
// zap directly.
type Field = zap.Field

// Re-exported constructors for the field types the bot uses.
var (
	String  = zap.String
	Int     = zap.Int
	Float64 = zap.Float64
	Bool    = zap.Bool
	Time    = zap.Time
	Err     = zap.Error
)

// Logger is a thin wrapper around zap that provides the three log levels
// used throughout the codebase.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }

// New creates a production-ready logger (JSON encoding, level INFO).
func New() (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{z: z}, nil
}

// NewNop returns a logger that discards everything. Handy for wiring code
// paths that must not fail on logger construction.
func NewNop() Logger { return &zapLogger{z: zap.NewNop()} }
