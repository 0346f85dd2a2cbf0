package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

var (
	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
	AddStacktrace = zap.AddStacktrace
)

// Logger is a thin wrapper around zap.Logger that keeps the level around
// so callers can check it cheaply.
type Logger struct {
	l     *zap.Logger
	level Level
}

var (
	std = New(os.Stderr, InfoLevel)
	// pkg serves the package level functions, one frame deeper than std.
	pkg = std.withCallerSkip(1)
)

// New creates a logger writing JSON records to writer.
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	return newLogger(writer, level, zapcore.NewJSONEncoder(productionEncoderConfig()), opts...)
}

// DevLogger creates a logger writing human readable console output.
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return newLogger(writer, level, zapcore.NewConsoleEncoder(cfg), opts...)
}

//nolint:whitespace // can't make both editor and linter happy
func newLogger(
	writer io.Writer, level Level, enc zapcore.Encoder, opts ...Option,
) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(writer), zap.NewAtomicLevelAt(level))
	return &Logger{l: zap.New(core, opts...), level: level}
}

func productionEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// WithFilter restricts output to entries matching the zapfilter rules,
// e.g. "debug:decision,predict info:*".
func WithFilter(rules string) (Option, error) {
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, err
	}
	return zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapfilter.NewFilteringCore(c, filter)
	}), nil
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) Level() Level { return l.level }

func (l *Logger) withCallerSkip(skip int) *Logger {
	return &Logger{l: l.l.WithOptions(zap.AddCallerSkip(skip)), level: l.level}
}

func (l *Logger) Sync() error { return l.l.Sync() }

// Zap exposes the underlying logger for libraries that need it.
func (l *Logger) Zap() *zap.Logger { return l.l }

// Default returns the process wide logger.
func Default() *Logger { return std }

// ResetDefault replaces the process wide logger. Not safe for concurrent use,
// call it during startup only.
func ResetDefault(l *Logger) {
	std = l
	pkg = l.withCallerSkip(1)
}

func Debug(msg string, fields ...Field) { pkg.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { pkg.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { pkg.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { pkg.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { pkg.Fatal(msg, fields...) }

func Sync() error {
	return std.Sync()
}
