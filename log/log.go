// Package log provides the logging utilities used throughout troupe.
//
// The package-level Default logger is a zap SugaredLogger writing console
// output to stdout at info level. Replace it with any implementation of the
// Logger interface to integrate with an application's logging setup.
// Components with tracing enabled use a dedicated debug-level logger so trace
// output does not depend on the global level.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger defines the logging interface used throughout troupe.
type Logger interface {
	// Debug logs to DEBUG log. Arguments are handled in the manner of fmt.Print.
	Debug(args ...any)
	// Debugf logs to DEBUG log. Arguments are handled in the manner of fmt.Printf.
	Debugf(format string, args ...any)
	// Info logs to INFO log. Arguments are handled in the manner of fmt.Print.
	Info(args ...any)
	// Infof logs to INFO log. Arguments are handled in the manner of fmt.Printf.
	Infof(format string, args ...any)
	// Warn logs to WARN log. Arguments are handled in the manner of fmt.Print.
	Warn(args ...any)
	// Warnf logs to WARN log. Arguments are handled in the manner of fmt.Printf.
	Warnf(format string, args ...any)
	// Error logs to ERROR log. Arguments are handled in the manner of fmt.Print.
	Error(args ...any)
	// Errorf logs to ERROR log. Arguments are handled in the manner of fmt.Printf.
	Errorf(format string, args ...any)
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	MessageKey:     "message",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
}

var defaultLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Default is the logger used when a component has no logger of its own.
// Replace it with any Logger implementation to redirect troupe's output.
var Default Logger = newZap(defaultLevel)

func newZap(level zapcore.LevelEnabler) *zap.SugaredLogger {
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)).Sugar()
}

// New creates a standalone zap-backed Logger at the given level.
// Unrecognized levels fall back to info.
func New(level string) Logger {
	return newZap(parseLevel(level))
}

// SetLevel sets the Default logger's level.
// Valid levels are: "debug", "info", "warn", "error".
func SetLevel(level string) {
	defaultLevel.SetLevel(parseLevel(level))
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs to the Default logger in the manner of fmt.Print.
func Debug(args ...any) { Default.Debug(args...) }

// Debugf logs to the Default logger in the manner of fmt.Printf.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Info logs to the Default logger in the manner of fmt.Print.
func Info(args ...any) { Default.Info(args...) }

// Infof logs to the Default logger in the manner of fmt.Printf.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warn logs to the Default logger in the manner of fmt.Print.
func Warn(args ...any) { Default.Warn(args...) }

// Warnf logs to the Default logger in the manner of fmt.Printf.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Error logs to the Default logger in the manner of fmt.Print.
func Error(args ...any) { Default.Error(args...) }

// Errorf logs to the Default logger in the manner of fmt.Printf.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
