package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger

var sugar *zap.SugaredLogger

// Init initializes the global zap logger. Level and sink can be overridden
// via env vars for tests and production:
//
//	ANSWERDB_LOG_LEVEL: debug|info|warn|error (default info)
//	ANSWERDB_LOG_SINK:  e.g. "file:/path/to/log" (default stderr)
func Init() {
	lvl := strings.ToLower(strings.TrimSpace(os.Getenv("ANSWERDB_LOG_LEVEL")))
	var level zapcore.Level
	switch lvl {
	case "debug":
		level = zapcore.DebugLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if sink := os.Getenv("ANSWERDB_LOG_SINK"); strings.HasPrefix(sink, "file:") {
		cfg.OutputPaths = []string{strings.TrimPrefix(sink, "file:")}
	} else {
		cfg.OutputPaths = []string{"stderr"}
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// bad sink path; fall back to a no-op logger rather than failing startup
		l = zap.NewNop()
	}
	Log = l
	sugar = l.Sugar()
}

// ensure returns a usable sugared logger even when Init was not called
// (tests exercise packages that log without going through main).
func ensure() *zap.SugaredLogger {
	if sugar == nil {
		Init()
	}
	return sugar
}

func Debug(msg string, kv ...interface{}) { ensure().Debugw(msg, kv...) }
func Info(msg string, kv ...interface{})  { ensure().Infow(msg, kv...) }
func Warn(msg string, kv ...interface{})  { ensure().Warnw(msg, kv...) }
func Error(msg string, kv ...interface{}) { ensure().Errorw(msg, kv...) }

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
