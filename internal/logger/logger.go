package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Init is called.
var Log = zap.NewNop()

// Init installs the default development logger at info level.
func Init() {
	InitWith("info")
}

// InitWith installs a console logger at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func InitWith(level string) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		Log = zap.NewExample()
		Log.Warn("Falling back to example logger", zap.Error(err))
		return
	}
	Log = l
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
