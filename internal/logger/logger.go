package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared logger used across the engine packages.
var Log *zap.Logger

// level backs the logger so SetDebug can move it in both directions.
var level zap.AtomicLevel

// Init sets up the global logger. Safe to call more than once.
func Init() {
	if Log != nil {
		return
	}
	level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config := zap.NewDevelopmentConfig()
	config.Level = level
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	var err error
	Log, err = config.Build()
	if err != nil {
		// Fall back to a no-op logger rather than crashing the host
		Log = zap.NewNop()
	}
}

// SetDebug switches the log level at runtime.
func SetDebug(debug bool) {
	if Log == nil {
		Init()
	}
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}
