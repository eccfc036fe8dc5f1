package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the sugared zap logger shared by the CLI and the preview server.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger at info level, or debug when verbose.
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = !verbose
	cfg.DisableCaller = !verbose

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return &Logger{SugaredLogger: base.Sugar()}
}

// logger that discards everything
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// wraps an existing zap logger, mainly for tests using zaptest/observer
func New(base *zap.Logger) *Logger {
	return &Logger{SugaredLogger: base.Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
