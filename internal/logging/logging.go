package logging

import (
	"go.uber.org/zap"
)

// wraps the process logger
type Logger struct {
	*zap.SugaredLogger
}

// creates a logger; verbose enables debug output with caller info
func NewLogger(verbose bool) *Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.TimeKey = ""
	}

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return &Logger{logger.Sugar()}
}

// no-op logger for tests and library defaults
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
