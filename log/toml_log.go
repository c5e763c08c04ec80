package log

import (
	"io"

	"github.com/awaketai/news-aggregator/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FromConfig builds the process logger from cfg and installs it as the zap
// global. Logs go to stderr unless a log file is configured, so they never
// mix with the console protocol on stdout. The returned closer is nil when
// logging to stderr.
func FromConfig(cfg config.Config) (*zap.Logger, io.Closer, error) {
	logLevel, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	var (
		plugin Plugin
		closer io.Closer
	)
	if cfg.LogFile != "" {
		plugin, closer = NewFilePlugin(cfg.LogFile, logLevel)
	} else {
		plugin = NewStderrPlugin(logLevel)
	}
	logger := NewLogger(plugin)
	logger.Debug("log init end", zap.String("level", logLevel.String()))

	// set zap global logger
	zap.ReplaceGlobals(logger)

	return logger, closer, nil
}
