// Package observability provides the process-wide loggers. Commands and the
// HTTP gateway log through package-level zap loggers initialized once at
// startup.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the logger used by CLI commands. It defaults to a no-op
// logger so library consumers and tests never write unexpected output.
var CLILogger = zap.NewNop()

// ServerLogger is the logger used by the HTTP gateway.
var ServerLogger = zap.NewNop()

// InitLogging configures CLILogger and ServerLogger. Format is "console" or
// "json"; level is any zap level string ("debug", "info", "warn", "error").
func InitLogging(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	CLILogger = logger
	ServerLogger = logger.Named("server")
	return nil
}

// Sync flushes buffered log entries. Called on process exit.
func Sync() {
	_ = CLILogger.Sync()
	_ = ServerLogger.Sync()
}
