package config

import (
	"os"

	"github.com/orbitarch/orbitarch-service-go/log"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger from LogFormat, LogLevel and LogFilter and
// installs it as default logger.
func SetupLogger() (*log.Logger, error) {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if LogFilter != "" {
		filter, err := log.WithFilter(LogFilter)
		if err != nil {
			return nil, err
		}
		opts = append(opts, filter)
	}
	var logger *log.Logger
	switch LogFormat {
	case "json":
		logger = log.New(os.Stderr, ParseLogLevel(LogLevel, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(os.Stderr, ParseLogLevel(LogLevel, log.DebugLevel), opts...)
	}
	log.ResetDefault(logger)
	return logger, nil
}
