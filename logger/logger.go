// Package logger builds the application logger from configuration.
package logger

import (
	"firewatch/config"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logrus logger writing to stdout and, when cfg.File is set, to a rotated log file.
// An unknown level falls back to info with a warning.
func New(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	level, levelErr := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if levelErr != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	log.SetOutput(out)

	if levelErr != nil {
		log.WithField("level", cfg.Level).Warn("⚠️  Unknown log level, using info")
	}
	return log
}
