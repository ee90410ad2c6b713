// Package logging builds the process logger. The TUI owns the terminal, so
// logs go to a rotating file or nowhere.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to file at level. An empty file discards
// output. The returned closer releases the file.
func New(file, level string) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetLevel(levelFromString(level))
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	if strings.TrimSpace(file) == "" {
		logger.SetOutput(io.Discard)
		return logger, nopCloser{}
	}
	out := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	logger.SetOutput(out)
	return logger, out
}

func levelFromString(value string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	case "trace":
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
