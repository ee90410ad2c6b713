package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"info":    logrus.InfoLevel,
		" DEBUG ": logrus.DebugLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := levelFromString(in); got != want {
			t.Errorf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wortify.log")
	logger, closer := New(path, "debug")
	logger.WithField("component", "test").Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "msg=hello") || !strings.Contains(string(raw), "component=test") {
		t.Fatalf("log output = %q", raw)
	}
}

func TestNewWithoutFileDiscards(t *testing.T) {
	logger, closer := New("", "info")
	defer closer.Close()
	if logger.Out == nil {
		t.Fatal("logger has no output")
	}
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		t.Fatal("debug enabled at info level")
	}
}
