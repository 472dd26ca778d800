package main

import (
	"path/filepath"
	"testing"

	"jsstyle/internal/config"
	"jsstyle/internal/errors"
)

func TestSession_BadLogSize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "jsstyle.log")
	cfg.Logging.MaxSize = "1e6"
	s := &session{cfg: cfg}

	if _, err := s.newLogger(); !errors.Is(err, errors.ConfigInvalid) {
		t.Errorf("newLogger() error = %v, want CONFIG_INVALID", err)
	}
	if _, err := s.activeRules(); !errors.Is(err, errors.ConfigInvalid) {
		t.Errorf("activeRules() error = %v, want CONFIG_INVALID", err)
	}
}

func TestSession_LogFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "jsstyle.log")
	cfg.Logging.MaxSize = "10MiB"
	s := &session{cfg: cfg}
	defer s.Close()

	logger, err := s.newLogger()
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Warn("Cache disabled")
	if len(s.closers) != 1 {
		t.Errorf("closers = %d, want 1", len(s.closers))
	}
}
