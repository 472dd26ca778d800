package slogutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"", 0, false},
		{"100", 100, false},
		{"100b", 100, false},
		{"100 kB", 100 * 1000, false},
		{"10MB", 10 * 1000 * 1000, false},
		{"10M", 10 * 1000 * 1000, false},
		{"10MiB", 10 * 1024 * 1024, false},
		{"1.5GiB", int64(1.5 * 1024 * 1024 * 1024), false},
		{"invalid", 0, true},
		{"-5MB", 0, true},
		{"1e6", 0, true},
		{"0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRotationMegabytes(t *testing.T) {
	tests := []struct {
		size int64
		want int
	}{
		{0, 0},
		{1, 1},
		{megabyte, 1},
		{megabyte + 1, 2},
		{10 * 1000 * 1000, 10},
	}
	for _, tt := range tests {
		if got := rotationMegabytes(tt.size); got != tt.want {
			t.Errorf("rotationMegabytes(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestNewFileHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jsstyle.log")

	h, closer, err := NewFileHandler(path, slog.LevelInfo, "", 0)
	if err != nil {
		t.Fatalf("NewFileHandler failed: %v", err)
	}
	slog.New(h).Info("cache opened", "entries", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "cache opened | entries=3") {
		t.Errorf("unexpected log contents: %s", data)
	}
}

func TestNewFileHandler_Rotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsstyle.log")

	h, closer, err := NewFileHandler(path, slog.LevelInfo, "1MiB", 1)
	if err != nil {
		t.Fatalf("NewFileHandler failed: %v", err)
	}
	logger := slog.New(h)
	payload := strings.Repeat("x", 1000)
	for i := 0; i < 1200; i++ {
		logger.Info("File linted", "n", i, "payload", payload)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) < 2 {
		t.Errorf("expected the log and a rotated backup, got %d files", len(entries))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() > megabyte {
		t.Errorf("active log is %d bytes, want at most %d", info.Size(), megabyte)
	}
}

func TestNewFileHandler_BadSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsstyle.log")
	if _, _, err := NewFileHandler(path, slog.LevelInfo, "10 parsecs", 0); err == nil {
		t.Fatal("NewFileHandler should reject an unparsable size")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no log file should be created for a rejected size")
	}
}
