package slogutil

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/natefinch/lumberjack.v2"
)

const megabyte = 1 << 20

// ParseSize parses a log size such as "10MB", "10MiB", "512 kB" or "1048576".
// SI units are powers of 1000, IEC units powers of 1024. An empty string
// yields 0, meaning the default size.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n == 0 || n > math.MaxInt64 {
		return 0, fmt.Errorf("invalid size %q: out of range", s)
	}
	return int64(n), nil
}

// rotationMegabytes converts size to the whole megabytes lumberjack rotates
// at, rounding up. 0 keeps lumberjack's default of 100 megabytes.
func rotationMegabytes(size int64) int {
	return int((size + megabyte - 1) / megabyte)
}

// NewFileHandler returns a Handler appending to path, rotated once it grows
// past maxSize with at most maxBackups old files kept, together with its closer.
func NewFileHandler(path string, level slog.Level, maxSize string, maxBackups int) (slog.Handler, io.Closer, error) {
	size, err := ParseSize(maxSize)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}

	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotationMegabytes(size),
		MaxBackups: maxBackups,
	}
	return NewHandler(out, &slog.HandlerOptions{Level: level}), out, nil
}
