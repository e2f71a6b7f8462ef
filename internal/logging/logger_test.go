package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNewRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	New(slog.LevelInfo, &buf).Info("failed", "error", errors.New("boom"))
	if !strings.Contains(buf.String(), "err=boom") {
		t.Errorf("unexpected record: %s", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mazeviz.log")
	logger, closer, err := Open("warn", path, nil)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "dropped") || !strings.Contains(string(data), "kept") {
		t.Errorf("unexpected log file: %s", data)
	}
}

func TestOpenWithoutFile(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Open("info", "", &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	logger.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected the fallback writer to receive logs: %q", buf.String())
	}

	if _, _, err := Open("loud", "", nil); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
