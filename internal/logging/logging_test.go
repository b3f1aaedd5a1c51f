package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreInitLoggerUsesConfiguredHandler(t *testing.T) {
	logger := L("gateway")

	var buf bytes.Buffer
	Init("text", "info", &buf)
	t.Cleanup(func() { Init("text", "warn", os.Stderr) })

	logger.Info("identifier read", "identifier", "cpu")

	out := buf.String()
	if !strings.Contains(out, "msg=\"identifier read\"") {
		t.Fatalf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=gateway") {
		t.Fatalf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "identifier=cpu") {
		t.Fatalf("expected identifier field, got: %s", out)
	}
}

func TestPreInitLoggerRespectsConfiguredLevel(t *testing.T) {
	logger := L("console")

	var buf bytes.Buffer
	Init("text", "warn", &buf)
	t.Cleanup(func() { Init("text", "warn", os.Stderr) })

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info log should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn log should be emitted: %s", out)
	}
}

func TestInitJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("json", "debug", &buf)
	t.Cleanup(func() { Init("text", "warn", os.Stderr) })

	WithOp(L("gateway"), "BackupRegistryKeys").Debug("export")

	out := buf.String()
	if !strings.Contains(out, `"op":"BackupRegistryKeys"`) {
		t.Fatalf("expected json op field, got: %s", out)
	}

	// switching back and forth between handler types must keep working
	var text bytes.Buffer
	Init("text", "info", &text)
	L("cli").Info("after switch")
	Init("json", "info", &buf)
	if !strings.Contains(text.String(), "msg=\"after switch\"") {
		t.Fatalf("expected text output after switching from json, got: %s", text.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	logger := L("test")
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatal("expected logger from context")
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger")
	}
}

func TestRotatingWriterRollsOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hwid.log")
	w, err := NewRotatingWriter(path, 1, 2)
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}
	defer w.Close()

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for i := 0; i < 4; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	for _, name := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(name); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected at most 2 backups, stat .3 err = %v", err)
	}
}
