package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"dubber/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerHeaderFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	handler := newConsoleHandler(&buf, lvl, false)
	logger := slog.New(handler).With(
		String(FieldComponent, "pipeline"),
		String(FieldJobID, "job-7"),
		String(FieldStage, "dubbing"),
	)

	logger.Info("stage started", String("activity", "Dubbing 1/5 segments..."))

	out := buf.String()
	for _, want := range []string{"INFO", "[pipeline]", "Job job-7 (dubbing)", "stage started", "activity: Dubbing 1/5 segments..."} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output %q", want, out)
		}
	}
}

func TestConsoleHandlerDedupesRepeatedKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("message", String("key", "first"), String("key", "second"))

	out := buf.String()
	if strings.Count(out, "key:") != 1 {
		t.Fatalf("expected deduped key, got %q", out)
	}
	if !strings.Contains(out, "key: second") {
		t.Fatalf("expected last value to win, got %q", out)
	}
}

func TestWithContextAddsJobFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	ctx := services.WithJobID(context.Background(), "job-9")
	ctx = services.WithStage(ctx, "uploading")
	WithContext(ctx, logger).Info("upload complete")

	out := buf.String()
	if !strings.Contains(out, "Job job-9 (uploading)") {
		t.Fatalf("expected context-derived subject, got %q", out)
	}
}

func TestNoopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should not enable any level")
	}
}
