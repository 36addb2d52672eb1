package deps

import (
	"os"
	"path/filepath"
	"testing"

	"dubber/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
}

func TestRequirementsCoverMediaTools(t *testing.T) {
	cfg := config.Default()
	reqs := Requirements(&cfg)

	names := map[string]string{}
	for _, req := range reqs {
		names[req.Name] = req.Command
	}
	if names["FFmpeg"] != "ffmpeg" {
		t.Errorf("FFmpeg command = %q", names["FFmpeg"])
	}
	if names["FFprobe"] != "ffprobe" {
		t.Errorf("FFprobe command = %q", names["FFprobe"])
	}
}

func TestMissing(t *testing.T) {
	statuses := []Status{
		{Name: "Here", Available: true},
		{Name: "Gone", Available: false, Detail: `binary "gone" not found`},
		{Name: "OptionalGone", Available: false, Optional: true},
	}
	err := Missing(statuses)
	if err == nil {
		t.Fatal("expected error for missing required binary")
	}
	if got := err.Error(); got != `missing required binaries: Gone (binary "gone" not found)` {
		t.Errorf("unexpected error: %s", got)
	}

	if err := Missing(statuses[:1]); err != nil {
		t.Errorf("expected nil for all-available, got %v", err)
	}
}
