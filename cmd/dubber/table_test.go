package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Job", "Status", "Finished"},
		[][]string{
			{"job-1", "COMPLETED", "2026-08-28 10:00:00"},
			{"job-2"},
		},
		2,
	)

	for _, want := range []string{"Job", "Status", "Finished", "job-1", "COMPLETED", "2026-08-28 10:00:00", "job-2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in table output:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	width := utf8.RuneCountInString(lines[0])
	for _, line := range lines {
		if utf8.RuneCountInString(line) != width {
			t.Fatalf("ragged table row %q in output:\n%s", line, out)
		}
	}
}

func TestRenderTableRightAlignsNamedColumn(t *testing.T) {
	out := renderTable(
		[]string{"Job", "Finished"},
		[][]string{{"j", "9s"}},
		1,
	)

	// Right alignment pads the short value away from the column border.
	if !strings.Contains(out, " 9s ") || strings.Contains(out, "9s  ") {
		t.Fatalf("expected right-aligned value, got:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := renderTable(nil, nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
