package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dubber/internal/job"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenPath(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndLookup(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	err := j.Record(ctx, Entry{
		JobID:          "job-1",
		Status:         job.StatusCompleted,
		TargetLanguage: "es",
		OutputKey:      "dubbed_job-1.mp4",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	entry, err := j.Lookup(ctx, "job-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry == nil {
		t.Fatal("expected stored entry")
	}
	if entry.Status != job.StatusCompleted || entry.OutputKey != "dubbed_job-1.mp4" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.CompletedAt.IsZero() {
		t.Error("expected completion timestamp to be set")
	}
}

func TestLookupMissingReturnsNil(t *testing.T) {
	j := openTestJournal(t)

	entry, err := j.Lookup(context.Background(), "nope")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %+v", entry)
	}
}

func TestRecordRejectsNonTerminalStatus(t *testing.T) {
	j := openTestJournal(t)

	err := j.Record(context.Background(), Entry{JobID: "job-1", Status: job.StatusProcessing})
	if err == nil {
		t.Fatal("expected error for non-terminal status")
	}
}

func TestRecordUpsertsExistingJob(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	if err := j.Record(ctx, Entry{JobID: "job-1", Status: job.StatusFailed, ErrorMessage: "download failed"}); err != nil {
		t.Fatal(err)
	}
	if err := j.Record(ctx, Entry{JobID: "job-1", Status: job.StatusCompleted, OutputKey: "dubbed_job-1.mp4"}); err != nil {
		t.Fatal(err)
	}

	entry, err := j.Lookup(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != job.StatusCompleted {
		t.Fatalf("expected upserted status, got %q", entry.Status)
	}
	if entry.ErrorMessage != "" {
		t.Fatalf("expected error message cleared, got %q", entry.ErrorMessage)
	}
}

func TestListNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"job-a", "job-b", "job-c"} {
		err := j.Record(ctx, Entry{
			JobID:       id,
			Status:      job.StatusCompleted,
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := j.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].JobID != "job-c" || entries[1].JobID != "job-b" {
		t.Fatalf("unexpected order: %s, %s", entries[0].JobID, entries[1].JobID)
	}
}
