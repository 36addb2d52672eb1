package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"dubber/internal/job"
	"dubber/internal/logging"
)

func TestReporterPatchesJob(t *testing.T) {
	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/job/job-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Correlation-ID") == "" {
			t.Error("missing correlation ID header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reporter, err := New(server.URL, 5, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	update := StatusUpdate(job.StatusProcessing)
	update.Progress = Ptr(40)
	update.Activity = Ptr("Transcribing audio...")
	reporter.Report(context.Background(), "job-123", update)

	if got["status"] != "PROCESSING" {
		t.Errorf("status = %v", got["status"])
	}
	if got["progress"] != float64(40) {
		t.Errorf("progress = %v", got["progress"])
	}
	if got["activity"] != "Transcribing audio..." {
		t.Errorf("activity = %v", got["activity"])
	}
	if _, present := got["outputObjectKey"]; present {
		t.Error("unset fields must be omitted from the patch body")
	}
}

func TestReporterSwallowsDeliveryFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	reporter, err := New(server.URL, 5, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	// Must not panic or surface an error to the caller.
	reporter.Report(context.Background(), "job-123", ProgressUpdate(10, ""))
	if calls.Load() != 1 {
		t.Fatalf("expected 1 delivery attempt, got %d", calls.Load())
	}
}
