package job_test

import (
	"errors"
	"testing"

	"dubber/internal/job"
)

func TestDecodeMessage(t *testing.T) {
	body := []byte(`{"jobId":"42","sourceObjectKey":"uploads/raw.mp4","targetLanguage":"es","optionsJson":{"voice":"alto"}}`)
	desc, err := job.DecodeMessage(body)
	if err != nil {
		t.Fatalf("DecodeMessage returned error: %v", err)
	}
	if desc.ID != "42" || desc.SourceObjectKey != "uploads/raw.mp4" || desc.TargetLanguage != "es" {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
	if len(desc.Options) == 0 {
		t.Fatal("expected options passthrough")
	}
}

func TestDecodeMessageMalformed(t *testing.T) {
	cases := map[string][]byte{
		"not json":       []byte("not-json"),
		"missing job id": []byte(`{"sourceObjectKey":"x","targetLanguage":"es"}`),
		"blank job id":   []byte(`{"jobId":"  ","sourceObjectKey":"x"}`),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := job.DecodeMessage(body); !errors.Is(err, job.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestDescriptorValidate(t *testing.T) {
	desc := job.Descriptor{ID: "1", SourceObjectKey: "k", TargetLanguage: "pt-BR"}
	if err := desc.Validate(); err != nil {
		t.Fatalf("expected valid descriptor, got %v", err)
	}

	desc.TargetLanguage = "not a language"
	if err := desc.Validate(); err == nil {
		t.Fatal("expected invalid language to fail validation")
	}
	desc.TargetLanguage = "es"
	desc.SourceObjectKey = ""
	if err := desc.Validate(); err == nil {
		t.Fatal("expected missing source key to fail validation")
	}
}

func TestStatusTransitionsAreMonotone(t *testing.T) {
	if !job.StatusReceived.CanTransition(job.StatusProcessing) {
		t.Fatal("RECEIVED -> PROCESSING must be allowed")
	}
	if !job.StatusProcessing.CanTransition(job.StatusCompleted) {
		t.Fatal("PROCESSING -> COMPLETED must be allowed")
	}
	if !job.StatusProcessing.CanTransition(job.StatusFailed) {
		t.Fatal("PROCESSING -> FAILED must be allowed")
	}
	if job.StatusCompleted.CanTransition(job.StatusProcessing) {
		t.Fatal("terminal states must not regress")
	}
	if job.StatusFailed.CanTransition(job.StatusCompleted) {
		t.Fatal("FAILED must not become COMPLETED")
	}
	if !job.StatusCompleted.CanTransition(job.StatusCompleted) {
		t.Fatal("re-asserting a terminal state must be allowed")
	}
}

func TestSegmentDerivedValues(t *testing.T) {
	seg := job.Segment{Index: 3, Start: 12.5, End: 42.5, Text: "hola"}
	if seg.PositionMs() != 12500 {
		t.Fatalf("unexpected position: %d", seg.PositionMs())
	}
	if seg.TargetDurationMs() != 30000 {
		t.Fatalf("unexpected target duration: %d", seg.TargetDurationMs())
	}
}

func TestOutputKey(t *testing.T) {
	if got := job.OutputKey("abc"); got != "dubbed_abc.mp4" {
		t.Fatalf("unexpected output key: %q", got)
	}
}
