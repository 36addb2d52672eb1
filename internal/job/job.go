package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrMalformed marks an intake message that cannot identify a job. Such
// messages are dropped without any status report since there is nothing to
// report against.
var ErrMalformed = errors.New("malformed job message")

// Descriptor is one dubbing request, immutable once received from the queue.
type Descriptor struct {
	ID              string `json:"jobId"`
	SourceObjectKey string `json:"sourceObjectKey"`
	TargetLanguage  string `json:"targetLanguage"`
	// Options carries opaque extra options; the pipeline passes it through
	// untouched.
	Options json.RawMessage `json:"optionsJson,omitempty"`
}

// DecodeMessage parses a queue message body into a Descriptor. A body that is
// not JSON or that lacks a job ID yields ErrMalformed.
func DecodeMessage(body []byte) (Descriptor, error) {
	var desc Descriptor
	if err := json.Unmarshal(body, &desc); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	desc.ID = strings.TrimSpace(desc.ID)
	desc.SourceObjectKey = strings.TrimSpace(desc.SourceObjectKey)
	desc.TargetLanguage = strings.TrimSpace(desc.TargetLanguage)
	if desc.ID == "" {
		return Descriptor{}, fmt.Errorf("%w: missing jobId", ErrMalformed)
	}
	return desc, nil
}

// Validate checks the descriptor fields the pipeline depends on. Unlike
// DecodeMessage failures, a validation failure is reportable: the job has an
// ID and transitions to FAILED.
func (d Descriptor) Validate() error {
	if d.SourceObjectKey == "" {
		return errors.New("missing sourceObjectKey")
	}
	if d.TargetLanguage == "" {
		return errors.New("missing targetLanguage")
	}
	if err := ValidateLanguage(d.TargetLanguage); err != nil {
		return err
	}
	return nil
}

// ValidateLanguage checks that tag is a well-formed BCP 47 language tag.
func ValidateLanguage(tag string) error {
	if _, err := language.Parse(tag); err != nil {
		return fmt.Errorf("invalid target language %q: %w", tag, err)
	}
	return nil
}

// OutputKey derives the storage key for the dubbed result of a job.
func OutputKey(jobID string) string {
	return "dubbed_" + jobID + ".mp4"
}

// Segment is a time-bounded span of transcribed speech. Index is the 0-based
// timeline position used for ordering and logging; Start and End are offsets
// in seconds with Start < End. Text may be empty, in which case the segment is
// skipped rather than dubbed.
type Segment struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// TargetDurationMs returns the segment's timeline slot length in milliseconds.
func (s Segment) TargetDurationMs() int {
	return int((s.End - s.Start) * 1000)
}

// PositionMs returns the segment's timeline offset in milliseconds.
func (s Segment) PositionMs() int {
	return int(s.Start * 1000)
}
