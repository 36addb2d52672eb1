// Package asr provides speech-recognition collaborator clients. The pipeline
// only depends on the Transcriber contract; the concrete backend (self-hosted
// whisper service or hosted OpenAI transcription) is chosen by configuration.
package asr

import (
	"context"
	"fmt"

	"dubber/internal/config"
	"dubber/internal/job"
)

// Transcriber converts an audio file into ordered transcript segments.
// Implementations return segments sorted by start time with contiguous
// 0-based indexes.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]job.Segment, error)
}

// NewFromConfig builds the configured transcription backend.
func NewFromConfig(cfg *config.Config) (Transcriber, error) {
	switch cfg.ASR.Backend {
	case config.ASRBackendWhisper:
		return NewWhisperClient(cfg.ASR.WhisperURL, cfg.ASR.RequestTimeout)
	case config.ASRBackendOpenAI:
		return NewOpenAIBackend(cfg.ASR.OpenAIAPIKey, cfg.ASR.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown asr backend %q", cfg.ASR.Backend)
	}
}

func indexSegments(segments []job.Segment) []job.Segment {
	for i := range segments {
		segments[i].Index = i
	}
	return segments
}
