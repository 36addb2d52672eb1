package asr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"dubber/internal/job"
)

// OpenAIBackend transcribes through the hosted OpenAI transcription API,
// requesting verbose output so segment timings are available.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend constructs the hosted transcription backend.
func NewOpenAIBackend(apiKey, model string) (*OpenAIBackend, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key required")
	}
	if strings.TrimSpace(model) == "" {
		model = openai.Whisper1
	}
	return &OpenAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Transcribe runs hosted transcription and converts the verbose segment list.
func (b *OpenAIBackend) Transcribe(ctx context.Context, audioPath string) ([]job.Segment, error) {
	resp, err := b.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    b.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	segments := make([]job.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, job.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	if len(segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		// Some models omit timings; fall back to one whole-file segment.
		segments = append(segments, job.Segment{Start: 0, End: resp.Duration, Text: resp.Text})
	}
	return indexSegments(segments), nil
}
