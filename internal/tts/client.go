// Package tts provides the client for the speech-synthesis collaborator
// service.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"dubber/internal/config"
)

// Client talks to the synthesis service. Synthesis is a two-step exchange:
// POST {base}/synthesize returns the server-side path of the rendered file,
// then GET {base}/audio/{filename} streams the WAV bytes.
type Client struct {
	baseURL string
	voice   string
	client  *http.Client
}

// New constructs a synthesis client.
func New(baseURL, voice string, timeoutSeconds int) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tts base URL required")
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL: baseURL,
		voice:   voice,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// NewFromConfig constructs a synthesis client from configuration.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	return New(cfg.TTS.URL, cfg.TTS.Voice, cfg.TTS.RequestTimeout)
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Lang  string `json:"lang"`
	Voice string `json:"voice,omitempty"`
}

type synthesizeResponse struct {
	AudioPath string `json:"audio_path"`
}

// Synthesize renders text in the given language and returns the WAV bytes.
func (c *Client) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	payload, err := json.Marshal(synthesizeRequest{
		Text:  text,
		Lang:  lang,
		Voice: c.voice,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("synthesize: http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode synthesis response: %w", err)
	}
	if decoded.AudioPath == "" {
		return nil, errors.New("synthesize: empty audio path in response")
	}

	return c.fetchAudio(ctx, path.Base(decoded.AudioPath))
}

func (c *Client) fetchAudio(ctx context.Context, filename string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/audio/"+filename, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch audio: http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}
	return data, nil
}
