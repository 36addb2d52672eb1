package config

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// ASRBackendWhisper selects the whisper transcription HTTP service.
	ASRBackendWhisper = "whisper"
	// ASRBackendOpenAI selects hosted OpenAI transcription.
	ASRBackendOpenAI = "openai"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Storage.Endpoint = strings.TrimSpace(c.Storage.Endpoint)
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Queue.URL = strings.TrimSpace(c.Queue.URL)
	c.Queue.QueueName = strings.TrimSpace(c.Queue.QueueName)
	c.StatusAPI.BaseURL = strings.TrimRight(strings.TrimSpace(c.StatusAPI.BaseURL), "/")
	c.ASR.Backend = strings.ToLower(strings.TrimSpace(c.ASR.Backend))
	c.ASR.WhisperURL = strings.TrimRight(strings.TrimSpace(c.ASR.WhisperURL), "/")
	c.Translate.URL = strings.TrimRight(strings.TrimSpace(c.Translate.URL), "/")
	c.TTS.URL = strings.TrimRight(strings.TrimSpace(c.TTS.URL), "/")

	if c.Queue.Prefetch <= 0 {
		c.Queue.Prefetch = defaultQueuePrefetch
	}
	if c.Workflow.SegmentWorkers <= 0 {
		c.Workflow.SegmentWorkers = defaultSegmentWorkers
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		c.Workflow.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Workflow.OutputSampleRate <= 0 {
		c.Workflow.OutputSampleRate = defaultOutputSampleRate
	}
	return nil
}

// Validate verifies that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("storage.endpoint must be set")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket must be set")
	}
	if c.Queue.URL == "" {
		return fmt.Errorf("queue.url must be set")
	}
	if !strings.HasPrefix(c.Queue.URL, "amqp://") && !strings.HasPrefix(c.Queue.URL, "amqps://") {
		return fmt.Errorf("queue.url must be an amqp:// or amqps:// URL, got %q", c.Queue.URL)
	}
	if c.Queue.QueueName == "" {
		return fmt.Errorf("queue.queue_name must be set")
	}
	if err := validateHTTPURL("status_api.base_url", c.StatusAPI.BaseURL); err != nil {
		return err
	}

	switch c.ASR.Backend {
	case ASRBackendWhisper:
		if err := validateHTTPURL("asr.whisper_url", c.ASR.WhisperURL); err != nil {
			return err
		}
	case ASRBackendOpenAI:
		if strings.TrimSpace(c.ASR.OpenAIAPIKey) == "" {
			return fmt.Errorf("asr.openai_api_key must be set when asr.backend is %q", ASRBackendOpenAI)
		}
	default:
		return fmt.Errorf("asr.backend must be %q or %q, got %q", ASRBackendWhisper, ASRBackendOpenAI, c.ASR.Backend)
	}

	if err := validateHTTPURL("translate.url", c.Translate.URL); err != nil {
		return err
	}
	if err := validateHTTPURL("tts.url", c.TTS.URL); err != nil {
		return err
	}

	if c.Workflow.JobTimeout < 0 {
		return fmt.Errorf("workflow.job_timeout must be zero or positive, got %d", c.Workflow.JobTimeout)
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", field)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", field, value)
	}
	return nil
}
