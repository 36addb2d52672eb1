// Package media wraps the ffmpeg and ffprobe executables used for audio
// extraction, duration probing, and muxing the dubbed track back onto the
// source video.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"dubber/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client invokes ffmpeg/ffprobe for the pipeline's media operations.
type Client struct {
	ffmpeg  string
	ffprobe string
	exec    Executor
}

// New constructs a media client around the given binaries.
func New(ffmpegBinary, ffprobeBinary string, opts ...Option) (*Client, error) {
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	ffprobeBinary = strings.TrimSpace(ffprobeBinary)
	if ffmpegBinary == "" || ffprobeBinary == "" {
		return nil, errors.New("ffmpeg and ffprobe binaries required")
	}
	client := &Client{
		ffmpeg:  ffmpegBinary,
		ffprobe: ffprobeBinary,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ExtractAudio demuxes the video's audio track into a mono 16 kHz WAV file,
// the format the transcription models consume.
func (c *Client) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	args := []string{
		"-y", "-i", videoPath,
		"-vn",
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		outPath,
	}
	if _, err := c.exec.Run(ctx, c.ffmpeg, args); err != nil {
		return services.Wrap(services.ErrExternalTool, "extracting_audio", "ffmpeg", "audio extraction failed", err)
	}
	return nil
}

// ProbeDuration returns the container duration of a media file in seconds.
func (c *Client) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	out, err := c.exec.Run(ctx, c.ffprobe, args)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "extracting_audio", "ffprobe", "duration probe failed", err)
	}
	value := strings.TrimSpace(out)
	duration, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "extracting_audio", "ffprobe", fmt.Sprintf("unparseable duration %q", value), err)
	}
	if duration <= 0 {
		return 0, services.Wrap(services.ErrExternalTool, "extracting_audio", "ffprobe", fmt.Sprintf("non-positive duration %v", duration), nil)
	}
	return duration, nil
}

// Mux replaces the video's audio with the assembled dubbed track, re-encoding
// to H.264/AAC as the downstream players expect.
func (c *Client) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v", "-map", "1:a",
		"-c:v", "libx264",
		"-c:a", "aac",
		outPath,
	}
	if _, err := c.exec.Run(ctx, c.ffmpeg, args); err != nil {
		return services.Wrap(services.ErrExternalTool, "merging", "ffmpeg", "mux failed", err)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return stdout.String(), fmt.Errorf("%s: %w: %s", binary, err, tail(detail, 512))
		}
		return stdout.String(), fmt.Errorf("%s: %w", binary, err)
	}
	return stdout.String(), nil
}

func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
