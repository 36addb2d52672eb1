package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dubber/internal/services"
)

type fakeExecutor struct {
	binary string
	args   []string
	out    string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) (string, error) {
	f.binary = binary
	f.args = args
	return f.out, f.err
}

func TestExtractAudioArguments(t *testing.T) {
	fake := &fakeExecutor{}
	client, err := New("ffmpeg", "ffprobe", WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}

	if err := client.ExtractAudio(context.Background(), "in.mp4", "out.wav"); err != nil {
		t.Fatalf("ExtractAudio returned error: %v", err)
	}
	if fake.binary != "ffmpeg" {
		t.Fatalf("unexpected binary: %q", fake.binary)
	}
	joined := strings.Join(fake.args, " ")
	for _, want := range []string{"-i in.mp4", "-vn", "-ac 1", "-ar 16000", "-f wav", "out.wav"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in args %q", want, joined)
		}
	}
}

func TestProbeDurationParsesOutput(t *testing.T) {
	fake := &fakeExecutor{out: "123.456\n"}
	client, _ := New("ffmpeg", "ffprobe", WithExecutor(fake))

	duration, err := client.ProbeDuration(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("ProbeDuration returned error: %v", err)
	}
	if duration != 123.456 {
		t.Fatalf("unexpected duration: %v", duration)
	}
	if fake.binary != "ffprobe" {
		t.Fatalf("unexpected binary: %q", fake.binary)
	}
}

func TestProbeDurationRejectsGarbage(t *testing.T) {
	fake := &fakeExecutor{out: "N/A"}
	client, _ := New("ffmpeg", "ffprobe", WithExecutor(fake))

	if _, err := client.ProbeDuration(context.Background(), "in.mp4"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestMuxArgumentsAndFailure(t *testing.T) {
	fake := &fakeExecutor{}
	client, _ := New("ffmpeg", "ffprobe", WithExecutor(fake))

	if err := client.Mux(context.Background(), "in.mp4", "dub.wav", "out.mp4"); err != nil {
		t.Fatalf("Mux returned error: %v", err)
	}
	joined := strings.Join(fake.args, " ")
	for _, want := range []string{"-i in.mp4", "-i dub.wav", "-map 0:v", "-map 1:a", "-c:v libx264", "-c:a aac", "out.mp4"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in args %q", want, joined)
		}
	}

	fake.err = errors.New("boom")
	if err := client.Mux(context.Background(), "in.mp4", "dub.wav", "out.mp4"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestNewRequiresBinaries(t *testing.T) {
	if _, err := New("", "ffprobe"); err == nil {
		t.Fatal("expected error for missing ffmpeg binary")
	}
}
