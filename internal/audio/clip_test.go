package audio

import (
	"math"
	"testing"
)

func sineClip(rate, durationMs int) *Clip {
	n := rate * durationMs / 1000
	samples := make([]int, n)
	for i := range samples {
		samples[i] = int(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	return &Clip{SampleRate: rate, Samples: samples}
}

func TestStretchToCompressesLongClip(t *testing.T) {
	// A 45 s synthesized clip squeezed into a 30 s slot: speed factor 1.5.
	clip := sineClip(22050, 45000)
	stretched := clip.StretchTo(30000, 44100)

	if stretched.SampleRate != 44100 {
		t.Fatalf("unexpected sample rate: %d", stretched.SampleRate)
	}
	got := stretched.DurationMs()
	if got < 29990 || got > 30010 {
		t.Fatalf("expected ~30000ms after stretch, got %dms", got)
	}
}

func TestStretchToExpandsShortClip(t *testing.T) {
	clip := sineClip(44100, 2000)
	stretched := clip.StretchTo(4000, 44100)
	got := stretched.DurationMs()
	if got < 3990 || got > 4010 {
		t.Fatalf("expected ~4000ms after stretch, got %dms", got)
	}
}

func TestStretchToZeroTargetFallsBackToResample(t *testing.T) {
	clip := sineClip(22050, 1000)
	out := clip.StretchTo(0, 44100)
	got := out.DurationMs()
	if got < 990 || got > 1010 {
		t.Fatalf("expected duration preserved, got %dms", got)
	}
}

func TestResamplePreservesDuration(t *testing.T) {
	clip := sineClip(22050, 3000)
	out := clip.Resample(44100)
	if out.SampleRate != 44100 {
		t.Fatalf("unexpected rate: %d", out.SampleRate)
	}
	if got := out.DurationMs(); got < 2990 || got > 3010 {
		t.Fatalf("expected ~3000ms, got %dms", got)
	}
}

func TestTrackLengthIndependentOfOverlays(t *testing.T) {
	track := NewSilentTrack(10000, 44100)
	if track.DurationMs() != 10000 {
		t.Fatalf("unexpected track duration: %d", track.DurationMs())
	}

	// Overlay past the end must not grow the track.
	track.OverlayAt(sineClip(44100, 5000), 8000)
	if track.DurationMs() != 10000 {
		t.Fatalf("overlay changed track duration: %d", track.DurationMs())
	}
}

func TestOverlayMixesAdditively(t *testing.T) {
	track := NewSilentTrack(1000, 1000)
	clip := &Clip{SampleRate: 1000, Samples: []int{100, 100, 100}}
	track.OverlayAt(clip, 0)
	track.OverlayAt(clip, 0)

	samples := track.Samples()
	if samples[0] != 200 || samples[1] != 200 || samples[2] != 200 {
		t.Fatalf("expected additive mix, got %v", samples[:3])
	}
	if samples[3] != 0 {
		t.Fatal("expected silence beyond clip")
	}
}

func TestOverlayClampsToInt16(t *testing.T) {
	track := NewSilentTrack(10, 1000)
	loud := &Clip{SampleRate: 1000, Samples: []int{30000, -30000}}
	track.OverlayAt(loud, 0)
	track.OverlayAt(loud, 0)

	samples := track.Samples()
	if samples[0] != math.MaxInt16 {
		t.Fatalf("expected positive clamp, got %d", samples[0])
	}
	if samples[1] != math.MinInt16 {
		t.Fatalf("expected negative clamp, got %d", samples[1])
	}
}

func TestWAVRoundTrip(t *testing.T) {
	clip := sineClip(44100, 500)

	var buf writeSeekBuffer
	if err := EncodeWAV(clip, &buf); err != nil {
		t.Fatalf("EncodeWAV returned error: %v", err)
	}
	decoded, err := DecodeWAV(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeWAV returned error: %v", err)
	}
	if decoded.SampleRate != 44100 {
		t.Fatalf("unexpected rate: %d", decoded.SampleRate)
	}
	if got := decoded.DurationMs(); got < 490 || got > 510 {
		t.Fatalf("expected ~500ms, got %dms", got)
	}
}

// writeSeekBuffer implements io.WriteSeeker over a byte slice for the WAV
// encoder, which rewrites the header after the data chunk.
type writeSeekBuffer struct {
	data []byte
	pos  int
}

func (b *writeSeekBuffer) Write(p []byte) (int, error) {
	if b.pos+len(p) > len(b.data) {
		grown := make([]byte, b.pos+len(p))
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *writeSeekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		b.pos = int(offset)
	case 1:
		b.pos += int(offset)
	case 2:
		b.pos = len(b.data) + int(offset)
	}
	return int64(b.pos), nil
}

func (b *writeSeekBuffer) Bytes() []byte { return b.data }
