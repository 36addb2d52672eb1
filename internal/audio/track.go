package audio

// Track is the full-length output timeline: a single mutable mono buffer,
// initialized silent, that dubbed clips are mixed onto. Assembly is
// single-threaded: one goroutine owns the track and applies clips in segment
// order, which keeps the final audio deterministic without per-offset locking.
type Track struct {
	sampleRate int
	samples    []int
}

// NewSilentTrack allocates a silent track covering totalMs at sampleRate.
func NewSilentTrack(totalMs, sampleRate int) *Track {
	if totalMs < 0 {
		totalMs = 0
	}
	if sampleRate <= 0 {
		sampleRate = 1
	}
	n := totalMs * sampleRate / 1000
	return &Track{sampleRate: sampleRate, samples: make([]int, n)}
}

// DurationMs returns the track length in milliseconds.
func (t *Track) DurationMs() int {
	if t == nil || t.sampleRate <= 0 {
		return 0
	}
	return len(t.samples) * 1000 / t.sampleRate
}

// SampleRate returns the track's sample rate.
func (t *Track) SampleRate() int { return t.sampleRate }

// Samples exposes the raw buffer for encoding and tests.
func (t *Track) Samples() []int { return t.samples }

// OverlayAt mixes the clip onto the track starting at positionMs. Overlapping
// audio is summed and clamped to 16-bit range; clip audio past the end of the
// track is discarded. Clips at a different sample rate are resampled first.
func (t *Track) OverlayAt(c *Clip, positionMs int) {
	if t == nil || c == nil || len(c.Samples) == 0 {
		return
	}
	if c.SampleRate != t.sampleRate {
		c = c.Resample(t.sampleRate)
	}
	start := positionMs * t.sampleRate / 1000
	if start < 0 {
		start = 0
	}
	for i, s := range c.Samples {
		idx := start + i
		if idx >= len(t.samples) {
			break
		}
		t.samples[idx] = clampSample(t.samples[idx] + s)
	}
}

// Clip returns the track contents as a Clip for encoding.
func (t *Track) Clip() *Clip {
	return &Clip{SampleRate: t.sampleRate, Samples: t.samples}
}
