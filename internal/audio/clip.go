package audio

import (
	"errors"
	"math"
)

// Clip is mono 16-bit PCM audio at a known sample rate.
type Clip struct {
	SampleRate int
	Samples    []int
}

var errZeroRate = errors.New("clip sample rate must be positive")

// NewClip constructs a clip, copying samples.
func NewClip(sampleRate int, samples []int) (*Clip, error) {
	if sampleRate <= 0 {
		return nil, errZeroRate
	}
	cp := make([]int, len(samples))
	copy(cp, samples)
	return &Clip{SampleRate: sampleRate, Samples: cp}, nil
}

// DurationMs returns the clip's playback duration in milliseconds.
func (c *Clip) DurationMs() int {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return int(math.Round(float64(len(c.Samples)) / float64(c.SampleRate) * 1000))
}

// StretchTo re-times the clip so its playback duration becomes targetMs and
// its sample rate becomes outRate. The stretch is plain rate scaling: the
// existing samples are reinterpreted at SampleRate*speed and linearly
// resampled, so pitch shifts with speed.
func (c *Clip) StretchTo(targetMs, outRate int) *Clip {
	if c == nil || len(c.Samples) == 0 || outRate <= 0 {
		return &Clip{SampleRate: outRate}
	}
	if targetMs <= 0 {
		return c.Resample(outRate)
	}

	currentMs := c.DurationMs()
	if currentMs <= 0 {
		return &Clip{SampleRate: outRate}
	}
	speed := float64(currentMs) / float64(targetMs)
	effectiveRate := float64(c.SampleRate) * speed
	if effectiveRate <= 0 {
		return &Clip{SampleRate: outRate}
	}
	return &Clip{
		SampleRate: outRate,
		Samples:    resample(c.Samples, float64(outRate)/effectiveRate),
	}
}

// Resample converts the clip to outRate without changing its duration.
func (c *Clip) Resample(outRate int) *Clip {
	if c == nil || outRate <= 0 {
		return &Clip{SampleRate: outRate}
	}
	if c.SampleRate == outRate {
		cp := make([]int, len(c.Samples))
		copy(cp, c.Samples)
		return &Clip{SampleRate: outRate, Samples: cp}
	}
	return &Clip{
		SampleRate: outRate,
		Samples:    resample(c.Samples, float64(outRate)/float64(c.SampleRate)),
	}
}

// resample linearly interpolates samples by the given output/input ratio.
func resample(samples []int, ratio float64) []int {
	if len(samples) == 0 || ratio <= 0 {
		return nil
	}
	n := int(math.Round(float64(len(samples)) * ratio))
	if n <= 0 {
		n = 1
	}
	out := make([]int, n)
	last := len(samples) - 1
	for i := range out {
		src := float64(i) / ratio
		lo := int(src)
		if lo >= last {
			out[i] = samples[last]
			continue
		}
		frac := src - float64(lo)
		out[i] = int(math.Round(float64(samples[lo])*(1-frac) + float64(samples[lo+1])*frac))
	}
	return out
}

func clampSample(v int) int {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return v
}
