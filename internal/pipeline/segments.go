package pipeline

import (
	"context"
	"fmt"
	"strings"

	"dubber/internal/audio"
	"dubber/internal/job"
	"dubber/internal/logging"
	"dubber/internal/report"
)

// DubbedClip is one segment's synthesized audio, stretched to the segment's
// original timing and positioned on the output timeline.
type DubbedClip struct {
	PositionMs int
	Clip       *audio.Clip
}

// Translator converts text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Synthesizer renders text as WAV audio in the given language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// dubSegment produces the clip for one transcript segment. A nil clip with a
// nil error means the segment was skipped (empty text). Translation failures
// fall back to the untranslated text; only synthesis or decode failures
// surface as errors, and the dispatcher absorbs those per segment.
func (p *Pipeline) dubSegment(ctx context.Context, seg job.Segment, targetLang string) (*DubbedClip, error) {
	text := strings.TrimSpace(seg.Text)
	if text == "" {
		return nil, nil
	}

	translated, err := p.translator.Translate(ctx, text, "", targetLang)
	if err != nil {
		logging.WarnWithContext(p.logger, "translation failed, using source text", "translate_fallback",
			logging.Int("segment", seg.Index),
			logging.Error(err))
		translated = text
	}
	if strings.TrimSpace(translated) == "" {
		translated = text
	}

	wavBytes, err := p.synth.Synthesize(ctx, translated, targetLang)
	if err != nil {
		return nil, fmt.Errorf("synthesize segment %d: %w", seg.Index, err)
	}
	clip, err := audio.DecodeWAV(wavBytes)
	if err != nil {
		return nil, fmt.Errorf("decode segment %d audio: %w", seg.Index, err)
	}

	if clip.DurationMs() > 0 {
		clip = clip.StretchTo(seg.TargetDurationMs(), p.outputRate)
	}

	return &DubbedClip{PositionMs: seg.PositionMs(), Clip: clip}, nil
}

// dubSegments runs dubSegment over all segments with a fixed pool of
// workers draining an index channel, and collects results in submission
// order. Progress climbs from 40 toward 80 as segments complete; every
// tenth completion and the final one also push an activity line through the
// reporter. Per-segment failures are logged and skipped. The only error
// returned is context cancellation.
func (p *Pipeline) dubSegments(ctx context.Context, jobID string, segments []job.Segment, targetLang string, hb *Heartbeat) ([]*DubbedClip, error) {
	total := len(segments)
	if total == 0 {
		return nil, nil
	}

	type outcome struct {
		clip *DubbedClip
		err  error
	}
	results := make([]outcome, total)
	done := make([]chan struct{}, total)
	for i := range done {
		done[i] = make(chan struct{})
	}

	workers := p.segmentWorkers
	if workers > total {
		workers = total
	}
	work := make(chan int)
	for w := 0; w < workers; w++ {
		go func() {
			for i := range work {
				clip, err := p.dubSegment(ctx, segments[i], targetLang)
				results[i] = outcome{clip: clip, err: err}
				close(done[i])
			}
		}()
	}
	go func() {
		defer close(work)
		for i := 0; i < total; i++ {
			select {
			case work <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	clips := make([]*DubbedClip, 0, total)
	for i := 0; i < total; i++ {
		select {
		case <-done[i]:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := results[i]
		switch {
		case res.err != nil:
			p.logger.Warn("segment skipped",
				logging.Int("segment", i),
				logging.Error(res.err))
		case res.clip != nil:
			clips = append(clips, res.clip)
		}

		completed := i + 1
		progress := 40 + int(float64(completed)/float64(total)*40)
		hb.SetProgress(progress)
		if completed%10 == 0 || completed == total {
			activity := fmt.Sprintf("Dubbing %d/%d segments...", completed, total)
			hb.Set(activity, progress)
			p.reporter.Report(ctx, jobID, report.ProgressUpdate(progress, activity))
		}
	}
	return clips, nil
}
