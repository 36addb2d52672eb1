package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dubber/internal/asr"
	"dubber/internal/audio"
	"dubber/internal/config"
	"dubber/internal/job"
	"dubber/internal/journal"
	"dubber/internal/language"
	"dubber/internal/logging"
	"dubber/internal/report"
	"dubber/internal/services"
	"dubber/internal/storage"
)

// Muxer combines a video file with a replacement audio track.
type Muxer interface {
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
	Mux(ctx context.Context, videoPath, audioPath, outPath string) error
}

// OutcomeJournal records and recalls terminal job outcomes.
type OutcomeJournal interface {
	Lookup(ctx context.Context, jobID string) (*journal.Entry, error)
	Record(ctx context.Context, entry journal.Entry) error
}

// Pipeline processes one dubbing job at a time from descriptor to uploaded
// result.
type Pipeline struct {
	logger      *slog.Logger
	store       storage.ObjectStore
	media       Muxer
	transcriber asr.Transcriber
	translator  Translator
	synth       Synthesizer
	reporter    report.Reporter
	journal     OutcomeJournal

	workDir           string
	outputRate        int
	segmentWorkers    int
	heartbeatInterval time.Duration
	jobTimeout        time.Duration
}

// Deps bundles the collaborators a Pipeline needs.
type Deps struct {
	Logger      *slog.Logger
	Store       storage.ObjectStore
	Media       Muxer
	Transcriber asr.Transcriber
	Translator  Translator
	Synthesizer Synthesizer
	Reporter    report.Reporter
	Journal     OutcomeJournal
}

// New constructs a Pipeline from configuration and collaborators.
func New(cfg *config.Config, deps Deps) (*Pipeline, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("pipeline requires an object store")
	case deps.Media == nil:
		return nil, errors.New("pipeline requires a media client")
	case deps.Transcriber == nil:
		return nil, errors.New("pipeline requires a transcriber")
	case deps.Translator == nil:
		return nil, errors.New("pipeline requires a translator")
	case deps.Synthesizer == nil:
		return nil, errors.New("pipeline requires a synthesizer")
	case deps.Reporter == nil:
		return nil, errors.New("pipeline requires a reporter")
	case deps.Journal == nil:
		return nil, errors.New("pipeline requires a journal")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		logger:            logging.NewComponentLogger(logger, "pipeline"),
		store:             deps.Store,
		media:             deps.Media,
		transcriber:       deps.Transcriber,
		translator:        deps.Translator,
		synth:             deps.Synthesizer,
		reporter:          deps.Reporter,
		journal:           deps.Journal,
		workDir:           cfg.Paths.WorkDir,
		outputRate:        cfg.Workflow.OutputSampleRate,
		segmentWorkers:    cfg.Workflow.SegmentWorkers,
		heartbeatInterval: time.Duration(cfg.Workflow.HeartbeatInterval) * time.Second,
		jobTimeout:        time.Duration(cfg.Workflow.JobTimeout) * time.Second,
	}, nil
}

// Process runs one job end to end. The returned error is for logging only;
// by the time Process returns, the job's terminal status has already been
// reported and all scratch files removed.
func (p *Pipeline) Process(ctx context.Context, desc job.Descriptor) error {
	ctx = services.WithJobID(ctx, desc.ID)
	logger := logging.WithContext(ctx, p.logger)

	if err := desc.Validate(); err != nil {
		return p.fail(ctx, logger, desc, "Error: invalid job", err)
	}

	// Redelivery of a finished job must not dub it twice. A recorded
	// COMPLETED outcome is re-reported and the message treated as done;
	// a recorded FAILED outcome is processed again.
	if prior, err := p.journal.Lookup(ctx, desc.ID); err != nil {
		logger.Warn("journal lookup failed", logging.Error(err))
	} else if prior != nil && prior.Status == job.StatusCompleted {
		logger.Info("job already completed, re-reporting stored outcome")
		status := job.StatusCompleted
		p.reporter.Report(ctx, desc.ID, report.Update{
			Status:          &status,
			Progress:        report.Ptr(100),
			OutputObjectKey: report.Ptr(prior.OutputKey),
			Activity:        report.Ptr("Done!"),
		})
		return nil
	}

	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}

	started := time.Now()
	logger.Info("processing job",
		logging.String("source", desc.SourceObjectKey),
		logging.String("target_language", desc.TargetLanguage))

	status := job.StatusProcessing
	p.reporter.Report(ctx, desc.ID, report.Update{
		Status:                 &status,
		Progress:               report.Ptr(0),
		Activity:               report.Ptr("Preparing files..."),
		EstimatedTimeRemaining: report.Ptr(FormatSeconds(-1)),
	})

	ws, err := p.newWorkspace(desc.ID)
	if err != nil {
		return p.fail(ctx, logger, desc, "Error: workspace setup failed", err)
	}
	defer ws.cleanup(logger)

	var hb *Heartbeat
	defer func() {
		if hb != nil {
			hb.Stop()
		}
	}()

	// Download.
	p.reporter.Report(ctx, desc.ID, report.Update{
		Activity:               report.Ptr("Downloading source video..."),
		EstimatedTimeRemaining: report.Ptr(FormatSeconds(-1)),
	})
	if err := p.store.Fetch(ctx, desc.SourceObjectKey, ws.input); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return p.fail(ctx, logger, desc, "Error: File not found", err)
		}
		return p.fail(ctx, logger, desc, "Error: download failed", err)
	}
	p.reporter.Report(ctx, desc.ID, report.ProgressUpdate(10, "Extracting audio..."))

	// Extract audio and probe duration.
	if err := p.media.ExtractAudio(ctx, ws.input, ws.sourceAudio); err != nil {
		return p.fail(ctx, logger, desc, "Error: audio extraction failed", err)
	}
	durationSec, err := p.media.ProbeDuration(ctx, ws.input)
	if err != nil {
		return p.fail(ctx, logger, desc, "Error: unreadable media", err)
	}

	// The heartbeat starts once a meaningful estimate exists. Heuristic
	// from observed runs: processing takes about as long as the video.
	hb = NewHeartbeat(p.reporter, p.logger, desc.ID, p.heartbeatInterval, durationSec)
	hb.Set("Transcribing speech...", 20)
	hb.Start(ctx)

	// Transcription.
	segments, err := p.transcriber.Transcribe(ctx, ws.sourceAudio)
	if err != nil {
		return p.fail(ctx, logger, desc, "Error: transcription failed", err)
	}
	logger.Info("transcription complete", logging.Int("segments", len(segments)))

	// Parallel per-segment translate, synthesize, stretch.
	hb.Set(fmt.Sprintf("Dubbing %d segments...", len(segments)), 40)
	clips, err := p.dubSegments(ctx, desc.ID, segments, language.CollaboratorCode(desc.TargetLanguage), hb)
	if err != nil {
		return p.fail(ctx, logger, desc, "Error: dubbing aborted", err)
	}

	// Timeline assembly, single-threaded by design.
	track := audio.NewSilentTrack(int(durationSec*1000), p.outputRate)
	for _, clip := range clips {
		track.OverlayAt(clip.Clip, clip.PositionMs)
	}
	hb.Stop()
	hb = nil

	p.reporter.Report(ctx, desc.ID, report.Update{
		Progress:               report.Ptr(85),
		Activity:               report.Ptr("Merging audio with video..."),
		EstimatedTimeRemaining: report.Ptr("Finalizing..."),
	})
	if err := audio.WriteWAVFile(track.Clip(), ws.dubbedAudio); err != nil {
		return p.fail(ctx, logger, desc, "Error: audio assembly failed", err)
	}

	// Mux.
	if err := p.media.Mux(ctx, ws.input, ws.dubbedAudio, ws.output); err != nil {
		return p.fail(ctx, logger, desc, "Error: merge failed", err)
	}
	p.reporter.Report(ctx, desc.ID, report.ProgressUpdate(95, "Uploading final movie..."))

	// Upload.
	outputKey := job.OutputKey(desc.ID)
	if err := p.store.Store(ctx, outputKey, ws.output); err != nil {
		return p.fail(ctx, logger, desc, "Error: upload failed", err)
	}

	if err := p.journal.Record(ctx, journal.Entry{
		JobID:          desc.ID,
		Status:         job.StatusCompleted,
		TargetLanguage: desc.TargetLanguage,
		OutputKey:      outputKey,
	}); err != nil {
		logger.Warn("journal record failed", logging.Error(err))
	}

	final := job.StatusCompleted
	p.reporter.Report(ctx, desc.ID, report.Update{
		Status:                 &final,
		Progress:               report.Ptr(100),
		OutputObjectKey:        report.Ptr(outputKey),
		Activity:               report.Ptr("Done!"),
		EstimatedTimeRemaining: report.Ptr("0s"),
	})
	logger.Info("job completed", logging.Duration("elapsed", time.Since(started)))
	return nil
}

// fail reports the FAILED status with an activity hint, journals the
// outcome, and returns the original error for the caller's log.
func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, desc job.Descriptor, activity string, cause error) error {
	logging.ErrorWithContext(logger, "job failed", "job_failed",
		logging.String(logging.FieldErrorHint, activity),
		logging.Error(cause))

	// Reporting and journaling must survive a cancelled job context.
	reportCtx := context.WithoutCancel(ctx)
	status := job.StatusFailed
	p.reporter.Report(reportCtx, desc.ID, report.Update{
		Status:   &status,
		Activity: &activity,
	})
	if err := p.journal.Record(reportCtx, journal.Entry{
		JobID:          desc.ID,
		Status:         job.StatusFailed,
		TargetLanguage: desc.TargetLanguage,
		ErrorMessage:   cause.Error(),
	}); err != nil {
		logger.Warn("journal record failed", logging.Error(err))
	}
	return cause
}

// workspace holds the job-scoped scratch files.
type workspace struct {
	root        string
	input       string
	sourceAudio string
	dubbedAudio string
	output      string
}

func (p *Pipeline) newWorkspace(jobID string) (*workspace, error) {
	if err := os.MkdirAll(p.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	root, err := os.MkdirTemp(p.workDir, "job-"+jobID+"-")
	if err != nil {
		return nil, fmt.Errorf("create job workspace: %w", err)
	}
	return &workspace{
		root:        root,
		input:       filepath.Join(root, "input.mp4"),
		sourceAudio: filepath.Join(root, "audio.wav"),
		dubbedAudio: filepath.Join(root, "dubbed.wav"),
		output:      filepath.Join(root, "output.mp4"),
	}, nil
}

// cleanup removes the scratch directory. Failures are logged, never
// propagated.
func (ws *workspace) cleanup(logger *slog.Logger) {
	if err := os.RemoveAll(ws.root); err != nil {
		logger.Warn("workspace cleanup failed",
			logging.String("path", ws.root),
			logging.Error(err))
	}
}
