package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dubber/internal/logging"
	"dubber/internal/report"
)

// Heartbeat re-reports the current activity, progress, and estimated time
// remaining for one job at a fixed cadence, independently of stage
// transitions, so long-running stages are never silent.
//
// The baseline for the estimate is set once at start; remaining time counts
// down from it. Activity and progress are written by the pipeline and the
// segment dispatcher while the heartbeat goroutine reads them, so all access
// goes through the mutex.
type Heartbeat struct {
	reporter    report.Reporter
	logger      *slog.Logger
	jobID       string
	interval    time.Duration
	etrBaseline float64

	mu       sync.Mutex
	activity string
	progress int

	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewHeartbeat creates a heartbeat for one job. etrBaselineSeconds is the
// initial remaining-time estimate the countdown starts from.
func NewHeartbeat(reporter report.Reporter, logger *slog.Logger, jobID string, interval time.Duration, etrBaselineSeconds float64) *Heartbeat {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Heartbeat{
		reporter:    reporter,
		logger:      logger,
		jobID:       jobID,
		interval:    interval,
		etrBaseline: etrBaselineSeconds,
		activity:    "Processing...",
	}
}

// Set updates the activity and progress snapshot the next pulse will report.
func (h *Heartbeat) Set(activity string, progress int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activity = activity
	h.progress = progress
}

// SetProgress updates only the progress value.
func (h *Heartbeat) SetProgress(progress int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.progress = progress
}

// Start launches the heartbeat goroutine. It pulses every interval until
// Stop is called or ctx is cancelled.
func (h *Heartbeat) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.startedAt = time.Now()
	h.wg.Add(1)
	go h.loop(loopCtx)
}

func (h *Heartbeat) loop(ctx context.Context) {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.pulse(ctx)
		}
	}
}

func (h *Heartbeat) pulse(ctx context.Context) {
	elapsed := time.Since(h.startedAt).Seconds()
	remaining := h.etrBaseline - elapsed
	if remaining < 0 {
		remaining = 0
	}
	etr := FormatSeconds(remaining)

	h.mu.Lock()
	activity := h.activity
	progress := h.progress
	h.mu.Unlock()

	h.reporter.Report(ctx, h.jobID, report.Update{
		Progress:               &progress,
		Activity:               &activity,
		EstimatedTimeRemaining: &etr,
	})
	h.logger.Debug("heartbeat pulse",
		logging.String(logging.FieldJobID, h.jobID),
		logging.Int("progress", progress),
		logging.String("etr", etr))
}

// Stop terminates the heartbeat goroutine and waits for it to exit. No
// reports are sent after Stop returns. Safe to call multiple times and
// before Start.
func (h *Heartbeat) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	h.wg.Wait()
	h.cancel = nil
}
