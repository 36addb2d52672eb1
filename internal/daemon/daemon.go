// Package daemon ties the intake consumer and the pipeline into a
// single-instance background worker.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"dubber/internal/config"
	"dubber/internal/intake"
	"dubber/internal/journal"
	"dubber/internal/logging"
)

// Daemon coordinates the consumer lifecycle and enforces single-instance
// execution through a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	consumer *intake.Consumer
	journal  *journal.Journal

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, consumer *intake.Consumer, j *journal.Journal, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || consumer == nil || j == nil {
		return nil, errors.New("daemon requires config, consumer, and journal")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "dubberd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		consumer: consumer,
		journal:  j,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the consumer loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another dubber daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("consumer exited", logging.Error(err))
		}
	}()

	d.logger.Info("dubber daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts the consumer and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("dubber daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if d.consumer != nil {
		errs = append(errs, d.consumer.Close())
	}
	if d.journal != nil {
		errs = append(errs, d.journal.Close())
	}
	return errors.Join(errs...)
}

// Running reports whether the daemon is currently active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}
