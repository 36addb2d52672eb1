package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dubber/internal/asr"
	"dubber/internal/config"
	"dubber/internal/daemon"
	"dubber/internal/deps"
	"dubber/internal/intake"
	"dubber/internal/journal"
	"dubber/internal/logging"
	"dubber/internal/media"
	"dubber/internal/pipeline"
	"dubber/internal/report"
	"dubber/internal/storage"
	"dubber/internal/translate"
	"dubber/internal/tts"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("dubberd shutting down")
	d.Stop()
}

func bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	if err := deps.Missing(deps.CheckBinaries(deps.Requirements(cfg))); err != nil {
		return nil, err
	}

	store, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	mediaClient, err := media.New(cfg.FFmpegBinary(), cfg.FFprobeBinary())
	if err != nil {
		return nil, err
	}
	transcriber, err := asr.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	translator, err := translate.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	synthesizer, err := tts.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	reporter, err := report.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(cfg)
	if err != nil {
		return nil, err
	}

	pipe, err := pipeline.New(cfg, pipeline.Deps{
		Logger:      logger,
		Store:       store,
		Media:       mediaClient,
		Transcriber: transcriber,
		Translator:  translator,
		Synthesizer: synthesizer,
		Reporter:    reporter,
		Journal:     j,
	})
	if err != nil {
		_ = j.Close()
		return nil, err
	}

	consumer, err := intake.NewConsumer(cfg.Queue, pipe, logger)
	if err != nil {
		_ = j.Close()
		return nil, err
	}

	return daemon.New(cfg, consumer, j, logger)
}
