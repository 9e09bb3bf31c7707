package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/llm"
	"github.com/kobozo/ai-auto-summarizer/internal/logging"
	"github.com/kobozo/ai-auto-summarizer/internal/processor"
	"github.com/kobozo/ai-auto-summarizer/internal/report"
	"github.com/kobozo/ai-auto-summarizer/internal/source"
	"github.com/kobozo/ai-auto-summarizer/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	sources := source.NewRegistry()
	providers := llm.NewRegistry()

	proc := processor.New(cfg, sources, log)
	if proc.SourceCount() == 0 {
		// Disabled or misconfigured sources are skipped per source, so the
		// run still completes and reports an empty batch.
		log.Warn("no usable sources configured, batch will be empty")
	}

	summ, err := summarizer.New(cfg, providers, log)
	if err != nil {
		log.Fatalw("failed to set up summarizer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := func(ctx context.Context) {
		runOnce(ctx, proc, summ, os.Stdout)
	}

	// Single-run mode: run the pipeline once and exit.
	if *once || cfg.Schedule == "" {
		log.Info("running pipeline (once)")
		run(ctx)
		log.Info("done")
		return
	}

	if cfg.RunOnStart {
		log.Info("running initial pipeline")
		run(ctx)
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Info("cron triggered, running pipeline")
		run(ctx)
	})
	if err != nil {
		log.Fatalw("failed to set up cron schedule", "schedule", cfg.Schedule, "error", err)
	}
	c.Start()
	log.Infow("scheduled pipeline", "schedule", cfg.Schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())

	cancel()
	c.Stop()

	log.Info("shutdown complete")
}

// runOnce executes one fetch-summarize-report cycle.
func runOnce(ctx context.Context, proc *processor.Processor, summ *summarizer.Summarizer, w io.Writer) {
	items := proc.Process(ctx)
	items = summ.Process(ctx, items)
	report.Print(w, items)
}
