package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/angeloszaimis/statusprobe/config"
	"github.com/angeloszaimis/statusprobe/internal/classify"
	"github.com/angeloszaimis/statusprobe/internal/engine"
	"github.com/angeloszaimis/statusprobe/internal/httpserver"
	"github.com/angeloszaimis/statusprobe/internal/metrics"
	"github.com/angeloszaimis/statusprobe/internal/probe"
	"github.com/angeloszaimis/statusprobe/internal/render"
	"github.com/angeloszaimis/statusprobe/internal/sampler"
	"github.com/angeloszaimis/statusprobe/internal/target"
	"github.com/angeloszaimis/statusprobe/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(256, log)
	collector.Start(ctx)

	eng, err := buildEngine(cfg, log, collector)
	if err != nil {
		log.Error("Failed to build engine", slog.Any("err", err))
		os.Exit(1)
	}

	targets := buildTargets(cfg)
	if len(targets) == 0 {
		log.Error("No targets configured")
		os.Exit(1)
	}

	board := render.NewBoard()
	stream := render.NewStreamSink(log)
	defer stream.Close()

	sink := render.MultiSink{board, render.NewLogSink(log), stream}

	// No server address means a single batch: probe, report, exit.
	if cfg.Server.Address == "" {
		eng.Run(ctx, targets, sink)
		return
	}

	interval, err := time.ParseDuration(cfg.Probe.RunInterval)
	if err != nil {
		log.Error("Invalid run interval", slog.Any("err", err))
		os.Exit(1)
	}

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(board, collector, stream))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	go runLoop(ctx, eng, targets, sink, interval, log)

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting status server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func runLoop(
	ctx context.Context,
	eng *engine.Engine,
	targets []target.Target,
	sink render.Sink,
	interval time.Duration,
	log *slog.Logger,
) {
	eng.Run(ctx, targets, sink)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Probe loop stopped")
			return
		case <-ticker.C:
			eng.Run(ctx, targets, sink)
		}
	}
}

func buildEngine(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) (*engine.Engine, error) {
	timeout, err := time.ParseDuration(cfg.Probe.Timeout)
	if err != nil {
		return nil, err
	}

	delay, err := time.ParseDuration(cfg.Probe.InterAttemptDelay)
	if err != nil {
		return nil, err
	}

	fast, err := time.ParseDuration(cfg.Classify.FastThreshold)
	if err != nil {
		return nil, err
	}

	ceiling, err := time.ParseDuration(cfg.Classify.SlowCeiling)
	if err != nil {
		return nil, err
	}

	bandMin, err := time.ParseDuration(cfg.Classify.DegradedBandMin)
	if err != nil {
		return nil, err
	}

	bandMax, err := time.ParseDuration(cfg.Classify.DegradedBandMax)
	if err != nil {
		return nil, err
	}

	prober := probe.New(&http.Client{}, timeout)

	classifier := classify.New(classify.Thresholds{
		Fast:                 fast,
		SlowCeiling:          ceiling,
		ObfuscateDegradedRTT: cfg.Classify.ObfuscateDegradedRTT,
		DegradedBandMin:      bandMin,
		DegradedBandMax:      bandMax,
	})

	opts := sampler.Options{
		SampleCount:       cfg.Probe.SampleCount,
		InterAttemptDelay: delay,
	}

	return engine.New(prober, opts, classifier, log, collector), nil
}

func buildTargets(cfg *config.Config) []target.Target {
	targets := make([]target.Target, 0, len(cfg.Targets))

	for _, tc := range cfg.Targets {
		targets = append(targets, target.Target{ID: tc.ID, URL: tc.URL})
	}

	return targets
}
