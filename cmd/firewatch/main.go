// Command firewatch consumes daily patch weather from Kafka, advances each
// patch's fire-weather state, and publishes fire behavior to a sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/spitfire-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/spitfire-etl/internal/adapter/kafka"
	"github.com/couchcryptid/spitfire-etl/internal/config"
	"github.com/couchcryptid/spitfire-etl/internal/observability"
	"github.com/couchcryptid/spitfire-etl/internal/paramfile"
	"github.com/couchcryptid/spitfire-etl/internal/patchstore"
	"github.com/couchcryptid/spitfire-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	params, err := paramfile.Load(cfg.FireParamsPath)
	if err != nil {
		logger.Error("failed to load fire parameters", "error", err)
		os.Exit(1)
	}
	if cfg.FireParamsPath != "" {
		logger.Info("fire parameters loaded", "path", cfg.FireParamsPath)
	}

	store, err := patchstore.New(params.Params, params.FuelTypes, cfg.PatchCacheSize, logger, patchstore.Observer{
		Lookup: func(hit bool) {
			result := "miss"
			if hit {
				result = "hit"
			}
			metrics.PatchLookups.WithLabelValues(result).Inc()
		},
		Evict: func(string) { metrics.PatchEvictions.Inc() },
		Size:  func(n int) { metrics.PatchesActive.Set(float64(n)) },
	})
	if err != nil {
		logger.Error("failed to create patch store", "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(store, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete", "patches", store.Len())
}
