package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/damage-rate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/damage-rate-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/damage-rate-service/internal/adapter/kafka"
	"github.com/couchcryptid/damage-rate-service/internal/config"
	"github.com/couchcryptid/damage-rate-service/internal/observability"
	"github.com/couchcryptid/damage-rate-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loader := csvfile.NewLoader(cfg, logger, metrics)

	// Kafka sink is feature-flagged via KAFKA_ENABLED.
	var sink service.Sink
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sink = kafkaWriter
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	refresher := service.New(loader, sink, cfg.MaterialityThreshold, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, refresher, refresher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// File watcher drives recomputation; a nil channel means never reload.
	var reloads <-chan struct{}
	var watcher *csvfile.Watcher
	if cfg.WatchInputs {
		watcher, err = csvfile.NewWatcher([]string{cfg.VolumeCSVPath, cfg.DamageCSVPath}, logger)
		if err != nil {
			logger.Error("failed to watch input files", "error", err)
			os.Exit(1)
		}
		reloads = watcher.Events()
		go watcher.Run(ctx)
		logger.Info("watching input files",
			"volumes", cfg.VolumeCSVPath, "damages", cfg.DamageCSVPath)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := refresher.Run(ctx, reloads); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if watcher != nil {
		if err := watcher.Close(); err != nil {
			logger.Error("watcher close error", "error", err)
		}
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
