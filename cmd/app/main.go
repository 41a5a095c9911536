package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardorders/cmd"
	httpin "cardorders/internal/adapters/in/http"
	"cardorders/internal/adapters/out/kafka"
	"cardorders/internal/adapters/out/metrics"
	"cardorders/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	store, err := cmd.OpenStore(ctx, configs)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", configs.StoreBackend, err)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	transitionMetrics, err := metrics.NewTransitionMetrics(registry)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	var publisher ports.OrderEventPublisher
	if configs.KafkaHost != "" {
		kafkaPublisher := kafka.NewOrderEventPublisher(kafka.NewWriter(configs.KafkaHost, configs.KafkaOrderChanged))
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	app, err := cmd.NewCompositionRoot(configs, store, transitionMetrics, publisher)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	jobManager, err := app.CreateJobManager(logger)
	if err != nil {
		log.Fatalf("Failed to create jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, registry, logger, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return configs
}

func startWebServer(
	ctx context.Context,
	app cmd.CompositionRoot,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
	port string,
) {
	e := echo.New()
	e.HideBanner = true
	httpin.NewServer(app.HTTPHandlers(), gatherer, logger).Register(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
}
