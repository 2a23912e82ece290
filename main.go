package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"productstore/internal/app"
	"productstore/internal/config"
	"productstore/internal/database"
	"productstore/internal/repositories"
	"productstore/internal/services"
	"productstore/pkg/logger"
	"productstore/pkg/rabbitmq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "productstore"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(serviceName, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// --- Store ---
	var productRepo repositories.ProductRepository
	switch cfg.DBDriver {
	case config.DriverMemory:
		productRepo = repositories.NewMockProductRepository()
	default:
		db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				log.Warn("failed to close database", zap.Error(err))
			}
		}()
		productRepo = repositories.NewGORMProductRepository(db)
	}
	log.Info("store ready", zap.String("driver", cfg.DBDriver))

	// --- Product events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				log.Warn("failed to close RabbitMQ client", zap.Error(err))
			}
		}()
		publisher = mqClient
		log.Info("publishing product events", zap.String("queue", cfg.RabbitMQQueue))
	}

	productService := services.NewProductService(productRepo, publisher, log)

	deps := app.Deps{Service: productService, Log: log}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.Registry = reg
	}
	server := app.New(deps)

	// --- Start HTTP Server ---
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.AppPort))
		errCh <- server.Listen(cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("http server stopped: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}
