package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/subinlebow/quotegen-backend/api/routes"
	"github.com/subinlebow/quotegen-backend/internal/detect"
	"github.com/subinlebow/quotegen-backend/internal/quote"
	"github.com/subinlebow/quotegen-backend/pkg/config"
	"github.com/subinlebow/quotegen-backend/pkg/logger"
	"github.com/subinlebow/quotegen-backend/pkg/metrics"
	"github.com/subinlebow/quotegen-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, rate limiting disabled")
	}

	detector, err := detect.NewClient(cfg.Detector)
	if err != nil {
		logg.Error(context.Background(), "failed to create detector client", err)
		os.Exit(1)
	}

	store := quote.NewMemoryStore(cfg.Quotes.TTL)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go store.RunJanitor(janitorCtx, cfg.Quotes.SweepInterval)

	quoteService, err := quote.NewService(quote.ServiceParams{Store: store})
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, detector, quoteService, quoteMetrics, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
