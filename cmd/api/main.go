package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopquill/shopquill-backend/api/routes"
	"github.com/shopquill/shopquill-backend/internal/generation"
	"github.com/shopquill/shopquill-backend/internal/shops"
	shopifywebhook "github.com/shopquill/shopquill-backend/internal/webhooks/shopify"
	"github.com/shopquill/shopquill-backend/pkg/config"
	"github.com/shopquill/shopquill-backend/pkg/db"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/metrics"
	"github.com/shopquill/shopquill-backend/pkg/migrate"
	"github.com/shopquill/shopquill-backend/pkg/openai"
	"github.com/shopquill/shopquill-backend/pkg/redis"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	shopifyClient := shopify.NewClient(
		shopify.WithAPIVersion(cfg.Shopify.APIVersion),
		shopify.WithTimeout(cfg.Shopify.Timeout),
	)
	openaiClient := openai.NewClient(cfg.OpenAI)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	generationMetrics := metrics.NewGenerationMetrics(registry)

	shopsService, err := shops.NewService(shops.NewRepository(dbClient.DB()), cfg.Usage)
	if err != nil {
		logg.Error(context.Background(), "failed to create shops service", err)
		os.Exit(1)
	}

	generationService, err := generation.NewService(
		shopsService,
		generation.NewRepository(dbClient.DB()),
		shopifyClient,
		openaiClient,
		generationMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create generation service", err)
		os.Exit(1)
	}

	webhookService, err := shopifywebhook.NewService(shopifywebhook.ServiceParams{
		Shops:  shopsService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:            cfg,
			Logger:            logg,
			DBPinger:          dbClient,
			Redis:             redisClient,
			ShopifyClient:     shopifyClient,
			OpenAIClient:      openaiClient,
			ShopsService:      shopsService,
			GenerationService: generationService,
			WebhookService:    webhookService,
			HTTPMetrics:       httpMetrics,
			Gatherer:          registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
