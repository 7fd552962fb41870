package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopquill/shopquill-backend/api/controllers"
	webhookcontrollers "github.com/shopquill/shopquill-backend/api/controllers/webhooks"
	"github.com/shopquill/shopquill-backend/api/middleware"
	"github.com/shopquill/shopquill-backend/internal/generation"
	"github.com/shopquill/shopquill-backend/internal/shops"
	shopifywebhook "github.com/shopquill/shopquill-backend/internal/webhooks/shopify"
	"github.com/shopquill/shopquill-backend/pkg/config"
	"github.com/shopquill/shopquill-backend/pkg/db"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/metrics"
	"github.com/shopquill/shopquill-backend/pkg/openai"
	"github.com/shopquill/shopquill-backend/pkg/redis"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config            *config.Config
	Logger            *logger.Logger
	DBPinger          db.Pinger
	Redis             *redis.Client
	ShopifyClient     *shopify.Client
	OpenAIClient      *openai.Client
	ShopsService      shops.Service
	GenerationService generation.Service
	WebhookService    *shopifywebhook.Service
	HTTPMetrics       *metrics.HTTPMetrics
	Gatherer          prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps(p)))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Post("/shopify", webhookcontrollers.Shopify(p.WebhookService, cfg.Shopify, logg))
	})

	generationPolicy := middleware.NewGenerationRateLimitPolicy(
		cfg.RateLimit.GenerationWindow,
		cfg.RateLimit.GenerationShopLimit,
		cfg.RateLimit.GenerationIPLimit,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.Shopify, logg))

		r.Route("/generations", func(r chi.Router) {
			create := controllers.CreateGeneration(p.GenerationService, logg)
			if p.Redis != nil {
				r.With(middleware.GenerationRateLimit(generationPolicy, p.Redis, logg)).Post("/", create)
			} else {
				r.Post("/", create)
			}
			r.Get("/", controllers.ListGenerations(p.GenerationService, logg))
			r.Post("/{id}/apply", controllers.ApplyGeneration(p.GenerationService, logg))
		})

		r.Get("/products", controllers.ListProducts(p.ShopsService, p.ShopifyClient, logg))

		r.Route("/connections", func(r chi.Router) {
			r.Post("/shopify/test", controllers.TestShopifyConnection(p.ShopsService, p.ShopifyClient, logg))
			r.Post("/openai/test", controllers.TestOpenAIConnection(p.OpenAIClient, logg))
		})
	})

	return r
}

func readyDeps(p RouterParams) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if p.DBPinger != nil {
		deps["database"] = p.DBPinger
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}
	return deps
}
