package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subinlebow/quotegen-backend/api/controllers"
	"github.com/subinlebow/quotegen-backend/api/middleware"
	"github.com/subinlebow/quotegen-backend/internal/detect"
	"github.com/subinlebow/quotegen-backend/internal/quote"
	"github.com/subinlebow/quotegen-backend/pkg/config"
	"github.com/subinlebow/quotegen-backend/pkg/logger"
	"github.com/subinlebow/quotegen-backend/pkg/metrics"
	"github.com/subinlebow/quotegen-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	detector detect.Detector,
	quoteService quote.Service,
	quoteMetrics *metrics.QuoteMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	generatePolicy := middleware.NewRateLimitPolicy(
		"generate",
		cfg.RateLimit.GenerateWindow,
		cfg.RateLimit.GenerateIPLimit,
	)

	readiness := map[string]controllers.Pinger{}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}
	if pinger, ok := detector.(controllers.Pinger); ok {
		readiness["detector"] = pinger
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/quotes", func(r chi.Router) {
		r.With(middleware.RateLimit(generatePolicy, rateLimiter(redisClient), logg)).
			Post("/", controllers.QuoteGenerate(quoteService, detector, quoteMetrics, logg))

		r.Route("/{quoteId}", func(r chi.Router) {
			r.Get("/", controllers.QuoteGet(quoteService, logg))
			r.Delete("/", controllers.QuoteDelete(quoteService, quoteMetrics, logg))

			r.Route("/items", func(r chi.Router) {
				r.Patch("/", controllers.QuoteQuantityUpdate(quoteService, quoteMetrics, logg))
				r.Post("/", controllers.QuoteAddItem(quoteService, quoteMetrics, logg))
				r.Delete("/{itemName}", controllers.QuoteDeleteItem(quoteService, quoteMetrics, logg))
			})
		})
	})

	return r
}

// rateLimiter narrows the redis client to the middleware's store interface
// without handing a typed nil through as a live dependency.
func rateLimiter(client *redis.Client) middleware.RateLimiterStore {
	if client == nil {
		return nil
	}
	return client
}
