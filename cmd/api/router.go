package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ryokan-quote/internal/config"
	"github.com/noah-isme/ryokan-quote/internal/health"
	"github.com/noah-isme/ryokan-quote/internal/obs"
	"github.com/noah-isme/ryokan-quote/internal/quote"
	"github.com/noah-isme/ryokan-quote/internal/ratelimit"
	"github.com/noah-isme/ryokan-quote/internal/security"
)

type routerDeps struct {
	cfg       *config.Config
	logger    zerolog.Logger
	limiter   ratelimit.Allower
	readiness health.Checker
	tracing   bool
	registry  prometheus.Registerer
	gatherer  prometheus.Gatherer
}

func newRouter(d routerDeps) http.Handler {
	cfg := d.cfg

	var httpMetrics *obs.HTTPMetrics
	if cfg.MetricsEnabled {
		buckets := obs.ParseBucketsCSV(cfg.MetricsBucketsMS)
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, buckets, d.registry)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.tracing {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(security.Headers{
		Enable:                cfg.SecurityHeaders,
		EnableHSTS:            cfg.EnableHSTS,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		NoStore:               true,
	}.Middleware)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))
	}

	healthHandler := health.Handler{
		Checker:      d.readiness,
		RedisTimeout: cfg.HealthRedisTimeout,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	quoteHandler := quote.NewHandler(quote.HandlerConfig{
		Service:       quote.NewService(cfg.Pricing),
		Validator:     quote.NewValidator(),
		Renderer:      quote.Renderer{Symbol: cfg.CurrencySymbol},
		MaxExtraItems: cfg.MaxExtraItems,
	})
	limit := ratelimit.Handler{
		Limiter: d.limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.PerClient("quote"),
			Window: time.Minute,
			Max:    cfg.QuoteRateLimitPerMin,
		},
		OnError: func(err error) {
			d.logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}

	r.Route("/api/v1/quotes", func(q chi.Router) {
		q.Get("/defaults", quoteHandler.Defaults)
		q.Get("/policy", quoteHandler.Policy)
		q.Group(func(g chi.Router) {
			if cfg.QuoteRateLimitPerMin > 0 {
				g.Use(limit.Middleware)
			}
			g.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)
			g.Post("/", quoteHandler.Create)
		})
	})

	return r
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
