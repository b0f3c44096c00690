package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	assetHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/asset"
	billHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/http/export"
	"github.com/MrJamesThe3rd/rentledger/internal/http/importcsv"
	presetHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/preset"
	"github.com/MrJamesThe3rd/rentledger/internal/http/session"
	tenancyHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/tenancy"
	"github.com/MrJamesThe3rd/rentledger/internal/metrics"
)

type Handlers struct {
	Assets    *assetHTTP.Handler
	Tenancies *tenancyHTTP.Handler
	Bills     *billHTTP.Handler
	Presets   *presetHTTP.Handler
	Import    *importcsv.Handler
	Export    *export.Handler
}

type Options struct {
	Log            *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	JWTSecret      string
	// RateLimit is requests per second per client IP. Zero disables it.
	RateLimit float64
	RateBurst int
	Timeout   time.Duration
}

func New(h Handlers, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(session.Middleware(opts.JWTSecret))
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", session.ActorHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			limiter := newIPLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1))
			r.Use(limiter.middleware(log, opts.Metrics))
		}

		r.Route("/assets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Assets.Routes(r)
		})

		r.Route("/tenancies", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Tenancies.Routes(r)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Bills.Routes(r)
		})

		r.Route("/presets", h.Presets.Routes)

		r.Route("/import", h.Import.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
