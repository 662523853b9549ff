package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucabarbieri/bestia-backend/api/controllers"
	sessioncontrollers "github.com/lucabarbieri/bestia-backend/api/controllers/sessions"
	"github.com/lucabarbieri/bestia-backend/api/middleware"
	"github.com/lucabarbieri/bestia-backend/internal/ledger"
	sessionsvc "github.com/lucabarbieri/bestia-backend/internal/sessions"
	"github.com/lucabarbieri/bestia-backend/internal/sharing"
	"github.com/lucabarbieri/bestia-backend/pkg/config"
	"github.com/lucabarbieri/bestia-backend/pkg/logger"
	"github.com/lucabarbieri/bestia-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	rateStore middleware.RateLimiterStore,
	sessionsService sessionsvc.Service,
	ledgerService ledger.Service,
	shortener *sharing.Shortener,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	sharePolicy := middleware.NewRateLimitPolicy(
		"share",
		cfg.RateLimit.ShareWindow,
		cfg.RateLimit.ShareLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", sessioncontrollers.Create(sessionsService, logg))
		r.Get("/", sessioncontrollers.List(sessionsService, logg))

		r.Route("/current", func(r chi.Router) {
			r.Get("/", sessioncontrollers.GetCurrent(sessionsService, logg))
			r.Put("/", sessioncontrollers.SetCurrent(sessionsService, logg))
			r.Delete("/", sessioncontrollers.ClearCurrent(sessionsService, logg))
		})

		r.With(middleware.RateLimit(sharePolicy, rateStore, logg)).
			Post("/import", sessioncontrollers.Import(sessionsService, logg))

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", sessioncontrollers.Get(sessionsService, logg))
			r.Delete("/", sessioncontrollers.Delete(sessionsService, logg))

			r.Post("/dealer", sessioncontrollers.RecordDealer(ledgerService, logg))
			r.Post("/rounds", sessioncontrollers.RecordRound(ledgerService, logg))
			r.Post("/rounds/preview", sessioncontrollers.PreviewRound(ledgerService, logg))
			r.Post("/giro-chiuso", sessioncontrollers.RecordGiroChiuso(ledgerService, logg))
			r.Post("/manual-entries", sessioncontrollers.CreateManualEntry(ledgerService, logg))
			r.Put("/manual-entries/{eventID}", sessioncontrollers.UpdateManualEntry(ledgerService, logg))
			r.Delete("/events/{eventID}", sessioncontrollers.DeleteEvent(ledgerService, logg))

			r.Get("/stats", sessioncontrollers.Stats(sessionsService, logg))
			r.Get("/settlement", sessioncontrollers.Settlement(sessionsService, logg))
			r.With(middleware.RateLimit(sharePolicy, rateStore, logg)).
				Get("/share", sessioncontrollers.Share(sessionsService, shortener, cfg.Share, logg))
		})
	})

	return r
}
