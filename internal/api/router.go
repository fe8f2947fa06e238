package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/neexbeast/trekinfo/internal/metrics"
)

// DefaultRateLimit is the per-IP request budget per minute.
const DefaultRateLimit = 60

// RouterConfig carries the transport settings of NewRouter.
type RouterConfig struct {
	Token              string
	RateLimitPerMinute int
	Metrics            *metrics.Metrics
}

// NewRouter builds and returns the Chi router with all routes configured.
// Health and metrics are unauthenticated; everything else requires bearer
// auth, and writes plus booking reads also require X-User-ID.
func NewRouter(handlers *Handlers, cfg RouterConfig, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = DefaultRateLimit
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		r.Use(BearerAuth(cfg.Token))

		r.Route("/api/v1/destinations", func(r chi.Router) {
			r.Get("/", handlers.ListDestinations)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.GetDestination)
				r.Get("/route", handlers.GetRoute)
				r.Get("/weather", handlers.GetWeather)
				r.Get("/overview", handlers.GetOverview)
				r.Get("/chat/messages", handlers.ListMessages)
				r.Get("/reviews", handlers.ListReviews)

				r.Group(func(r chi.Router) {
					r.Use(RequireUser)
					r.Put("/route", handlers.ReplaceRoute)
					r.Post("/chat/messages", handlers.PostMessage)
					r.Patch("/chat/messages/{messageID}", handlers.EditMessage)
					r.Post("/reviews", handlers.CreateReview)
				})
			})
		})

		r.Route("/api/v1/bookings", func(r chi.Router) {
			r.Use(RequireUser)
			r.Post("/", handlers.CreateBooking)
			r.Get("/", handlers.ListBookings)
			r.Patch("/{id}/status", handlers.UpdateBookingStatus)
		})
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
