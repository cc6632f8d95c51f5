package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/whpcodes/catalog-service/internal/api/handlers"
	"github.com/whpcodes/catalog-service/internal/api/middleware"
	"github.com/whpcodes/catalog-service/internal/metrics"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

// Deps wires the router.
type Deps struct {
	Catalog     handlers.Catalog
	Recommender handlers.Recommender
	Tracker     handlers.EventTracker
	Analytics   handlers.AnalyticsReader

	Log     logger.Logger
	Metrics *metrics.Metrics

	JWTSecret         string
	TrackingPerSecond float64
	TrackingBurst     int
}

// NewRouter builds the HTTP router for the catalog-service
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log, d.Metrics))
	r.Use(chimw.Recoverer)

	whopHandler := handlers.NewWhopHandler(d.Catalog, d.Recommender, log)
	adminHandler := handlers.NewAdminHandler(d.Catalog, log)
	trackingHandler := handlers.NewTrackingHandler(d.Tracker, d.Analytics, log)
	limiter := middleware.NewRateLimiter(d.TrackingPerSecond, d.TrackingBurst)

	// Public endpoints
	r.Route("/api", func(r chi.Router) {
		r.Route("/whops", func(r chi.Router) {
			r.Get("/", whopHandler.List)
			r.Get("/{id}", whopHandler.Get)
			r.Get("/{id}/recommendations", whopHandler.Recommendations)
			r.Post("/{id}/reviews", whopHandler.SubmitReview)
		})
		r.With(limiter.Middleware).Post("/tracking", trackingHandler.Track)
		r.Get("/analytics", trackingHandler.Analytics)
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(d.JWTSecret))

		r.Route("/whops", func(r chi.Router) {
			r.Post("/", adminHandler.CreateWhop)
			r.Post("/bulk-delete", adminHandler.BulkDeleteWhops)
			r.Post("/import", adminHandler.ImportWhops)
			r.Put("/{id}", adminHandler.UpdateWhop)
			r.Delete("/{id}", adminHandler.DeleteWhop)
			r.Post("/{id}/promo-codes", adminHandler.CreatePromo)
		})
		r.Route("/promo-codes", func(r chi.Router) {
			r.Put("/{id}", adminHandler.UpdatePromo)
			r.Delete("/{id}", adminHandler.DeletePromo)
		})
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", adminHandler.ListReviews)
			r.Post("/bulk-verify", adminHandler.BulkVerifyReviews)
			r.Post("/bulk-delete", adminHandler.BulkDeleteReviews)
			r.Put("/{id}/verify", adminHandler.VerifyReview)
			r.Delete("/{id}", adminHandler.DeleteReview)
		})
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	return r
}
