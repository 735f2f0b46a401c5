// Package server assembles the HTTP routes.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
)

type Deps struct {
	Leads       *handlers.LeadHandler
	Analytics   *handlers.AnalyticsHandler
	Health      *handlers.HealthHandler
	WriteLimit  *middleware.RateLimiter
	CORSOrigins []string
	Log         logrus.FieldLogger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{Logger: d.Log, NoColor: true}))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/analytics", d.Analytics.Handle)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", d.Leads.List)
			r.Get("/{id}", d.Leads.Get)

			r.Group(func(r chi.Router) {
				r.Use(d.WriteLimit.Limit)
				r.Post("/", d.Leads.Create)
				r.Patch("/{id}", d.Leads.Update)
				r.Delete("/{id}", d.Leads.Delete)
			})
		})
	})

	return r
}
