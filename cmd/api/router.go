package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/clicom-leads/internal/infra/http/handlers"
	metrics "github.com/xavierca1/clicom-leads/internal/infra/http/middleware"
)

type routerDeps struct {
	Contact        *handlers.ContactHandler
	Health         *handlers.HealthHandler
	AllowedOrigins []string
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		// The contact handler answers preflight itself with 204.
		OptionsPassthrough: true,
		MaxAge:             300,
	}))

	// contact.php keeps old form actions working.
	r.HandleFunc("/api/contact", d.Contact.Handle)
	r.HandleFunc("/api/contact.php", d.Contact.Handle)

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
