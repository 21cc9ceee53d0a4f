package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xavierca1/prodoc/internal/infra/http/middleware"
)

// NewRouter monta as rotas da API do painel.
func NewRouter(console Console, health *HealthHandler, limiter *RateLimiter, allowedOrigins []string) http.Handler {
	if limiter == nil {
		limiter = NewRateLimiter(10, time.Minute)
	}

	auth := NewAuthHandler(console)
	leads := NewLeadHandler(console, limiter)
	processes := NewProcessHandler(console)
	partners := NewPartnerHandler(console)
	dashboard := NewDashboardHandler(console)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	if health != nil {
		r.Get("/health", health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/me", auth.Me)
	})

	r.Get("/services", processes.Services)
	r.Get("/statuses", processes.Statuses)

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", leads.Submit)
		r.Get("/", leads.List)
		r.Post("/{id}/convert", leads.Convert)
	})

	r.Route("/processes", func(r chi.Router) {
		r.Get("/", processes.List)
		r.Post("/", processes.Create)
		r.Get("/{id}", processes.Get)
		r.Patch("/{id}/status", processes.SetStatus)
	})

	r.Route("/partners", func(r chi.Router) {
		r.Get("/", partners.List)
		r.Post("/", partners.Register)
	})

	r.Get("/dashboard", dashboard.Stats)
	r.Post("/refresh", dashboard.Refresh)

	return r
}
