package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/scoracle-tournament/internal/api/handler"
	"github.com/albapepper/scoracle-tournament/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control", AdminTokenHeader},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Location", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Groups
		r.Get("/groups", h.ListGroups)
		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Get("/standings", h.GetStandings)
			r.Get("/fixtures", h.GetFixtures)
			r.Get("/forecast", h.GetForecast)
			r.Get("/odds", h.GetChampionOdds)
		})

		// Matches
		r.Get("/matches/{matchID}/prediction", h.GetPrediction)

		// Scenarios
		r.Get("/teams/{teamID}/scenarios", h.GetScenarios)
		r.Route("/scenarios/jobs", func(r chi.Router) {
			r.Post("/", h.StartScenarioJob)
			r.Get("/{jobID}", h.GetScenarioJob)
			r.Delete("/{jobID}", h.CancelScenarioJob)
		})

		// Result entry
		r.Group(func(r chi.Router) {
			r.Use(AdminMiddleware(cfg.AdminToken))
			r.Post("/results", h.SubmitResult)
			r.Put("/results/{matchID}", h.EditResult)
		})
	})

	return r
}
