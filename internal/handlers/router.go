package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aaron/pitwall/internal/middleware"
)

// RouterOptions configures the cross-cutting middleware.
type RouterOptions struct {
	CORSOrigins []string
	// RateLimit wraps the /f1 routes; nil disables limiting.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter mounts every endpoint. Each /f1 path answers with and without
// its trailing slash.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/f1", func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}
		get(r, "/next_race", h.NextRace)
		r.Get("/next_race/season", h.Season)
		get(r, "/constructors_standings", h.Constructors)
		get(r, "/drivers_standings", h.Drivers)
		get(r, "/next_map", h.TrackMap)
		get(r, "/pit_stops", h.PitStops)
	})
	return r
}

func get(r chi.Router, path string, fn http.HandlerFunc) {
	r.Get(path, fn)
	r.Get(path+"/", fn)
}
