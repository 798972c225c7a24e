package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/aaron/pitwall/internal/feed"
	"github.com/aaron/pitwall/internal/logging"
	"github.com/aaron/pitwall/internal/upstream"
)

// Feed is the subset of *feed.Service the handlers serve from.
type Feed interface {
	NextRace(ctx context.Context) (*feed.NextRace, error)
	Season(ctx context.Context) (*feed.Season, error)
	Drivers(ctx context.Context) (*feed.Drivers, error)
	Constructors(ctx context.Context) (*feed.Constructors, error)
	TrackMap(ctx context.Context) (*feed.TrackMap, error)
	PitStops(ctx context.Context) (*feed.PitStops, error)
	Now() time.Time
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Feed Feed
}

// New creates a new Handler.
func New(f Feed) *Handler {
	return &Handler{Feed: f}
}

// NextRace returns the next race and its next session.
func (h *Handler) NextRace(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, h.Feed.NextRace)
}

// Season returns every race of the current season.
func (h *Handler) Season(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, h.Feed.Season)
}

// Drivers returns the drivers championship.
func (h *Handler) Drivers(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, h.Feed.Drivers)
}

// Constructors returns the constructors championship.
func (h *Handler) Constructors(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, h.Feed.Constructors)
}

// PitStops returns average pit times from last season's race at the next venue.
func (h *Handler) PitStops(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, h.Feed.PitStops)
}

// TrackMap returns the next circuit as SVG, with browser caching aligned to
// the server-side cache entry.
func (h *Handler) TrackMap(w http.ResponseWriter, r *http.Request) {
	m, err := h.Feed.TrackMap(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxAge := math.Floor(m.ExpiresAt().Sub(h.Feed.Now()).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "max-age="+strconv.Itoa(int(maxAge)))
	w.Header().Set("Expires", m.ExpiresAt().UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(m.SVG); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("write response")
	}
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func serveJSON[T any](w http.ResponseWriter, r *http.Request, load func(context.Context) (T, error)) {
	doc, err := load(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("encode response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("write response")
	}
}

// writeError maps a failure to a status: 502 when the primary upstream fetch
// failed, 500 for everything else, including map generation.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, feed.ErrTrackMap):
		// Render failures wrap upstream errors but stay 500.
	case errors.Is(err, upstream.ErrUnavailable), errors.Is(err, upstream.ErrMalformed):
		status = http.StatusBadGateway
	}
	logging.Ctx(r.Context()).Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
