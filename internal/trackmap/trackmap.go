// Package trackmap draws a circuit outline from OpenF1 position samples of
// the fastest qualifying lap.
package trackmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaron/pitwall/internal/logging"
	"github.com/aaron/pitwall/internal/openf1"
)

// QualifyingSession is the OpenF1 session name whose fastest lap is drawn.
const QualifyingSession = "Qualifying"

// Generation failures, wrapped with the session or venue they concern.
var (
	ErrNoSession   = errors.New("no qualifying session")
	ErrNoLap       = errors.New("no timed lap")
	ErrNoTelemetry = errors.New("not enough position samples")
)

// Source is the subset of *openf1.Client the generator reads from.
type Source interface {
	Sessions(ctx context.Context, year int, country, sessionName string) ([]openf1.Session, error)
	Laps(ctx context.Context, sessionKey int) ([]openf1.Lap, error)
	Locations(ctx context.Context, sessionKey, driver int, from, to time.Time) ([]openf1.Location, error)
}

// Generator renders track maps from an OpenF1 source.
type Generator struct {
	src   Source
	style Style
}

// NewGenerator returns a Generator drawing with DefaultStyle.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src, style: DefaultStyle}
}

// Generate renders the circuit used at venue during year.
func (g *Generator) Generate(ctx context.Context, year int, venue openf1.Venue) ([]byte, error) {
	sessions, err := g.src.Sessions(ctx, year, venue.Country, QualifyingSession)
	if err != nil {
		return nil, err
	}
	session, ok := venue.Pick(sessions)
	if !ok {
		return nil, fmt.Errorf("%w for %s %d", ErrNoSession, venue, year)
	}

	laps, err := g.src.Laps(ctx, session.SessionKey)
	if err != nil {
		return nil, err
	}
	lap, ok := fastestLap(laps)
	if !ok {
		return nil, fmt.Errorf("%w in session %d", ErrNoLap, session.SessionKey)
	}
	start, err := parseOpenF1Time(*lap.DateStart)
	if err != nil {
		return nil, fmt.Errorf("lap %d start: %w", lap.LapNumber, err)
	}
	end := start.Add(time.Duration(*lap.LapDuration * float64(time.Second)))

	samples, err := g.src.Locations(ctx, session.SessionKey, lap.DriverNumber, start, end)
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(samples))
	for _, s := range samples {
		// The feed emits origin samples while the car is not yet tracked.
		if s.X == 0 && s.Y == 0 {
			continue
		}
		points = append(points, Point{X: s.X, Y: s.Y})
	}

	logging.Ctx(ctx).Debug().
		Int("session_key", session.SessionKey).
		Int("driver", lap.DriverNumber).
		Int("lap", lap.LapNumber).
		Int("points", len(points)).
		Msg("Rendering track map")

	return Render(points, g.style)
}

// GenerateWithFallback tries year and then year-1. When both fail the
// returned error carries both causes.
func (g *Generator) GenerateWithFallback(ctx context.Context, year int, venue openf1.Venue) ([]byte, int, error) {
	svg, err := g.Generate(ctx, year, venue)
	if err == nil {
		return svg, year, nil
	}
	logging.Ctx(ctx).Warn().Err(err).Int("year", year).Str("venue", venue.String()).
		Msg("Track map unavailable, trying previous season")

	prev, prevErr := g.Generate(ctx, year-1, venue)
	if prevErr == nil {
		return prev, year - 1, nil
	}
	return nil, 0, errors.Join(
		fmt.Errorf("track map %d: %w", year, err),
		fmt.Errorf("track map %d: %w", year-1, prevErr),
	)
}

func fastestLap(laps []openf1.Lap) (openf1.Lap, bool) {
	var best openf1.Lap
	found := false
	for _, l := range laps {
		if l.LapDuration == nil || l.DateStart == nil || *l.LapDuration <= 0 {
			continue
		}
		if !found || *l.LapDuration < *best.LapDuration {
			best = l
			found = true
		}
	}
	return best, found
}

func parseOpenF1Time(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.999999", s)
}
