// Package pitstops averages pit-lane times per driver for a past race.
package pitstops

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aaron/pitwall/internal/openf1"
)

// RaceSession is the OpenF1 session name of a grand prix.
const RaceSession = "Race"

// ErrNoRace is returned when OpenF1 lists no race at the venue.
var ErrNoRace = errors.New("no race session")

// Source is the subset of *openf1.Client used here.
type Source interface {
	Sessions(ctx context.Context, year int, country, sessionName string) ([]openf1.Session, error)
	PitStops(ctx context.Context, sessionKey int) ([]openf1.PitStop, error)
}

// DriverAverage is one driver's mean pit-lane time over Stops stops.
type DriverAverage struct {
	DriverNumber int     `json:"driver_number"`
	Average      float64 `json:"average_pit_duration"`
	Stops        int     `json:"stops"`
}

// Summary is the per-driver averages of one race session.
type Summary struct {
	Country    string          `json:"country"`
	City       string          `json:"city"`
	Year       int             `json:"year"`
	SessionKey int             `json:"session_key"`
	Drivers    []DriverAverage `json:"drivers"`
}

// ForRace fetches the race held at venue during year and averages its pit
// stops.
func ForRace(ctx context.Context, src Source, year int, venue openf1.Venue) (Summary, error) {
	sessions, err := src.Sessions(ctx, year, venue.Country, RaceSession)
	if err != nil {
		return Summary{}, err
	}
	session, ok := venue.Pick(sessions)
	if !ok {
		return Summary{}, fmt.Errorf("%w for %s %d", ErrNoRace, venue, year)
	}

	stops, err := src.PitStops(ctx, session.SessionKey)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Country:    venue.Country,
		City:       venue.City,
		Year:       year,
		SessionKey: session.SessionKey,
		Drivers:    Averages(stops),
	}, nil
}

// Averages returns the mean pit duration per driver, fastest first. Stops
// without a recorded duration are ignored.
func Averages(stops []openf1.PitStop) []DriverAverage {
	type acc struct {
		sum float64
		n   int
	}
	byDriver := make(map[int]*acc)
	for _, s := range stops {
		if s.PitDuration == nil {
			continue
		}
		a, ok := byDriver[s.DriverNumber]
		if !ok {
			a = &acc{}
			byDriver[s.DriverNumber] = a
		}
		a.sum += *s.PitDuration
		a.n++
	}

	out := make([]DriverAverage, 0, len(byDriver))
	for driver, a := range byDriver {
		out = append(out, DriverAverage{
			DriverNumber: driver,
			Average:      math.Round(a.sum/float64(a.n)*1000) / 1000,
			Stops:        a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average < out[j].Average
		}
		return out[i].DriverNumber < out[j].DriverNumber
	})
	return out
}
