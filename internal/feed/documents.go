package feed

import (
	"time"

	"github.com/aaron/pitwall/internal/f1api"
	"github.com/aaron/pitwall/internal/horizon"
	"github.com/aaron/pitwall/internal/pitstops"
	"github.com/aaron/pitwall/internal/schedule"
	"github.com/aaron/pitwall/internal/standings"
)

// Envelope carries the fields shared by every JSON document.
type Envelope struct {
	Season       int    `json:"season"`
	Timezone     string `json:"timezone"`
	CacheExpires string `json:"cache_expires"`

	expiresAt time.Time
}

// SetCacheExpires records when the document leaves the cache.
func (e *Envelope) SetCacheExpires(t time.Time) {
	e.expiresAt = t
	e.CacheExpires = t.Format(schedule.RFC3339Layout)
}

// ExpiresAt returns the instant set by SetCacheExpires.
func (e *Envelope) ExpiresAt() time.Time {
	return e.expiresAt
}

// NextRace is the /f1/next_race/ document.
type NextRace struct {
	Envelope
	Round     int                  `json:"round"`
	Race      []schedule.RaceEvent `json:"race"`
	NextEvent *horizon.Event       `json:"next_event"`
}

// Current returns the upcoming race, if any.
func (n *NextRace) Current() (schedule.RaceEvent, bool) {
	if n == nil || len(n.Race) == 0 {
		return schedule.RaceEvent{}, false
	}
	return n.Race[0], true
}

// Season is the /f1/next_race/season document.
type Season struct {
	Envelope
	Championship *f1api.Championship  `json:"championship"`
	TotalRaces   int                  `json:"total_races"`
	Races        []schedule.RaceEvent `json:"races"`
}

// Drivers is the /f1/drivers_standings/ document.
type Drivers struct {
	Envelope
	Drivers []standings.Driver `json:"drivers"`
}

// Constructors is the /f1/constructors_standings/ document.
type Constructors struct {
	Envelope
	Constructors []standings.Constructor `json:"constructors"`
}

// PitStops is the /f1/pit_stops/ document.
type PitStops struct {
	Envelope
	pitstops.Summary
}

// TrackMap is a rendered circuit outline.
type TrackMap struct {
	SVG  []byte
	Year int

	expiresAt time.Time
}

// SetCacheExpires records when the map leaves the cache.
func (m *TrackMap) SetCacheExpires(t time.Time) {
	m.expiresAt = t
}

// ExpiresAt is when the map leaves the cache.
func (m *TrackMap) ExpiresAt() time.Time {
	return m.expiresAt
}
