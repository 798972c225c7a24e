// Package horizon finds the next relevant session or race in a normalized schedule.
package horizon

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/aaron/pitwall/internal/schedule"
)

// Detail levels accepted by ResolveNextEvent. Any other value disables filtering.
const (
	DetailMain = "main"
	DetailRace = "race"
	DetailAll  = "all"
)

// Event is the next upcoming session.
type Event struct {
	Session  schedule.SessionID `json:"session"`
	Name     string             `json:"name"`
	Datetime string             `json:"datetime"`
	At       time.Time          `json:"-"`
}

var labels = map[schedule.SessionID]string{
	schedule.FP1:              "Free Practice 1",
	schedule.FP2:              "Free Practice 2",
	schedule.FP3:              "Free Practice 3",
	schedule.Qualifying:       "Qualifying",
	schedule.SprintQualifying: "Sprint Qualifying",
	schedule.SprintRace:       "Sprint Race",
	schedule.Race:             "Race",
}

// Label returns the display name of a session id.
func Label(id schedule.SessionID) string {
	if l, ok := labels[id]; ok {
		return l
	}
	words := strings.FieldsFunc(string(id), func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func allowed(id schedule.SessionID, detail string) bool {
	switch detail {
	case DetailMain:
		return id != schedule.FP1 && id != schedule.FP2 && id != schedule.FP3
	case DetailRace:
		return id == schedule.Race || id == schedule.SprintRace
	default:
		return true
	}
}

// ResolveNextEvent returns the earliest session allowed by detail that starts
// strictly after now. Sessions without a timestamp are never returned.
func ResolveNextEvent(s schedule.Schedule, detail string, now time.Time) (Event, bool) {
	ids := make([]schedule.SessionID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	// Map order is random; fix it so equal timestamps resolve the same way every time.
	slices.Sort(ids)

	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		ts, err := s[id].Timestamp()
		if err != nil {
			continue
		}
		events = append(events, Event{Session: id, Name: Label(id), Datetime: s[id].DatetimeRFC3339, At: ts})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At.Before(events[j].At) })

	for _, ev := range events {
		if !allowed(ev.Session, detail) {
			continue
		}
		if ev.At.After(now) {
			return ev, true
		}
	}
	return Event{}, false
}

// NextRaceInSeason returns the first race, by race start, whose race day (in
// now's location) is today or later. Races without a race timestamp are skipped.
func NextRaceInSeason(races []schedule.RaceEvent, now time.Time) (schedule.RaceEvent, bool) {
	type dated struct {
		race schedule.RaceEvent
		at   time.Time
	}
	candidates := make([]dated, 0, len(races))
	for _, r := range races {
		ts, err := r.RaceSession().Timestamp()
		if err != nil {
			continue
		}
		candidates = append(candidates, dated{race: r, at: ts})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].at.Before(candidates[j].at) })

	today := midnight(now)
	for _, c := range candidates {
		if !midnight(c.at.In(now.Location())).Before(today) {
			return c.race, true
		}
	}
	return schedule.RaceEvent{}, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
