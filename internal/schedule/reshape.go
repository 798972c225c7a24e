package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aaron/pitwall/internal/f1api"
	"github.com/aaron/pitwall/internal/logging"
)

// ErrTimestamp is returned for date/time strings that cannot be parsed.
var ErrTimestamp = errors.New("unparsable timestamp")

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
	// RFC3339Layout always writes a numeric offset, +00:00 rather than Z.
	RFC3339Layout = "2006-01-02T15:04:05-07:00"

	upstreamLayout = "2006-01-02T15:04:05"
)

// Reshaper converts raw upstream races into RaceEvents.
type Reshaper struct {
	loc *time.Location
	now func() time.Time
}

// NewReshaper creates a reshaper targeting loc. now defaults to time.Now.
func NewReshaper(loc *time.Location, now func() time.Time) *Reshaper {
	if now == nil {
		now = time.Now
	}
	return &Reshaper{loc: loc, now: now}
}

// Location returns the target timezone.
func (r *Reshaper) Location() *time.Location {
	return r.loc
}

// ConvertToTargetTz parses a UTC date ("2024-05-05") and time ("14:00:00Z")
// and returns the instant in the target timezone.
func (r *Reshaper) ConvertToTargetTz(date, clock string) (time.Time, error) {
	raw := date + "T" + strings.TrimSuffix(clock, "Z")
	t, err := time.ParseInLocation(upstreamLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrTimestamp, date+"T"+clock, err)
	}
	return t.In(r.loc), nil
}

// Reshape normalizes one race. It never fails: fields that cannot be derived
// are left empty.
func (r *Reshaper) Reshape(raw f1api.Race, season int) RaceEvent {
	ev := RaceEvent{
		RaceID:   raw.RaceID,
		RaceName: CleanRaceName(raw.RaceName, season),
		Round:    raw.Round,
		Laps:     raw.Laps,
		URL:      raw.URL,
		Schedule: r.reshapeSchedule(raw.Schedule),
		Circuit:  reshapeCircuit(raw.Circuit),
	}
	if ev.Circuit != nil {
		ev.TotalDistanceKm = TotalDistance(raw.Laps, ev.Circuit.CircuitLengthKm)
	}
	ev.Status = Classify(ev.RaceSession(), r.now())
	return ev
}

func (r *Reshaper) reshapeSchedule(raw map[string]*f1api.RawSession) Schedule {
	out := make(Schedule, len(raw))
	for id, s := range raw {
		out[SessionID(id)] = r.reshapeSession(s)
	}
	return out
}

func (r *Reshaper) reshapeSession(s *f1api.RawSession) *SessionTime {
	if s == nil {
		return nil
	}
	passthrough := &SessionTime{Date: s.Date, Time: s.Time}
	if s.Date == nil || s.Time == nil || *s.Date == "" || *s.Time == "" {
		return passthrough
	}
	t, err := r.ConvertToTargetTz(*s.Date, *s.Time)
	if err != nil {
		logging.Debug().Err(err).Msg("leaving session unconverted")
		return passthrough
	}
	return NewSessionTime(t)
}

// NewSessionTime renders t into the date, time and RFC3339 fields.
func NewSessionTime(t time.Time) *SessionTime {
	date := t.Format(DateLayout)
	clock := t.Format(TimeLayout)
	return &SessionTime{Date: &date, Time: &clock, DatetimeRFC3339: t.Format(RFC3339Layout)}
}

func reshapeCircuit(raw *f1api.Circuit) *Circuit {
	if raw == nil {
		return nil
	}
	c := &Circuit{
		CircuitID:              raw.CircuitID,
		CircuitName:            raw.CircuitName,
		Country:                raw.Country,
		City:                   raw.City,
		CircuitLength:          raw.CircuitLength,
		FirstParticipationYear: raw.FirstParticipation,
		Corners:                raw.Corners,
		FastestLapDriverID:     raw.FastestLapDriverID,
		FastestLapTeamID:       raw.FastestLapTeamID,
		FastestLapYear:         raw.FastestLapYear,
		URL:                    raw.URL,
	}
	if raw.CircuitLength != nil {
		c.CircuitLengthKm = ParseCircuitLength(*raw.CircuitLength)
	}
	if raw.FastestLapDriverID != nil {
		c.FastestLapDriverName = FastestLapDriverName(*raw.FastestLapDriverID)
	}
	if raw.LapRecord != nil {
		rec := FormatLapRecord(*raw.LapRecord)
		c.LapRecord = &rec
	}
	return c
}

// ParseCircuitLength turns "5412km" into 5.412. Anything else yields nil.
func ParseCircuitLength(s string) *float64 {
	n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, "km", "")))
	if err != nil {
		return nil
	}
	km := float64(n) / 1000.0
	return &km
}

// FastestLapDriverName turns a driver slug such as "max_verstappen" into "Verstappen".
func FastestLapDriverName(id string) *string {
	parts := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	last := parts[len(parts)-1]
	if last == "" {
		return nil
	}
	name := strings.ToUpper(last[:1]) + strings.ToLower(last[1:])
	return &name
}

// FormatLapRecord replaces the last colon with a period: "1:19:813" -> "1:19.813".
func FormatLapRecord(s string) string {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s
	}
	return s[:i] + "." + s[i+1:]
}

// CleanRaceName strips the season year from a display name.
func CleanRaceName(name string, season int) string {
	if season <= 0 {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(strings.ReplaceAll(name, strconv.Itoa(season), ""))
}

// TotalDistance is laps x length rounded to two decimals, or nil when either is missing.
func TotalDistance(laps *int, lengthKm *float64) *float64 {
	if laps == nil || *laps <= 0 || lengthKm == nil {
		return nil
	}
	km := *lengthKm
	d := math.Round(float64(*laps)*km*100) / 100
	return &d
}

// Classify compares the race session with now at UTC day granularity.
func Classify(race *SessionTime, now time.Time) Status {
	if !race.Scheduled() {
		return StatusUnknown
	}
	t, err := time.Parse(time.RFC3339, race.DatetimeRFC3339)
	if err != nil {
		return StatusUnknown
	}
	t, now = t.UTC(), now.UTC()
	switch {
	case t.Before(now):
		return StatusCompleted
	case sameDay(t, now):
		return StatusToday
	default:
		return StatusUpcoming
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Timestamp parses the session's RFC3339 value.
func (s *SessionTime) Timestamp() (time.Time, error) {
	if !s.Scheduled() {
		return time.Time{}, fmt.Errorf("%w: session not scheduled", ErrTimestamp)
	}
	t, err := time.Parse(time.RFC3339, s.DatetimeRFC3339)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrTimestamp, err)
	}
	return t, nil
}
