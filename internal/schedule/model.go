// Package schedule normalizes raw upstream race data: session times are
// converted into the configured timezone and circuit fields are cleaned up.
package schedule

// SessionID identifies one session of a race weekend.
type SessionID string

const (
	FP1              SessionID = "fp1"
	FP2              SessionID = "fp2"
	FP3              SessionID = "fp3"
	Qualifying       SessionID = "qualy"
	SprintQualifying SessionID = "sprintQualy"
	SprintRace       SessionID = "sprintRace"
	Race             SessionID = "race"
)

// SessionIDs lists every known session in weekend order.
var SessionIDs = []SessionID{FP1, FP2, FP3, SprintQualifying, SprintRace, Qualifying, Race}

// SessionTime is a session start in the target timezone. DatetimeRFC3339 is
// empty when the upstream date or time was missing.
type SessionTime struct {
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	DatetimeRFC3339 string  `json:"datetime_rfc3339,omitempty"`
}

// Scheduled reports whether the session has a usable timestamp.
func (s *SessionTime) Scheduled() bool {
	return s != nil && s.DatetimeRFC3339 != ""
}

// Schedule maps session ids to their start time; a nil value means unscheduled.
type Schedule map[SessionID]*SessionTime

// Status is the state of a race relative to now.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusToday     Status = "today"
	StatusUpcoming  Status = "upcoming"
	StatusUnknown   Status = "unknown"
)

// Circuit describes the venue of a race, with the length parsed to km.
type Circuit struct {
	CircuitID              string   `json:"circuitId"`
	CircuitName            string   `json:"circuitName"`
	Country                string   `json:"country"`
	City                   string   `json:"city"`
	CircuitLength          *string  `json:"circuitLength,omitempty"`
	CircuitLengthKm        *float64 `json:"circuitLengthKm"`
	LapRecord              *string  `json:"lapRecord"`
	FirstParticipationYear *int     `json:"firstParticipationYear,omitempty"`
	Corners                *int     `json:"corners,omitempty"`
	FastestLapDriverID     *string  `json:"fastestLapDriverId,omitempty"`
	FastestLapDriverName   *string  `json:"fastestLapDriverName"`
	FastestLapTeamID       *string  `json:"fastestLapTeamId,omitempty"`
	FastestLapYear         *int     `json:"fastestLapYear,omitempty"`
	URL                    string   `json:"url,omitempty"`
}

// RaceEvent is one round of the season in normalized form.
type RaceEvent struct {
	RaceID          string   `json:"raceId,omitempty"`
	RaceName        string   `json:"raceName"`
	Round           int      `json:"round"`
	Laps            *int     `json:"laps"`
	URL             string   `json:"url,omitempty"`
	Schedule        Schedule `json:"schedule"`
	Circuit         *Circuit `json:"circuit"`
	TotalDistanceKm *float64 `json:"totalDistanceKm"`
	Status          Status   `json:"status"`
}

// RaceSession returns the race session, or nil.
func (e *RaceEvent) RaceSession() *SessionTime {
	if e == nil || e.Schedule == nil {
		return nil
	}
	return e.Schedule[Race]
}
