package openf1

// Session is one timed session of a meeting.
type Session struct {
	SessionKey       int    `json:"session_key"`
	MeetingKey       int    `json:"meeting_key"`
	SessionName      string `json:"session_name"`
	SessionType      string `json:"session_type"`
	CountryName      string `json:"country_name"`
	Location         string `json:"location"`
	CircuitShortName string `json:"circuit_short_name"`
	Year             int    `json:"year"`
	DateStart        string `json:"date_start"`
	DateEnd          string `json:"date_end"`
}

// Lap is one lap of one driver. Duration and start are null for untimed laps.
type Lap struct {
	DriverNumber int      `json:"driver_number"`
	LapNumber    int      `json:"lap_number"`
	LapDuration  *float64 `json:"lap_duration"`
	DateStart    *string  `json:"date_start"`
	IsPitOutLap  bool     `json:"is_pit_out_lap"`
}

// Location is one car position sample, in circuit-local decimetres.
type Location struct {
	Date         string  `json:"date"`
	DriverNumber int     `json:"driver_number"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
}

// PitStop is one pit-lane visit; PitDuration is pit entry to exit in seconds.
type PitStop struct {
	DriverNumber int      `json:"driver_number"`
	LapNumber    int      `json:"lap_number"`
	PitDuration  *float64 `json:"pit_duration"`
	Date         string   `json:"date"`
}
