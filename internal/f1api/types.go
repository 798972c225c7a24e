package f1api

// RawSession is one entry of a race schedule. Either field may be null for
// sessions that are not (yet) scheduled.
type RawSession struct {
	Date *string `json:"date"`
	Time *string `json:"time"`
}

// Circuit is the venue block of a race.
type Circuit struct {
	CircuitID          string  `json:"circuitId"`
	CircuitName        string  `json:"circuitName"`
	Country            string  `json:"country"`
	City               string  `json:"city"`
	CircuitLength      *string `json:"circuitLength"`
	LapRecord          *string `json:"lapRecord"`
	FirstParticipation *int    `json:"firstParticipationYear"`
	Corners            *int    `json:"corners"`
	FastestLapDriverID *string `json:"fastestLapDriverId"`
	FastestLapTeamID   *string `json:"fastestLapTeamId"`
	FastestLapYear     *int    `json:"fastestLapYear"`
	URL                string  `json:"url"`
}

// Race is one round as f1api.dev returns it, schedule keyed by session id.
type Race struct {
	RaceID   string                 `json:"raceId"`
	RaceName string                 `json:"raceName"`
	Round    int                    `json:"round"`
	Laps     *int                   `json:"laps"`
	URL      string                 `json:"url"`
	Schedule map[string]*RawSession `json:"schedule"`
	Circuit  *Circuit               `json:"circuit"`
}

// Championship names the season's title.
type Championship struct {
	ChampionshipID   string `json:"championshipId"`
	ChampionshipName string `json:"championshipName"`
	URL              string `json:"url"`
	Year             int    `json:"year"`
}

// SeasonResponse is the body of /current.
type SeasonResponse struct {
	Season       int           `json:"season"`
	Championship *Championship `json:"championship"`
	Races        []Race        `json:"races"`
}

// NextResponse is the body of /current/next.
type NextResponse struct {
	Season int    `json:"season"`
	Round  int    `json:"round"`
	Races  []Race `json:"race"`
}

// Driver is the driver block of a standings row.
type Driver struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Nationality string `json:"nationality"`
	Number      *int   `json:"number"`
	ShortName   string `json:"shortName"`
	URL         string `json:"url"`
}

// Team is the team block of a standings row.
type Team struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Country  string `json:"country"`
	URL      string `json:"url"`
}

// DriverStanding is one row of the drivers championship.
type DriverStanding struct {
	DriverID string  `json:"driverId"`
	TeamID   string  `json:"teamId"`
	Position *int    `json:"position"`
	Points   float64 `json:"points"`
	Wins     *int    `json:"wins"`
	Driver   *Driver `json:"driver"`
	Team     *Team   `json:"team"`
}

// DriversChampionship is the body of /current/drivers-championship.
type DriversChampionship struct {
	Season    int              `json:"season"`
	Standings []DriverStanding `json:"drivers_championship"`
}

// ConstructorStanding is one row of the constructors championship.
type ConstructorStanding struct {
	TeamID   string  `json:"teamId"`
	Position *int    `json:"position"`
	Points   float64 `json:"points"`
	Wins     *int    `json:"wins"`
	Team     *Team   `json:"team"`
}

// ConstructorsChampionship is the body of /current/constructors-championship.
type ConstructorsChampionship struct {
	Season    int                   `json:"season"`
	Standings []ConstructorStanding `json:"constructors_championship"`
}
