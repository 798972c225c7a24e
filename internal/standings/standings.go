// Package standings cleans the f1api.dev championship tables for display.
package standings

import (
	"strings"

	"github.com/biter777/countries"

	"github.com/aaron/pitwall/internal/f1api"
)

// Driver is one cleaned row of the drivers championship.
type Driver struct {
	Surname   string  `json:"surname"`
	Name      string  `json:"name"`
	ShortName string  `json:"shortName"`
	Number    *int    `json:"number"`
	Position  *int    `json:"position"`
	Points    float64 `json:"points"`
	Wins      int     `json:"wins"`
	TeamID    string  `json:"teamId"`
	Country   string  `json:"country"`
	Flag      string  `json:"flag"`
}

// Constructor is one cleaned row of the constructors championship.
type Constructor struct {
	Team     string  `json:"team"`
	Position *int    `json:"position"`
	Points   float64 `json:"points"`
	Wins     int     `json:"wins"`
	Country  string  `json:"country"`
	Flag     string  `json:"flag"`
	Wiki     string  `json:"wiki"`
}

// f1api.dev reports some nationalities as demonyms.
var nationalityCorrections = map[string]string{
	"New Zealander": "New Zealand",
	"Argentine":     "Argentina",
}

// Names the country table does not resolve on its own.
var countryAliases = map[string]string{
	"Great Britain": "GB",
	"United States": "US",
}

var teamBoilerplate = []string{"Formula 1", "F1", "Racing", "Team"}

// CountryCode returns the lowercase ISO 3166 alpha-2 code for a country
// name, or "" when the name is not recognised.
func CountryCode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if alias, ok := countryAliases[name]; ok {
		name = alias
	}
	code := countries.ByName(name)
	if code == countries.Unknown {
		return ""
	}
	return strings.ToLower(code.Alpha2())
}

// CorrectNationality maps known demonyms to country names.
func CorrectNationality(nationality string) string {
	if c, ok := nationalityCorrections[nationality]; ok {
		return c
	}
	return nationality
}

// CleanTeamName strips sponsor boilerplate from a constructor name.
func CleanTeamName(name string) string {
	for _, word := range teamBoilerplate {
		name = strings.TrimSpace(strings.ReplaceAll(name, word, ""))
	}
	return strings.Join(strings.Fields(name), " ")
}

// Drivers cleans every row of the drivers championship, keeping order.
func Drivers(rows []f1api.DriverStanding) []Driver {
	out := make([]Driver, 0, len(rows))
	for _, row := range rows {
		d := Driver{
			Position: row.Position,
			Points:   row.Points,
			Wins:     derefInt(row.Wins),
			TeamID:   row.TeamID,
		}
		if row.Team != nil && row.Team.TeamID != "" {
			d.TeamID = row.Team.TeamID
		}
		if row.Driver != nil {
			d.Surname = row.Driver.Surname
			d.Name = row.Driver.Name
			d.ShortName = row.Driver.ShortName
			d.Number = row.Driver.Number
			d.Country = CorrectNationality(row.Driver.Nationality)
			d.Flag = CountryCode(d.Country)
		}
		out = append(out, d)
	}
	return out
}

// Constructors cleans every row of the constructors championship, keeping order.
func Constructors(rows []f1api.ConstructorStanding) []Constructor {
	out := make([]Constructor, 0, len(rows))
	for _, row := range rows {
		c := Constructor{
			Position: row.Position,
			Points:   row.Points,
			Wins:     derefInt(row.Wins),
		}
		if row.Team != nil {
			c.Team = CleanTeamName(row.Team.TeamName)
			c.Country = row.Team.Country
			c.Flag = CountryCode(row.Team.Country)
			c.Wiki = row.Team.URL
		}
		out = append(out, c)
	}
	return out
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
