package openf1

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// countryNames maps schedule spellings onto OpenF1 country_name values.
var countryNames = map[string]string{
	"USA":            "United States",
	"US":             "United States",
	"UK":             "Great Britain",
	"United Kingdom": "Great Britain",
	"UAE":            "United Arab Emirates",
}

// CountryName returns the OpenF1 country_name for a schedule country.
func CountryName(country string) string {
	country = strings.TrimSpace(country)
	if name, ok := countryNames[country]; ok {
		return name
	}
	return country
}

// Venue is a grand prix location as the schedule names it. Several venues
// can share a country, so City tells them apart.
type Venue struct {
	Country string
	City    string
}

func (v Venue) String() string {
	if v.City == "" {
		return v.Country
	}
	return v.City + ", " + v.Country
}

// Pick returns the last session held in v's city, matched against the
// session location or circuit short name. With no match it falls back to the
// last session of the country.
func (v Venue) Pick(sessions []Session) (Session, bool) {
	if len(sessions) == 0 {
		return Session{}, false
	}
	if city := fold(v.City); city != "" {
		for i := len(sessions) - 1; i >= 0; i-- {
			if samePlace(city, fold(sessions[i].Location)) || samePlace(city, fold(sessions[i].CircuitShortName)) {
				return sessions[i], true
			}
		}
	}
	return sessions[len(sessions)-1], true
}

// samePlace reports whether two folded names denote the same place, allowing
// for one being a prefix-like part of the other ("Spa", "Spa-Francorchamps").
func samePlace(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// fold lowercases s and strips diacritics so "Montréal" matches "Montreal".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
