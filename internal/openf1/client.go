// Package openf1 reads session timing data from api.openf1.org.
package openf1

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aaron/pitwall/internal/upstream"
)

const DefaultBaseURL = "https://api.openf1.org/v1"

// Getter is the subset of *upstream.Client used here.
type Getter interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// Client reads the OpenF1 REST API.
type Client struct {
	baseURL string
	http    Getter
}

// NewClient creates a client for baseURL; an empty baseURL selects DefaultBaseURL.
func NewClient(http Getter, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: http}
}

// Sessions lists sessions for a country and year, optionally narrowed by name
// ("Qualifying", "Race", ...). Schedule country spellings are mapped first.
func (c *Client) Sessions(ctx context.Context, year int, country, sessionName string) ([]Session, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("country_name", CountryName(country))
	if sessionName != "" {
		params.Set("session_name", sessionName)
	}
	var out []Session
	if err := c.http.GetJSON(ctx, upstream.BuildURL(c.baseURL, "/sessions", params), &out); err != nil {
		return nil, fmt.Errorf("fetch sessions %d %s: %w", year, country, err)
	}
	return out, nil
}

// Laps lists every lap of a session.
func (c *Client) Laps(ctx context.Context, sessionKey int) ([]Lap, error) {
	params := url.Values{}
	params.Set("session_key", strconv.Itoa(sessionKey))
	var out []Lap
	if err := c.http.GetJSON(ctx, upstream.BuildURL(c.baseURL, "/laps", params), &out); err != nil {
		return nil, fmt.Errorf("fetch laps for session %d: %w", sessionKey, err)
	}
	return out, nil
}

// Locations lists position samples of one driver between from and to.
func (c *Client) Locations(ctx context.Context, sessionKey, driver int, from, to time.Time) ([]Location, error) {
	params := url.Values{}
	params.Set("session_key", strconv.Itoa(sessionKey))
	params.Set("driver_number", strconv.Itoa(driver))
	// OpenF1 range filters are written as bare comparisons, not key=value pairs.
	u := upstream.BuildURL(c.baseURL, "/location", params) +
		"&" + rangeFilter("date>", from) +
		"&" + rangeFilter("date<", to)
	var out []Location
	if err := c.http.GetJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("fetch locations for driver %d: %w", driver, err)
	}
	return out, nil
}

// PitStops lists every pit stop of a session.
func (c *Client) PitStops(ctx context.Context, sessionKey int) ([]PitStop, error) {
	params := url.Values{}
	params.Set("session_key", strconv.Itoa(sessionKey))
	var out []PitStop
	if err := c.http.GetJSON(ctx, upstream.BuildURL(c.baseURL, "/pit", params), &out); err != nil {
		return nil, fmt.Errorf("fetch pit stops for session %d: %w", sessionKey, err)
	}
	return out, nil
}

func rangeFilter(op string, t time.Time) string {
	ts := t.UTC().Format("2006-01-02T15:04:05.000")
	return url.QueryEscape(op) + ts
}
