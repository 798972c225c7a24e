package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/aaron/pitwall/internal/feed"
	"github.com/aaron/pitwall/internal/horizon"
	"github.com/aaron/pitwall/internal/middleware"
	"github.com/aaron/pitwall/internal/schedule"
	"github.com/aaron/pitwall/internal/standings"
	"github.com/aaron/pitwall/internal/upstream"
)

type fakeFeed struct {
	now      time.Time
	next     *feed.NextRace
	mapDoc   *feed.TrackMap
	err      error
	nextHits int
}

func (f *fakeFeed) NextRace(context.Context) (*feed.NextRace, error) {
	f.nextHits++
	return f.next, f.err
}

func (f *fakeFeed) Season(context.Context) (*feed.Season, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feed.Season{TotalRaces: 0, Races: []schedule.RaceEvent{}}, nil
}

func (f *fakeFeed) Drivers(context.Context) (*feed.Drivers, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feed.Drivers{Drivers: []standings.Driver{{Surname: "Verstappen", Flag: "nl"}}}, nil
}

func (f *fakeFeed) Constructors(context.Context) (*feed.Constructors, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feed.Constructors{Constructors: []standings.Constructor{{Team: "McLaren", Flag: "gb"}}}, nil
}

func (f *fakeFeed) TrackMap(context.Context) (*feed.TrackMap, error) {
	return f.mapDoc, f.err
}

func (f *fakeFeed) PitStops(context.Context) (*feed.PitStops, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feed.PitStops{}, nil
}

func (f *fakeFeed) Now() time.Time { return f.now }

func newNextRace() *feed.NextRace {
	ev := &horizon.Event{Session: schedule.Race, Name: "Race", Datetime: "2024-05-05T08:00:00-06:00"}
	doc := &feed.NextRace{
		Envelope:  feed.Envelope{Season: 2024, Timezone: "America/Edmonton"},
		Round:     6,
		Race:      []schedule.RaceEvent{{RaceName: "Miami Grand Prix", Round: 6, Status: schedule.StatusUpcoming}},
		NextEvent: ev,
	}
	doc.SetCacheExpires(time.Date(2024, 5, 5, 12, 0, 0, 0, time.FixedZone("MDT", -6*3600)))
	return doc
}

func serve(t *testing.T, f Feed, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(New(f), RouterOptions{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("want 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: want application/json, got %q", ct)
	}
	body := strings.TrimSpace(rec.Body.String())
	if body != `{"status":"ok"}` {
		t.Errorf("body: want %q, got %q", `{"status":"ok"}`, body)
	}
}

func TestNextRace_JSONShape(t *testing.T) {
	rec := serve(t, &fakeFeed{next: newNextRace()}, "/f1/next_race/")

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"season", "round", "timezone", "cache_expires", "race", "next_event"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing %q in %s", key, rec.Body)
		}
	}
	if got["cache_expires"] != "2024-05-05T12:00:00-06:00" {
		t.Errorf("cache_expires: got %v", got["cache_expires"])
	}
	ev, _ := got["next_event"].(map[string]any)
	if ev["session"] != "race" || ev["name"] != "Race" || ev["datetime"] != "2024-05-05T08:00:00-06:00" {
		t.Errorf("next_event: got %v", ev)
	}
	if _, ok := ev["At"]; ok {
		t.Error("internal timestamp must not be serialized")
	}
}

func TestNextRace_NullNextEvent(t *testing.T) {
	doc := newNextRace()
	doc.NextEvent = nil
	rec := serve(t, &fakeFeed{next: doc}, "/f1/next_race")

	if !strings.Contains(rec.Body.String(), `"next_event":null`) {
		t.Errorf("want null next_event, got %s", rec.Body)
	}
}

func TestRoutes(t *testing.T) {
	f := &fakeFeed{next: newNextRace(), mapDoc: &feed.TrackMap{SVG: []byte("<svg/>")}}
	tests := []struct {
		path string
		want string
	}{
		{"/f1/next_race/", `"round":6`},
		{"/f1/next_race/season", `"total_races":0`},
		{"/f1/drivers_standings/", `"flag":"nl"`},
		{"/f1/drivers_standings", `"surname":"Verstappen"`},
		{"/f1/constructors_standings/", `"team":"McLaren"`},
		{"/f1/pit_stops/", `"drivers"`},
		{"/f1/next_map/", `<svg/>`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, f, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("want 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("want %q in %s", tt.want, rec.Body)
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestTrackMap_CacheHeaders(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := &feed.TrackMap{SVG: []byte("<svg></svg>"), Year: 2024}
	m.SetCacheExpires(now.Add(90*time.Minute + 500*time.Millisecond))

	rec := serve(t, &fakeFeed{now: now, mapDoc: m}, "/f1/next_map/")

	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "max-age=5400" {
		t.Errorf("Cache-Control: got %q", cc)
	}
	if exp := rec.Header().Get("Expires"); exp != "Wed, 01 May 2024 13:30:00 GMT" {
		t.Errorf("Expires: got %q", exp)
	}
}

func TestTrackMap_PastExpiryClampsMaxAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := &feed.TrackMap{SVG: []byte("<svg/>")}
	m.SetCacheExpires(now.Add(-time.Hour))

	rec := serve(t, &fakeFeed{now: now, mapDoc: m}, "/f1/next_map")
	if cc := rec.Header().Get("Cache-Control"); cc != "max-age=0" {
		t.Errorf("Cache-Control: got %q", cc)
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	unavailable := &upstream.FetchError{URL: "https://f1api.dev/api/current", Kind: upstream.KindStatus, Status: 503}
	malformed := &upstream.FetchError{URL: "https://f1api.dev/api/current", Kind: upstream.KindDecode, Err: errors.New("eof")}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"upstream unavailable", fmt.Errorf("fetch season: %w", unavailable), http.StatusBadGateway},
		{"upstream malformed", malformed, http.StatusBadGateway},
		{"track map", fmt.Errorf("%w: %w", feed.ErrTrackMap, unavailable), http.StatusInternalServerError},
		{"no next race", feed.ErrNoNextRace, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/f1/next_race/", nil), tt.err)
			if rec.Code != tt.want {
				t.Errorf("want %d, got %d", tt.want, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("want error body, got %s", rec.Body)
			}
		})
	}
}

func TestPrimaryFetchFailure_Returns502(t *testing.T) {
	f := &fakeFeed{err: fmt.Errorf("fetch drivers championship: %w", &upstream.FetchError{Kind: upstream.KindNetwork, Err: errors.New("dial tcp: refused")})}
	rec := serve(t, f, "/f1/drivers_standings/")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("want 502, got %d", rec.Code)
	}
}

func TestRateLimitOnlyOnF1Routes(t *testing.T) {
	router := NewRouter(New(&fakeFeed{next: newNextRace()}), RouterOptions{
		RateLimit: middleware.NewLimiter(1, time.Minute).Middleware,
	})
	send := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "192.0.2.1:4000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send("/f1/next_race/"); code != http.StatusOK {
		t.Fatalf("first: want 200, got %d", code)
	}
	if code := send("/f1/next_race/"); code != http.StatusTooManyRequests {
		t.Errorf("second: want 429, got %d", code)
	}
	if code := send("/health"); code != http.StatusOK {
		t.Errorf("health: want 200, got %d", code)
	}
}
