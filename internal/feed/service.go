// Package feed serves the cached endpoint documents. Every endpoint runs the
// same pipeline: cache lookup, upstream fetch, reshape, horizon, expiry.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aaron/pitwall/internal/cache"
	"github.com/aaron/pitwall/internal/expiry"
	"github.com/aaron/pitwall/internal/f1api"
	"github.com/aaron/pitwall/internal/horizon"
	"github.com/aaron/pitwall/internal/openf1"
	"github.com/aaron/pitwall/internal/pitstops"
	"github.com/aaron/pitwall/internal/schedule"
	"github.com/aaron/pitwall/internal/standings"
	"github.com/aaron/pitwall/internal/trackmap"
)

// Cache keys, one per endpoint.
const (
	KeyNextRace     = "f1:next_race"
	KeySeason       = "f1:all_races"
	KeyConstructors = "constructors_championship"
	KeyDrivers      = "drivers_championship"
	KeyTrackMap     = "track_map_svg"
	KeyPitStops     = "pit_stop_averages"
)

var (
	// ErrNoNextRace means the schedule has no upcoming race to derive data from.
	ErrNoNextRace = errors.New("no upcoming race")
	// ErrTrackMap wraps a failure to render the map for both candidate years.
	ErrTrackMap = errors.New("track map generation failed")
)

var (
	longFallback  = expiry.Fallback{Unknown: expiry.LongFallback, Failed: expiry.LongFallback}
	shortFallback = expiry.Fallback{Unknown: expiry.ShortFallback, Failed: expiry.LongFallback}
)

// ScheduleSource is the subset of *f1api.Client used here.
type ScheduleSource interface {
	Season(ctx context.Context) (*f1api.SeasonResponse, error)
	Next(ctx context.Context) (*f1api.NextResponse, error)
	Drivers(ctx context.Context) (*f1api.DriversChampionship, error)
	Constructors(ctx context.Context) (*f1api.ConstructorsChampionship, error)
}

// TimingSource is the subset of *openf1.Client used here.
type TimingSource interface {
	trackmap.Source
	PitStops(ctx context.Context, sessionKey int) ([]openf1.PitStop, error)
}

// Options configures a Service.
type Options struct {
	Location    *time.Location
	EventDetail string
	Grace       time.Duration
	Now         func() time.Time
}

// Service owns the response cache and the upstream clients.
type Service struct {
	schedule ScheduleSource
	timing   TimingSource
	maps     *trackmap.Generator
	reshaper *schedule.Reshaper
	cache    *cache.Cache

	loc    *time.Location
	detail string
	grace  time.Duration
	now    func() time.Time
}

// NewService creates a service with an empty cache.
func NewService(sched ScheduleSource, timing TimingSource, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Grace <= 0 {
		opts.Grace = expiry.DefaultGrace
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		schedule: sched,
		timing:   timing,
		maps:     trackmap.NewGenerator(timing),
		reshaper: schedule.NewReshaper(opts.Location, opts.Now),
		cache:    cache.New(opts.Now),
		loc:      opts.Location,
		detail:   opts.EventDetail,
		grace:    opts.Grace,
		now:      opts.Now,
	}
}

// Location returns the target timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the target timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) policy(fb expiry.Fallback) expiry.Policy {
	return expiry.Policy{Grace: s.grace, Fallback: fb, Now: s.now}
}

func (s *Service) envelope(season int) Envelope {
	return Envelope{Season: season, Timezone: s.loc.String()}
}

// NextRace returns the next race and its next session.
func (s *Service) NextRace(ctx context.Context) (*NextRace, error) {
	return resolve(ctx, s, descriptor[*NextRace]{
		key:      KeyNextRace,
		fallback: shortFallback,
		build: func(ctx context.Context) (*NextRace, error) {
			raw, err := s.schedule.Next(ctx)
			if err != nil {
				return nil, err
			}
			doc := &NextRace{Envelope: s.envelope(raw.Season), Round: raw.Round, Race: make([]schedule.RaceEvent, 0, len(raw.Races))}
			for _, r := range raw.Races {
				doc.Race = append(doc.Race, s.reshaper.Reshape(r, raw.Season))
			}
			if race, ok := doc.Current(); ok {
				if ev, ok := horizon.ResolveNextEvent(race.Schedule, s.detail, s.Now()); ok {
					doc.NextEvent = &ev
				}
			}
			return doc, nil
		},
		horizon: func(_ context.Context, doc *NextRace) expiry.Horizon {
			if doc.NextEvent == nil {
				return expiry.Unknown("no upcoming session")
			}
			return expiry.Known(doc.NextEvent.At)
		},
	})
}

// Season returns every race of the current season, sorted by round.
func (s *Service) Season(ctx context.Context) (*Season, error) {
	return resolve(ctx, s, descriptor[*Season]{
		key:      KeySeason,
		fallback: longFallback,
		build: func(ctx context.Context) (*Season, error) {
			raw, err := s.schedule.Season(ctx)
			if err != nil {
				return nil, err
			}
			races := make([]schedule.RaceEvent, 0, len(raw.Races))
			for _, r := range raw.Races {
				races = append(races, s.reshaper.Reshape(r, raw.Season))
			}
			sort.SliceStable(races, func(i, j int) bool { return races[i].Round < races[j].Round })
			return &Season{
				Envelope:     s.envelope(raw.Season),
				Championship: raw.Championship,
				TotalRaces:   len(races),
				Races:        races,
			}, nil
		},
		horizon: func(_ context.Context, doc *Season) expiry.Horizon {
			now := s.Now()
			race, ok := horizon.NextRaceInSeason(doc.Races, now)
			if !ok {
				return expiry.Unknown("season finished")
			}
			ev, ok := horizon.ResolveNextEvent(race.Schedule, s.detail, now)
			if !ok {
				return expiry.Unknown(fmt.Sprintf("no upcoming session in round %d", race.Round))
			}
			return expiry.Known(ev.At)
		},
	})
}

// Drivers returns the cleaned drivers championship.
func (s *Service) Drivers(ctx context.Context) (*Drivers, error) {
	return resolve(ctx, s, descriptor[*Drivers]{
		key:      KeyDrivers,
		fallback: longFallback,
		build: func(ctx context.Context) (*Drivers, error) {
			raw, err := s.schedule.Drivers(ctx)
			if err != nil {
				return nil, err
			}
			return &Drivers{Envelope: s.envelope(raw.Season), Drivers: standings.Drivers(raw.Standings)}, nil
		},
		horizon: func(ctx context.Context, _ *Drivers) expiry.Horizon {
			return s.nextEventHorizon(ctx)
		},
	})
}

// Constructors returns the cleaned constructors championship.
func (s *Service) Constructors(ctx context.Context) (*Constructors, error) {
	return resolve(ctx, s, descriptor[*Constructors]{
		key:      KeyConstructors,
		fallback: longFallback,
		build: func(ctx context.Context) (*Constructors, error) {
			raw, err := s.schedule.Constructors(ctx)
			if err != nil {
				return nil, err
			}
			return &Constructors{Envelope: s.envelope(raw.Season), Constructors: standings.Constructors(raw.Standings)}, nil
		},
		horizon: func(ctx context.Context, _ *Constructors) expiry.Horizon {
			return s.nextEventHorizon(ctx)
		},
	})
}

// TrackMap renders the circuit of the next race. The map is kept until four
// hours after the race itself, whatever the detail level.
func (s *Service) TrackMap(ctx context.Context) (*TrackMap, error) {
	return resolve(ctx, s, descriptor[*TrackMap]{
		key:      KeyTrackMap,
		fallback: shortFallback,
		build: func(ctx context.Context) (*TrackMap, error) {
			next, err := s.NextRace(ctx)
			if err != nil {
				return nil, err
			}
			race, ok := next.Current()
			if !ok || race.Circuit == nil || race.Circuit.Country == "" {
				return nil, ErrNoNextRace
			}
			svg, year, err := s.maps.GenerateWithFallback(ctx, next.Season, venueOf(race))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrTrackMap, err)
			}
			return &TrackMap{SVG: svg, Year: year}, nil
		},
		horizon: func(ctx context.Context, _ *TrackMap) expiry.Horizon {
			next, err := s.NextRace(ctx)
			if err != nil {
				return expiry.Failed(err)
			}
			race, _ := next.Current()
			ts, err := race.RaceSession().Timestamp()
			if err != nil {
				return expiry.Unknown(err.Error())
			}
			return expiry.Known(ts)
		},
	})
}

// PitStops averages the pit stops of last season's race at the next venue.
func (s *Service) PitStops(ctx context.Context) (*PitStops, error) {
	return resolve(ctx, s, descriptor[*PitStops]{
		key:      KeyPitStops,
		fallback: longFallback,
		build: func(ctx context.Context) (*PitStops, error) {
			next, err := s.NextRace(ctx)
			if err != nil {
				return nil, err
			}
			race, ok := next.Current()
			if !ok || race.Circuit == nil || race.Circuit.Country == "" {
				return nil, ErrNoNextRace
			}
			summary, err := pitstops.ForRace(ctx, s.timing, next.Season-1, venueOf(race))
			if err != nil {
				return nil, err
			}
			return &PitStops{Envelope: s.envelope(next.Season), Summary: summary}, nil
		},
		horizon: func(ctx context.Context, _ *PitStops) expiry.Horizon {
			return s.nextEventHorizon(ctx)
		},
	})
}

// venueOf names the OpenF1 venue of a scheduled race.
func venueOf(race schedule.RaceEvent) openf1.Venue {
	return openf1.Venue{Country: race.Circuit.Country, City: race.Circuit.City}
}

// nextEventHorizon reads the next session from the cached next-race document.
func (s *Service) nextEventHorizon(ctx context.Context) expiry.Horizon {
	next, err := s.NextRace(ctx)
	if err != nil {
		return expiry.Failed(err)
	}
	if next.NextEvent == nil {
		return expiry.Unknown("no upcoming session")
	}
	return expiry.Known(next.NextEvent.At)
}
