package horizon

import (
	"testing"
	"time"

	"github.com/aaron/pitwall/internal/schedule"
)

var now = time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *schedule.SessionTime {
	return schedule.NewSessionTime(now.Add(d))
}

func TestResolveNextEvent_PicksFirstFuture(t *testing.T) {
	s := schedule.Schedule{
		schedule.FP1:        at(-time.Hour),
		schedule.Qualifying: at(2 * time.Hour),
		schedule.FP2:        at(time.Hour),
	}
	ev, ok := ResolveNextEvent(s, DetailAll, now)
	if !ok {
		t.Fatal("want an event")
	}
	if ev.Session != schedule.FP2 {
		t.Errorf("want fp2 at T+1, got %s", ev.Session)
	}
	if ev.Name != "Free Practice 2" {
		t.Errorf("name: got %q", ev.Name)
	}
	if !ev.At.Equal(now.Add(time.Hour)) {
		t.Errorf("at: got %v", ev.At)
	}
}

func TestResolveNextEvent_NeverReturnsPastOrNow(t *testing.T) {
	s := schedule.Schedule{
		schedule.FP1:  at(-2 * time.Hour),
		schedule.FP2:  at(0),
		schedule.Race: at(-time.Minute),
	}
	if ev, ok := ResolveNextEvent(s, DetailAll, now); ok {
		t.Errorf("want none, got %+v", ev)
	}
}

func TestResolveNextEvent_MainSkipsPractice(t *testing.T) {
	s := schedule.Schedule{
		schedule.FP1:  at(time.Hour),
		schedule.Race: at(2 * time.Hour),
	}
	ev, ok := ResolveNextEvent(s, DetailMain, now)
	if !ok || ev.Session != schedule.Race {
		t.Fatalf("want race, got %+v (ok=%v)", ev, ok)
	}
}

func TestResolveNextEvent_RaceOnly(t *testing.T) {
	s := schedule.Schedule{
		schedule.Qualifying:       at(time.Hour),
		schedule.SprintQualifying: at(2 * time.Hour),
		schedule.SprintRace:       at(3 * time.Hour),
		schedule.Race:             at(4 * time.Hour),
	}
	ev, ok := ResolveNextEvent(s, DetailRace, now)
	if !ok || ev.Session != schedule.SprintRace {
		t.Fatalf("want sprintRace, got %+v", ev)
	}
	ev, _ = ResolveNextEvent(s, DetailMain, now)
	if ev.Session != schedule.Qualifying {
		t.Errorf("main: want qualy, got %s", ev.Session)
	}
	ev, _ = ResolveNextEvent(s, "anything", now)
	if ev.Session != schedule.Qualifying {
		t.Errorf("unknown detail: want qualy, got %s", ev.Session)
	}
}

func TestResolveNextEvent_SkipsUnscheduled(t *testing.T) {
	s := schedule.Schedule{
		schedule.SprintRace: {},
		schedule.FP3:        nil,
		schedule.Race:       at(time.Hour),
	}
	ev, ok := ResolveNextEvent(s, DetailAll, now)
	if !ok || ev.Session != schedule.Race {
		t.Fatalf("want race, got %+v", ev)
	}
}

func TestLabel(t *testing.T) {
	tests := map[schedule.SessionID]string{
		schedule.FP1:              "Free Practice 1",
		schedule.FP3:              "Free Practice 3",
		schedule.Qualifying:       "Qualifying",
		schedule.SprintQualifying: "Sprint Qualifying",
		schedule.SprintRace:       "Sprint Race",
		schedule.Race:             "Race",
		"sprint_shootout":         "Sprint Shootout",
		"warmup":                  "Warmup",
	}
	for id, want := range tests {
		if got := Label(id); got != want {
			t.Errorf("Label(%q) = %q, want %q", id, got, want)
		}
	}
}

func race(round int, d time.Duration) schedule.RaceEvent {
	return schedule.RaceEvent{Round: round, Schedule: schedule.Schedule{schedule.Race: at(d)}}
}

func TestNextRaceInSeason(t *testing.T) {
	races := []schedule.RaceEvent{
		race(3, 14*24*time.Hour),
		race(1, -7*24*time.Hour),
		race(2, 7*24*time.Hour),
		{Round: 4},
	}
	r, ok := NextRaceInSeason(races, now)
	if !ok || r.Round != 2 {
		t.Fatalf("want round 2, got %+v", r)
	}
}

func TestNextRaceInSeason_RaceDayIsInclusive(t *testing.T) {
	races := []schedule.RaceEvent{
		race(1, -3*time.Hour), // started this morning
		race(2, 7*24*time.Hour),
	}
	r, ok := NextRaceInSeason(races, now)
	if !ok || r.Round != 1 {
		t.Fatalf("want round 1 on its own race day, got %+v", r)
	}
}

func TestNextRaceInSeason_SeasonOver(t *testing.T) {
	races := []schedule.RaceEvent{race(1, -48*time.Hour)}
	if r, ok := NextRaceInSeason(races, now); ok {
		t.Errorf("want none, got %+v", r)
	}
}
