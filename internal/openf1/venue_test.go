package openf1

import "testing"

func TestCountryName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"USA", "United States"},
		{"UK", "Great Britain"},
		{"UAE", "United Arab Emirates"},
		{"Italy", "Italy"},
		{" Monaco ", "Monaco"},
	}
	for _, tt := range tests {
		if got := CountryName(tt.in); got != tt.want {
			t.Errorf("CountryName(%q): want %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestVenuePick(t *testing.T) {
	usa := []Session{
		{SessionKey: 9500, Location: "Miami", CircuitShortName: "Miami"},
		{SessionKey: 9600, Location: "Austin", CircuitShortName: "Austin"},
		{SessionKey: 9700, Location: "Las Vegas", CircuitShortName: "Las Vegas"},
	}
	tests := []struct {
		name     string
		venue    Venue
		sessions []Session
		want     int
	}{
		{"first of three", Venue{Country: "USA", City: "Miami"}, usa, 9500},
		{"middle", Venue{Country: "USA", City: "austin"}, usa, 9600},
		{"unknown city falls back to last", Venue{Country: "USA", City: "Detroit"}, usa, 9700},
		{"no city falls back to last", Venue{Country: "USA"}, usa, 9700},
		{"accents folded", Venue{Country: "Canada", City: "Montreal"}, []Session{
			{SessionKey: 1, Location: "Montréal"},
		}, 1},
		{"short name", Venue{Country: "Italy", City: "Imola"}, []Session{
			{SessionKey: 2, Location: "Imola", CircuitShortName: "Imola"},
			{SessionKey: 3, Location: "Monza", CircuitShortName: "Monza"},
		}, 2},
		{"partial name", Venue{Country: "Belgium", City: "Spa"}, []Session{
			{SessionKey: 4, Location: "Spa-Francorchamps"},
		}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.venue.Pick(tt.sessions)
			if !ok || got.SessionKey != tt.want {
				t.Errorf("want session %d, got %d (ok=%v)", tt.want, got.SessionKey, ok)
			}
		})
	}
}

func TestVenuePick_Empty(t *testing.T) {
	if _, ok := (Venue{Country: "USA", City: "Miami"}).Pick(nil); ok {
		t.Error("want no session from an empty list")
	}
}
