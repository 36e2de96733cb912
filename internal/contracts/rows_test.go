package contracts

import "testing"

func intPtr(v int) *int { return &v }

func TestPlayerSeasonRow_Metric(t *testing.T) {
	row := PlayerSeasonRow{
		PlayerID: 660271,
		Season:   2024,
		Metrics:  map[string]float64{"exit_velocity": 94.2},
	}

	v, ok := row.Metric("exit_velocity")
	if !ok || v != 94.2 {
		t.Errorf("Metric(exit_velocity) = %f, %v; want 94.2, true", v, ok)
	}

	// Missing stays missing, never zero-substituted
	if _, ok := row.Metric("barrel_pct"); ok {
		t.Error("Metric(barrel_pct) should be absent")
	}
}

func TestPlayerSeasonRow_IsStarter(t *testing.T) {
	tests := []struct {
		name         string
		games        *int
		gamesStarted *int
		wantStarter  bool
		wantKnown    bool
	}{
		{"pure starter", intPtr(30), intPtr(30), true, true},
		{"reliever", intPtr(60), intPtr(2), false, true},
		{"swingman at threshold", intPtr(40), intPtr(20), true, true},
		{"just under threshold", intPtr(41), intPtr(20), false, true},
		{"zero games", intPtr(0), intPtr(0), false, false},
		{"unknown games", nil, intPtr(10), false, false},
		{"unknown games started", intPtr(30), nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := PlayerSeasonRow{Games: tt.games, GamesStarted: tt.gamesStarted}
			starter, known := row.IsStarter(0.5)
			if known != tt.wantKnown {
				t.Fatalf("known = %v, want %v", known, tt.wantKnown)
			}
			if known && starter != tt.wantStarter {
				t.Errorf("starter = %v, want %v", starter, tt.wantStarter)
			}
		})
	}
}

func TestRowNames(t *testing.T) {
	row := PlayerSeasonRow{FirstName: "Aaron", LastName: "Judge"}
	if row.Name() != "Aaron Judge" {
		t.Errorf("Name() = %q, want %q", row.Name(), "Aaron Judge")
	}

	empty := PlayerSeasonRow{}
	if empty.Name() != "" {
		t.Errorf("Name() = %q, want empty", empty.Name())
	}

	pitch := PitchTypeRow{FirstName: "Jacob", LastName: "deGrom"}
	if pitch.Name() != "Jacob deGrom" {
		t.Errorf("Name() = %q, want %q", pitch.Name(), "Jacob deGrom")
	}
}
