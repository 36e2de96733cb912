package dataset

import (
	"math"
	"testing"

	"github.com/wonny/comps/internal/external/savant"
)

func TestSprayAngle(t *testing.T) {
	c := NewSprayCalculator()

	tests := []struct {
		name     string
		hcX, hcY float64
		want     float64
	}{
		{"straight up the middle", 125.42, 100.0, 0.0},
		{"dead left field line", 80.0, 153.58, -45.0},
		{"dead right field line", 170.84, 153.58, 45.0},
		{"behind the plate", 125.42, 210.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.SprayAngle(tt.hcX, tt.hcY)
			if math.Abs(got-tt.want) > 0.1 {
				t.Errorf("SprayAngle(%v, %v) = %v, want %v", tt.hcX, tt.hcY, got, tt.want)
			}
		})
	}
}

func TestIsPulled(t *testing.T) {
	c := NewSprayCalculator()

	tests := []struct {
		name  string
		angle float64
		hand  string
		want  bool
	}{
		{"RHB pulls to left field", -30, "R", true},
		{"RHB oppo", 30, "R", false},
		{"RHB inside the threshold", -16.9, "R", false},
		{"LHB pulls to right field", 30, "L", true},
		{"LHB oppo", -30, "L", false},
		{"unknown hand", -30, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsPulled(tt.angle, tt.hand); got != tt.want {
				t.Errorf("IsPulled(%v, %q) = %v, want %v", tt.angle, tt.hand, got, tt.want)
			}
		})
	}
}

func TestIsAirBall(t *testing.T) {
	c := NewSprayCalculator()

	air := []string{"fly_ball", "line_drive", "popup"}
	for _, bb := range air {
		if !c.IsAirBall(bb) {
			t.Errorf("IsAirBall(%q) = false, want true", bb)
		}
	}
	if c.IsAirBall("ground_ball") || c.IsAirBall("") {
		t.Error("grounders and unknown types are not air balls")
	}
}

// bip builds a ball-in-play event at given coordinates
func bip(hcX, hcY float64, bbType, stand string) savant.Pitch {
	return savant.Pitch{Type: "X", HCX: &hcX, HCY: &hcY, BBType: bbType, Stand: stand}
}

func TestPulledAirPct(t *testing.T) {
	c := NewSprayCalculator()

	// 20 balls in play for a right-handed batter: 10 pulled flies down the
	// left field line, 5 center-field flies, 5 grounders.
	var pitches []savant.Pitch
	for i := 0; i < 10; i++ {
		pitches = append(pitches, bip(80.0, 150.0, "fly_ball", "R"))
	}
	for i := 0; i < 5; i++ {
		pitches = append(pitches, bip(125.42, 100.0, "fly_ball", "R"))
	}
	for i := 0; i < 5; i++ {
		pitches = append(pitches, bip(80.0, 150.0, "ground_ball", "R"))
	}

	pct, ok := c.PulledAirPct(pitches)
	if !ok {
		t.Fatal("expected a computable rate")
	}
	// 10 pulled air balls over 20 balls in play
	if pct != 50.0 {
		t.Errorf("PulledAirPct = %v, want 50.0", pct)
	}
}

func TestPulledAirPct_SmallSample(t *testing.T) {
	c := NewSprayCalculator()

	var pitches []savant.Pitch
	for i := 0; i < 15; i++ {
		pitches = append(pitches, bip(80.0, 150.0, "fly_ball", "R"))
	}

	if _, ok := c.PulledAirPct(pitches); ok {
		t.Error("under 20 balls in play must not produce a rate")
	}

	// Enough BIP but too few air balls
	pitches = nil
	for i := 0; i < 25; i++ {
		pitches = append(pitches, bip(80.0, 150.0, "ground_ball", "R"))
	}
	for i := 0; i < 5; i++ {
		pitches = append(pitches, bip(80.0, 150.0, "fly_ball", "R"))
	}
	if _, ok := c.PulledAirPct(pitches); ok {
		t.Error("under 10 air balls must not produce a rate")
	}
}

func TestPulledAirPct_IgnoresNonBIPAndMissingCoords(t *testing.T) {
	c := NewSprayCalculator()

	var pitches []savant.Pitch
	for i := 0; i < 20; i++ {
		pitches = append(pitches, bip(80.0, 150.0, "fly_ball", "R"))
	}
	// Called strikes and coordinate-less events don't count as BIP
	pitches = append(pitches, savant.Pitch{Type: "S", Description: "called_strike"})
	pitches = append(pitches, savant.Pitch{Type: "X", BBType: "fly_ball", Stand: "R"})

	pct, ok := c.PulledAirPct(pitches)
	if !ok {
		t.Fatal("expected a computable rate")
	}
	if pct != 100.0 {
		t.Errorf("PulledAirPct = %v, want 100.0", pct)
	}
}
