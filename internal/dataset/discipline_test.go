package dataset

import (
	"testing"

	"github.com/wonny/comps/internal/external/savant"
)

func zonePitch(zone int, description string) savant.Pitch {
	z := zone
	return savant.Pitch{Zone: &z, Description: description}
}

func TestDiscipline(t *testing.T) {
	// 10 pitches: 6 in zone, 4 out.
	// In zone: 2 takes, 2 swinging strikes, 2 fouls.
	// Out of zone: 3 balls, 1 chase that hits into play.
	pitches := []savant.Pitch{
		zonePitch(5, "called_strike"),
		zonePitch(1, "called_strike"),
		zonePitch(5, "swinging_strike"),
		zonePitch(9, "swinging_strike"),
		zonePitch(2, "foul"),
		zonePitch(3, "foul"),
		zonePitch(11, "ball"),
		zonePitch(12, "ball"),
		zonePitch(14, "ball"),
		zonePitch(13, "hit_into_play"),
	}

	s, ok := Discipline(pitches)
	if !ok {
		t.Fatal("expected a summary")
	}

	if s.ZonePct != 60.0 {
		t.Errorf("ZonePct = %v, want 60.0", s.ZonePct)
	}
	// 5 swings, 2 whiffs
	if s.WhiffPct != 40.0 {
		t.Errorf("WhiffPct = %v, want 40.0", s.WhiffPct)
	}
	// 1 of 4 out-of-zone pitches chased
	if s.ChasePct != 25.0 {
		t.Errorf("ChasePct = %v, want 25.0", s.ChasePct)
	}
	// 4 in-zone swings, 2 made contact
	if s.ZoneContactPct != 50.0 {
		t.Errorf("ZoneContactPct = %v, want 50.0", s.ZoneContactPct)
	}
}

func TestDiscipline_NoPitches(t *testing.T) {
	if _, ok := Discipline(nil); ok {
		t.Error("no pitches must not produce a summary")
	}
}

func TestDiscipline_MissingZones(t *testing.T) {
	// Pitches with no zone reading still count toward swings and whiffs
	pitches := []savant.Pitch{
		{Description: "swinging_strike"},
		{Description: "foul"},
		{Description: "ball"},
		{Description: "ball"},
	}

	s, ok := Discipline(pitches)
	if !ok {
		t.Fatal("expected a summary")
	}
	if s.WhiffPct != 50.0 {
		t.Errorf("WhiffPct = %v, want 50.0", s.WhiffPct)
	}
	if s.ZonePct != 0.0 || s.ChasePct != 0.0 {
		t.Errorf("zoneless pitches must not count toward zone rates, got %+v", s)
	}
}

func TestDiscipline_Rounding(t *testing.T) {
	// 3 pitches in zone out of 7 = 42.857... -> 42.9
	var pitches []savant.Pitch
	for i := 0; i < 3; i++ {
		pitches = append(pitches, zonePitch(5, "called_strike"))
	}
	for i := 0; i < 4; i++ {
		pitches = append(pitches, zonePitch(11, "ball"))
	}

	s, ok := Discipline(pitches)
	if !ok {
		t.Fatal("expected a summary")
	}
	if s.ZonePct != 42.9 {
		t.Errorf("ZonePct = %v, want 42.9", s.ZonePct)
	}
}
