package dataset

import (
	"math"

	"github.com/wonny/comps/internal/external/savant"
)

// Pitch descriptions that count as swings, whiffs, and contact
var (
	swingEvents = map[string]bool{
		"swinging_strike":         true,
		"swinging_strike_blocked": true,
		"foul":                    true,
		"foul_tip":                true,
		"hit_into_play":           true,
		"foul_bunt":               true,
		"missed_bunt":             true,
	}

	whiffEvents = map[string]bool{
		"swinging_strike":         true,
		"swinging_strike_blocked": true,
	}

	contactEvents = map[string]bool{
		"foul":          true,
		"foul_tip":      true,
		"hit_into_play": true,
		"foul_bunt":     true,
	}
)

// Attack zones 1-9 are in the strike zone, 11-14 are out
func inZone(zone *int) bool {
	return zone != nil && *zone >= 1 && *zone <= 9
}

func outZone(zone *int) bool {
	return zone != nil && *zone >= 11 && *zone <= 14
}

// DisciplineSummary holds plate-discipline rates aggregated from
// pitch-level events, each rounded to one decimal.
type DisciplineSummary struct {
	ZonePct        float64 `json:"zone_pct"`
	ChasePct       float64 `json:"chase_pct"`
	ZoneContactPct float64 `json:"zone_contact_pct"`
	WhiffPct       float64 `json:"whiff_pct"`
}

// Discipline computes swing, whiff, and zone rates for a set of pitches.
// Returns false when there are no pitches to aggregate.
func Discipline(pitches []savant.Pitch) (DisciplineSummary, bool) {
	total := len(pitches)
	if total == 0 {
		return DisciplineSummary{}, false
	}

	var nInZone, nOutZone int
	var swings, whiffs int
	var swingsOut, swingsInZone, contactInZone int

	for i := range pitches {
		p := &pitches[i]

		isSwing := swingEvents[p.Description]
		if isSwing {
			swings++
			if whiffEvents[p.Description] {
				whiffs++
			}
		}

		switch {
		case inZone(p.Zone):
			nInZone++
			if isSwing {
				swingsInZone++
				if contactEvents[p.Description] {
					contactInZone++
				}
			}
		case outZone(p.Zone):
			nOutZone++
			if isSwing {
				swingsOut++
			}
		}
	}

	s := DisciplineSummary{
		ZonePct: roundRate(nInZone, total),
	}
	if swings > 0 {
		s.WhiffPct = roundRate(whiffs, swings)
	}
	if nOutZone > 0 {
		s.ChasePct = roundRate(swingsOut, nOutZone)
	}
	if swingsInZone > 0 {
		s.ZoneContactPct = roundRate(contactInZone, swingsInZone)
	}

	return s, true
}

func roundRate(num, den int) float64 {
	return math.Round(float64(num)/float64(den)*1000) / 10
}
