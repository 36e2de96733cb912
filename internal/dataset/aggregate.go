package dataset

import (
	"math"
	"sort"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/internal/external/savant"
	"github.com/wonny/comps/internal/metrics"
)

// AggregatePitchTypes rolls pitch-level events into one row per pitch type,
// dropping unknown types and types under the minPitches sample floor.
// Stuff+ is a leaderboard metric, not derivable from events; the caller
// merges it in afterward.
func AggregatePitchTypes(playerID, season int, pitches []savant.Pitch, minPitches int) []contracts.PitchTypeRow {
	groups := make(map[string][]savant.Pitch)
	for i := range pitches {
		pt := pitches[i].PitchType
		if _, known := metrics.PitchTypeNames[pt]; !known {
			continue
		}
		groups[pt] = append(groups[pt], pitches[i])
	}

	types := make([]string, 0, len(groups))
	for pt := range groups {
		types = append(types, pt)
	}
	sort.Strings(types)

	var rows []contracts.PitchTypeRow
	for _, pt := range types {
		group := groups[pt]
		if len(group) < minPitches {
			continue
		}

		row := contracts.PitchTypeRow{
			PlayerID:   playerID,
			Season:     season,
			PitchType:  pt,
			PitchName:  metrics.PitchTypeName(pt),
			NumPitches: len(group),
			Metrics:    make(map[string]float64),
		}

		if v, ok := meanPitchField(group, func(p *savant.Pitch) *float64 { return p.ReleaseSpeed }); ok {
			row.Metrics["avg_velo"] = round1p(v)
		}
		// Break is reported in feet; the arsenal convention is inches
		if v, ok := meanPitchField(group, func(p *savant.Pitch) *float64 { return p.PfxZ }); ok {
			row.Metrics["avg_ivb"] = round1p(v * 12)
		}
		if v, ok := meanPitchField(group, func(p *savant.Pitch) *float64 { return p.PfxX }); ok {
			row.Metrics["avg_ihb"] = round1p(v * 12)
		}
		if v, ok := meanPitchField(group, func(p *savant.Pitch) *float64 { return p.ReleaseSpin }); ok {
			row.Metrics["avg_spin"] = math.Round(v)
		}
		if v, ok := meanPitchField(group, func(p *savant.Pitch) *float64 { return p.ArmAngle }); ok {
			angle := round1p(v)
			row.ArmAngle = &angle
		}

		if s, ok := Discipline(group); ok {
			row.Metrics["whiff_pct"] = s.WhiffPct
			row.Metrics["zone_pct"] = s.ZonePct
			row.Metrics["chase_pct"] = s.ChasePct
		}

		addBattedBallExpected(group, row.Metrics)

		rows = append(rows, row)
	}

	return rows
}

// InferStarter classifies a pitcher as a starter when they entered in the
// first inning in at least half their appearances.
func InferStarter(pitches []savant.Pitch) bool {
	firstInning := make(map[int]int)
	for i := range pitches {
		p := &pitches[i]
		if p.GamePk == 0 || p.Inning == 0 {
			continue
		}
		if cur, ok := firstInning[p.GamePk]; !ok || p.Inning < cur {
			firstInning[p.GamePk] = p.Inning
		}
	}

	if len(firstInning) == 0 {
		return false
	}

	started := 0
	for _, inning := range firstInning {
		if inning == 1 {
			started++
		}
	}
	return float64(started)/float64(len(firstInning)) >= 0.5
}

// addBattedBallExpected averages expected stats over balls in play only
func addBattedBallExpected(group []savant.Pitch, out map[string]float64) {
	var wobaSum, slgSum float64
	var wobaN, slgN int

	for i := range group {
		p := &group[i]
		if p.Description != "hit_into_play" {
			continue
		}
		if p.EstimatedWOBA != nil {
			wobaSum += *p.EstimatedWOBA
			wobaN++
		}
		if p.EstimatedSLG != nil {
			slgSum += *p.EstimatedSLG
			slgN++
		}
	}

	if wobaN > 0 {
		out["xwoba"] = math.Round(wobaSum/float64(wobaN)*1000) / 1000
	}
	if slgN > 0 {
		out["xslg"] = math.Round(slgSum/float64(slgN)*1000) / 1000
	}
}

func meanPitchField(group []savant.Pitch, field func(*savant.Pitch) *float64) (float64, bool) {
	var sum float64
	var n int
	for i := range group {
		if v := field(&group[i]); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func round1p(v float64) float64 {
	return math.Round(v*10) / 10
}
