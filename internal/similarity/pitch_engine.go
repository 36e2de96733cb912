package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/pkg/logger"
)

// PitchOptions carries the candidacy gates for the pitch engine
type PitchOptions struct {
	// MinCompPitches is the sample floor for a pitch to be a comp
	// candidate. Stricter than the floor to exist in the dataset.
	MinCompPitches int

	// QualityMetric must be present on a candidate; its absence
	// disqualifies the pitch outright.
	QualityMetric string
}

// PitchEngine finds similar pitches across pitchers by pitch type. Break
// and velocity numbers are not comparable across pitch types, so each
// pitch type gets its own fitted normalizer.
type PitchEngine struct {
	rows        []contracts.PitchTypeRow
	z           []map[string]float64
	cfg         contracts.MetricConfig
	normalizers map[string]*Normalizer
	calc        *DistanceCalculator
	metricsUsed []string
	maxDistance float64
	opts        PitchOptions
	log         *logger.Logger
}

// NewPitchEngine builds an engine over a per-pitch-type table
func NewPitchEngine(rows []contracts.PitchTypeRow, cfg contracts.MetricConfig, opts PitchOptions, log *logger.Logger) (*PitchEngine, error) {
	e := &PitchEngine{
		rows:        rows,
		cfg:         cfg,
		normalizers: make(map[string]*Normalizer),
		calc:        NewDistanceCalculator(cfg.Weights()),
		opts:        opts,
		log:         log,
	}

	present := make(map[string]bool)
	for i := range rows {
		for name := range rows[i].Metrics {
			present[name] = true
		}
	}
	for _, m := range cfg.PrimaryMetrics {
		if present[m] {
			e.metricsUsed = append(e.metricsUsed, m)
		}
	}
	if len(e.metricsUsed) == 0 {
		return nil, fmt.Errorf("pitch population: %w", ErrNoPrimaryMetrics)
	}

	e.normalizeByPitchType()
	e.maxDistance = estimateMaxDistance(e.z, e.metricsUsed, e.calc)

	log.WithFields(map[string]interface{}{
		"rows":         len(rows),
		"pitch_types":  len(e.normalizers),
		"metrics_used": len(e.metricsUsed),
		"max_distance": e.maxDistance,
	}).Debug("Pitch similarity engine fitted")

	return e, nil
}

// normalizeByPitchType fits a separate normalizer per pitch type and
// scores every row against its own group's statistics.
func (e *PitchEngine) normalizeByPitchType() {
	groups := make(map[string][]int)
	for i := range e.rows {
		pt := e.rows[i].PitchType
		groups[pt] = append(groups[pt], i)
	}

	e.z = make([]map[string]float64, len(e.rows))
	for pt, indices := range groups {
		groupRows := make([]MetricRow, len(indices))
		for j, idx := range indices {
			groupRows[j] = &e.rows[idx]
		}

		normalizer := NewNormalizer()
		groupZ := normalizer.FitTransform(groupRows, e.metricsUsed)
		e.normalizers[pt] = normalizer

		for j, idx := range indices {
			e.z[idx] = groupZ[j]
		}
	}
}

// MaxDistance returns the estimated scaling distance
func (e *PitchEngine) MaxDistance() float64 {
	return e.maxDistance
}

// FindSimilarPitches finds, for each pitch type the target pitcher throws,
// the topN best matching pitches from other pitchers. Pitch types with no
// surviving candidates are simply absent from the map.
func (e *PitchEngine) FindSimilarPitches(playerID, season, topN int) map[string][]contracts.PitchComp {
	results := make(map[string][]contracts.PitchComp)

	for ti := range e.rows {
		target := &e.rows[ti]
		if target.PlayerID != playerID || target.Season != season {
			continue
		}

		matches := e.matchPitch(ti, target, topN)
		if len(matches) > 0 {
			results[target.PitchType] = matches
		}
	}

	return results
}

// matchPitch ranks candidates for one target pitch row
func (e *PitchEngine) matchPitch(targetIdx int, target *contracts.PitchTypeRow, topN int) []contracts.PitchComp {
	type scored struct {
		idx      int
		distance float64
	}
	var ranked []scored

	for i := range e.rows {
		row := &e.rows[i]
		if row.PitchType != target.PitchType || row.PlayerID == target.PlayerID {
			continue
		}
		if row.NumPitches < e.opts.MinCompPitches {
			continue
		}
		if _, ok := row.Metric(e.opts.QualityMetric); !ok {
			continue
		}
		// Starters comp to starters, relievers to relievers. An unknown
		// candidate role never matches a known target role.
		if target.IsStarter != nil {
			if row.IsStarter == nil || *row.IsStarter != *target.IsStarter {
				continue
			}
		}

		dist := e.calc.Distance(e.z[targetIdx], e.z[i], e.metricsUsed)
		if IsIncomparable(dist) {
			continue
		}
		ranked = append(ranked, scored{idx: i, distance: dist})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	matches := make([]contracts.PitchComp, 0, len(ranked))
	for _, s := range ranked {
		row := &e.rows[s.idx]
		matches = append(matches, contracts.PitchComp{
			PlayerID:   row.PlayerID,
			Season:     row.Season,
			Name:       row.Name(),
			PitchType:  row.PitchType,
			PitchName:  row.PitchName,
			NumPitches: row.NumPitches,
			Similarity: round1(e.calc.DistanceToSimilarity(s.distance, e.maxDistance)),
			Distance:   round4(s.distance),
			Metrics:    e.collectPitchMetrics(row),
			ArmAngle:   row.ArmAngle,
		})
	}
	return matches
}

// GetPitcherPitches returns every pitch type the pitcher threw in the
// season, sorted by pitch count descending.
func (e *PitchEngine) GetPitcherPitches(playerID, season int) []contracts.PitchProfile {
	var pitches []contracts.PitchProfile
	for i := range e.rows {
		row := &e.rows[i]
		if row.PlayerID != playerID || row.Season != season {
			continue
		}
		pitches = append(pitches, contracts.PitchProfile{
			PitchType:  row.PitchType,
			PitchName:  row.PitchName,
			NumPitches: row.NumPitches,
			Metrics:    e.collectPitchMetrics(row),
			ArmAngle:   row.ArmAngle,
		})
	}

	sort.SliceStable(pitches, func(i, j int) bool {
		return pitches[i].NumPitches > pitches[j].NumPitches
	})
	return pitches
}

// GetPitcherInfo returns the pitcher's name and mean arm angle across
// their pitch types, or nil when the pitcher-season is absent.
func (e *PitchEngine) GetPitcherInfo(playerID, season int) *contracts.PitcherInfo {
	var info *contracts.PitcherInfo
	var armAngles []float64

	for i := range e.rows {
		row := &e.rows[i]
		if row.PlayerID != playerID || row.Season != season {
			continue
		}
		if info == nil {
			info = &contracts.PitcherInfo{
				PlayerID: playerID,
				Season:   season,
				Name:     row.Name(),
			}
		}
		if row.ArmAngle != nil {
			armAngles = append(armAngles, *row.ArmAngle)
		}
	}

	if info != nil && len(armAngles) > 0 {
		avg := math.Round(meanOf(armAngles)*10) / 10
		info.ArmAngle = &avg
	}
	return info
}

func (e *PitchEngine) collectPitchMetrics(row *contracts.PitchTypeRow) map[string]float64 {
	out := make(map[string]float64, len(e.metricsUsed))
	for _, m := range e.metricsUsed {
		if v, ok := row.Metric(m); ok {
			out[m] = v
		}
	}
	return out
}
