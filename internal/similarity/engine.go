package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/pkg/logger"
)

// ErrNoPrimaryMetrics means the population table has none of the
// configured primary metrics. This is a configuration/data mismatch that
// cannot be recovered from at query time, so construction fails
// immediately instead of surfacing later as confusing empty results.
var ErrNoPrimaryMetrics = errors.New("dataset missing all primary metrics")

// maxDistanceFallback is used when no metric has a computable z-range
const maxDistanceFallback = 10.0

// SeasonEngine finds comparable player-seasons within one population.
// Construction fits the normalizer and derives z-scores; after that the
// engine is an immutable snapshot and queries are safe to run
// concurrently.
type SeasonEngine struct {
	rows        []contracts.PlayerSeasonRow
	z           []map[string]float64
	cfg         contracts.MetricConfig
	normalizer  *Normalizer
	calc        *DistanceCalculator
	metricsUsed []string
	maxDistance float64
	log         *logger.Logger
}

// NewSeasonEngine builds an engine over a population table
func NewSeasonEngine(rows []contracts.PlayerSeasonRow, cfg contracts.MetricConfig, log *logger.Logger) (*SeasonEngine, error) {
	e := &SeasonEngine{
		rows: rows,
		cfg:  cfg,
		calc: NewDistanceCalculator(cfg.Weights()),
		log:  log,
	}

	// Keep only the configured primary metrics the table actually has
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
		return nil, fmt.Errorf("%s population: %w", cfg.PlayerType, ErrNoPrimaryMetrics)
	}

	e.normalizer = NewNormalizer()
	e.z = e.normalizer.FitTransform(metricRows(rows), e.metricsUsed)
	e.maxDistance = estimateMaxDistance(e.z, e.metricsUsed, e.calc)

	log.WithFields(map[string]interface{}{
		"player_type":  string(cfg.PlayerType),
		"rows":         len(rows),
		"metrics_used": len(e.metricsUsed),
		"max_distance": e.maxDistance,
	}).Debug("Season similarity engine fitted")

	return e, nil
}

// estimateMaxDistance scales similarity scores without an O(n²) pairwise
// pass: average per-metric z-range × sqrt(total weight) × 1.5.
func estimateMaxDistance(z []map[string]float64, metrics []string, calc *DistanceCalculator) float64 {
	var ranges []float64
	for _, m := range metrics {
		lo, hi := math.Inf(1), math.Inf(-1)
		found := false
		for _, row := range z {
			if v, ok := row[m]; ok {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
				found = true
			}
		}
		if found {
			ranges = append(ranges, hi-lo)
		}
	}

	if len(ranges) == 0 {
		return maxDistanceFallback
	}

	totalWeight := 0.0
	for _, m := range metrics {
		totalWeight += calc.Weight(m)
	}
	avgRange := meanOf(ranges)
	return avgRange * math.Sqrt(totalWeight) * 1.5
}

// MetricsUsed returns the fitted metric names
func (e *SeasonEngine) MetricsUsed() []string {
	return e.metricsUsed
}

// MaxDistance returns the estimated scaling distance
func (e *SeasonEngine) MaxDistance() float64 {
	return e.maxDistance
}

// FindSimilar returns the topN most similar player-seasons to the given
// one. A missing target yields an empty result, not an error; the same
// goes for a candidate pool that empties out after filtering.
func (e *SeasonEngine) FindSimilar(playerID, season, topN int, excludeSamePlayer bool) []contracts.PlayerComp {
	targetIdx := e.findRow(playerID, season)
	if targetIdx < 0 {
		return []contracts.PlayerComp{}
	}
	target := &e.rows[targetIdx]

	candidates := make([]int, 0, len(e.rows))
	for i := range e.rows {
		if i == targetIdx {
			continue
		}
		if excludeSamePlayer && e.rows[i].PlayerID == playerID {
			continue
		}
		candidates = append(candidates, i)
	}

	candidates = e.filterBySanityMetric(target, candidates)
	if e.cfg.PlayerType == contracts.Pitcher {
		candidates = e.filterByRole(target, candidates)
	}
	candidates = e.filterByCoverage(candidates)

	type scored struct {
		idx      int
		distance float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, idx := range candidates {
		dist := e.calc.Distance(e.z[targetIdx], e.z[idx], e.metricsUsed)
		if IsIncomparable(dist) {
			continue
		}
		ranked = append(ranked, scored{idx: idx, distance: dist})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	results := make([]contracts.PlayerComp, 0, len(ranked))
	for _, s := range ranked {
		row := &e.rows[s.idx]
		results = append(results, contracts.PlayerComp{
			PlayerID:    row.PlayerID,
			Season:      row.Season,
			Name:        row.Name(),
			Similarity:  round1(e.calc.DistanceToSimilarity(s.distance, e.maxDistance)),
			Distance:    round4(s.distance),
			Metrics:     e.collectMetrics(row),
			ResultStats: e.collectResultStats(row),
			Percentiles: e.percentileMap(row),
		})
	}

	e.log.WithFields(map[string]interface{}{
		"player_id": playerID,
		"season":    season,
		"results":   len(results),
	}).Debug("Similarity query completed")

	return results
}

// GetPlayerSeason returns the enriched profile for one player-season, or
// nil when it does not exist.
func (e *SeasonEngine) GetPlayerSeason(playerID, season int) *contracts.SeasonProfile {
	idx := e.findRow(playerID, season)
	if idx < 0 {
		return nil
	}
	row := &e.rows[idx]

	return &contracts.SeasonProfile{
		PlayerID:    row.PlayerID,
		Season:      row.Season,
		Name:        row.Name(),
		Metrics:     e.collectMetrics(row),
		ResultStats: e.collectResultStats(row),
		Percentiles: e.percentileMap(row),
	}
}

// AvailablePlayers lists every player-season in the population
func (e *SeasonEngine) AvailablePlayers() []contracts.PlayerRef {
	refs := make([]contracts.PlayerRef, 0, len(e.rows))
	for i := range e.rows {
		refs = append(refs, contracts.PlayerRef{
			PlayerID: e.rows[i].PlayerID,
			Season:   e.rows[i].Season,
			Name:     e.rows[i].Name(),
		})
	}
	return refs
}

// SearchPlayers finds player-seasons whose name contains the query,
// case-insensitively, sorted by last name, first name, season.
func (e *SeasonEngine) SearchPlayers(query string) []contracts.PlayerRef {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []contracts.PlayerRef{}
	}

	type match struct {
		ref   contracts.PlayerRef
		last  string
		first string
	}
	var matches []match
	for i := range e.rows {
		row := &e.rows[i]
		first := strings.ToLower(row.FirstName)
		last := strings.ToLower(row.LastName)
		if strings.Contains(first, q) || strings.Contains(last, q) {
			matches = append(matches, match{
				ref: contracts.PlayerRef{
					PlayerID: row.PlayerID,
					Season:   row.Season,
					Name:     row.Name(),
				},
				last:  last,
				first: first,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].last != matches[j].last {
			return matches[i].last < matches[j].last
		}
		if matches[i].first != matches[j].first {
			return matches[i].first < matches[j].first
		}
		return matches[i].ref.Season < matches[j].ref.Season
	})

	refs := make([]contracts.PlayerRef, len(matches))
	for i, m := range matches {
		refs[i] = m.ref
	}
	return refs
}

// findRow returns the index of the unique (playerID, season) row, or -1
func (e *SeasonEngine) findRow(playerID, season int) int {
	for i := range e.rows {
		if e.rows[i].PlayerID == playerID && e.rows[i].Season == season {
			return i
		}
	}
	return -1
}

// filterBySanityMetric drops candidates whose sanity-check metric differs
// from the target's by more than the configured tolerance. A candidate
// missing the metric is dropped too. A target missing it skips the filter.
func (e *SeasonEngine) filterBySanityMetric(target *contracts.PlayerSeasonRow, candidates []int) []int {
	targetVal, ok := target.Metric(e.cfg.SanityMetric)
	if !ok {
		return candidates
	}

	kept := candidates[:0]
	for _, idx := range candidates {
		v, ok := e.rows[idx].Metric(e.cfg.SanityMetric)
		if !ok {
			continue
		}
		if math.Abs(v-targetVal) <= e.cfg.SanityTolerance {
			kept = append(kept, idx)
		}
	}
	return kept
}

// filterByRole keeps starters for a starter target and relievers for a
// reliever target. Starter candidates must additionally clear the innings
// floor; that bar applies to candidates only, so a small-sample starter
// can still search for comps without being offered as one.
func (e *SeasonEngine) filterByRole(target *contracts.PlayerSeasonRow, candidates []int) []int {
	targetStarter, known := target.IsStarter(e.cfg.Role.StarterGSRatio)
	if !known {
		return candidates
	}

	kept := candidates[:0]
	for _, idx := range candidates {
		row := &e.rows[idx]
		// An undetermined candidate role counts as reliever
		candStarter, _ := row.IsStarter(e.cfg.Role.StarterGSRatio)

		if targetStarter {
			if !candStarter {
				continue
			}
			ip, ok := row.Metric("ip")
			if !ok || ip < e.cfg.Role.MinStarterCompIP {
				continue
			}
		} else if candStarter {
			continue
		}
		kept = append(kept, idx)
	}
	return kept
}

// filterByCoverage requires each coverage group's minimum count of
// non-missing fitted metrics per candidate.
func (e *SeasonEngine) filterByCoverage(candidates []int) []int {
	if len(e.cfg.CoverageGroups) == 0 {
		return candidates
	}

	fitted := make(map[string]bool, len(e.metricsUsed))
	for _, m := range e.metricsUsed {
		fitted[m] = true
	}

	kept := candidates[:0]
	for _, idx := range candidates {
		ok := true
		for _, group := range e.cfg.CoverageGroups {
			count := 0
			for _, m := range group.Metrics {
				if !fitted[m] {
					continue
				}
				if _, present := e.z[idx][m]; present {
					count++
				}
			}
			if count < group.MinPresent {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, idx)
		}
	}
	return kept
}

// collectMetrics gathers the raw values of the scored metrics plus the
// sanity-check metric.
func (e *SeasonEngine) collectMetrics(row *contracts.PlayerSeasonRow) map[string]float64 {
	out := make(map[string]float64, len(e.metricsUsed)+1)
	for _, m := range e.metricsUsed {
		if v, ok := row.Metric(m); ok {
			out[m] = v
		}
	}
	if v, ok := row.Metric(e.cfg.SanityMetric); ok {
		out[e.cfg.SanityMetric] = v
	}
	return out
}

func (e *SeasonEngine) collectResultStats(row *contracts.PlayerSeasonRow) map[string]float64 {
	if len(e.cfg.ResultStats) == 0 || row.ResultStats == nil {
		return nil
	}
	out := make(map[string]float64, len(e.cfg.ResultStats))
	for _, stat := range e.cfg.ResultStats {
		if v, ok := row.ResultStats[stat]; ok {
			out[stat] = v
		}
	}
	return out
}

// percentileMap computes within-season percentiles for every present
// scored metric and the sanity metric, keyed "<metric>_pct".
func (e *SeasonEngine) percentileMap(row *contracts.PlayerSeasonRow) map[string]float64 {
	out := make(map[string]float64, len(e.metricsUsed)+1)
	for _, m := range e.metricsUsed {
		if v, ok := row.Metric(m); ok {
			out[m+"_pct"] = e.percentile(m, v, row.Season)
		}
	}
	if v, ok := row.Metric(e.cfg.SanityMetric); ok {
		out[e.cfg.SanityMetric+"_pct"] = e.percentile(e.cfg.SanityMetric, v, row.Season)
	}
	return out
}

// percentile ranks a value among same-season peers on the raw scale,
// never across the full multi-season population, to avoid cross-season
// baseline drift. Direction-corrected and clamped to [1, 99].
func (e *SeasonEngine) percentile(metric string, value float64, season int) float64 {
	below, total := 0, 0
	for i := range e.rows {
		if e.rows[i].Season != season {
			continue
		}
		v, ok := e.rows[i].Metric(metric)
		if !ok {
			continue
		}
		total++
		if v < value {
			below++
		}
	}

	if total == 0 {
		return 50.0
	}

	pct := float64(below) / float64(total) * 100
	if !e.cfg.HigherIsBetter(metric) {
		pct = 100 - pct
	}
	return math.Max(1, math.Min(99, pct))
}

func metricRows(rows []contracts.PlayerSeasonRow) []MetricRow {
	out := make([]MetricRow, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
