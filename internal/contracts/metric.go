package contracts

import "fmt"

// PlayerType distinguishes the two season-level populations. Batters and
// pitchers are never compared to each other.
type PlayerType string

const (
	Batter  PlayerType = "batter"
	Pitcher PlayerType = "pitcher"
)

// Valid reports whether the player type is a known population
func (p PlayerType) Valid() bool {
	return p == Batter || p == Pitcher
}

// MetricDefinition describes a single metric used in similarity calculations
type MetricDefinition struct {
	Name           string  `json:"name"`
	Weight         float64 `json:"weight"`
	HigherIsBetter bool    `json:"higher_is_better"`
	DisplayName    string  `json:"display_name"`
	Format         string  `json:"format"` // fmt verb for display, e.g. "%.1f"
	Suffix         string  `json:"suffix"` // display suffix, e.g. "%", " mph"
}

// CoverageGroup is a named set of metrics a candidate must have minimum
// coverage in to be rankable. Keeps a single noisy dimension from driving
// a match.
type CoverageGroup struct {
	Name       string   `json:"name"`
	Metrics    []string `json:"metrics"`
	MinPresent int      `json:"min_present"`
}

// RoleThresholds classifies pitchers as starters or relievers
type RoleThresholds struct {
	// StarterGSRatio: GS/G at or above this ratio classifies a starter
	StarterGSRatio float64 `json:"starter_gs_ratio"`
	// MinStarterCompIP: innings floor for a starter to qualify as a comp
	// candidate. A small-sample starter can still search for comps.
	MinStarterCompIP float64 `json:"min_starter_comp_ip"`
}

// MetricConfig bundles everything a similarity engine needs to know about
// one population. Built once at startup and passed in explicitly; engines
// never reach for shared mutable state.
type MetricConfig struct {
	PlayerType  PlayerType                  `json:"player_type"`
	Definitions map[string]MetricDefinition `json:"definitions"`

	// PrimaryMetrics is the subset of metric names used for distance
	PrimaryMetrics []string `json:"primary_metrics"`

	// SanityMetric bounds candidate plausibility independent of distance
	SanityMetric    string  `json:"sanity_metric"`
	SanityTolerance float64 `json:"sanity_tolerance"`

	// LowerIsBetter flips percentile direction for these metrics
	LowerIsBetter map[string]bool `json:"lower_is_better"`

	// ResultStats are season aggregates passed through unscored
	ResultStats []string `json:"result_stats"`

	// CoverageGroups each require MinPresent non-missing metrics per candidate
	CoverageGroups []CoverageGroup `json:"coverage_groups"`

	// Role holds pitcher role thresholds; zero value for batters
	Role RoleThresholds `json:"role"`
}

// Weights returns the metric name to weight lookup used for distance
func (c *MetricConfig) Weights() map[string]float64 {
	weights := make(map[string]float64, len(c.Definitions))
	for name, def := range c.Definitions {
		weights[name] = def.Weight
	}
	return weights
}

// Weight returns the weight for a metric, defaulting to 1.0 for unknown names
func (c *MetricConfig) Weight(metric string) float64 {
	if def, ok := c.Definitions[metric]; ok {
		return def.Weight
	}
	return 1.0
}

// HigherIsBetter reports the percentile direction for a metric
func (c *MetricConfig) HigherIsBetter(metric string) bool {
	return !c.LowerIsBetter[metric]
}

// Validate checks structural invariants: a known player type, strictly
// positive weights, and primary metrics that are actually defined.
func (c *MetricConfig) Validate() error {
	if !c.PlayerType.Valid() {
		return fmt.Errorf("unknown player type %q", c.PlayerType)
	}
	for name, def := range c.Definitions {
		if def.Weight <= 0 {
			return fmt.Errorf("metric %s has non-positive weight %f", name, def.Weight)
		}
	}
	if len(c.PrimaryMetrics) == 0 {
		return fmt.Errorf("no primary metrics configured for %s", c.PlayerType)
	}
	for _, m := range c.PrimaryMetrics {
		if _, ok := c.Definitions[m]; !ok {
			return fmt.Errorf("primary metric %s has no definition", m)
		}
	}
	if c.SanityMetric == "" {
		return fmt.Errorf("no sanity check metric configured for %s", c.PlayerType)
	}
	if c.SanityTolerance <= 0 {
		return fmt.Errorf("sanity tolerance must be positive, got %f", c.SanityTolerance)
	}
	return nil
}
