// Package metrics defines the per-population metric tables consumed by the
// similarity engines: weights, percentile direction, sanity-check bounds,
// coverage groups and role thresholds.
package metrics

import "github.com/wonny/comps/internal/contracts"

// Batter sanity check: two hitters with similar component metrics but very
// different actual run production are not comps.
const (
	BatterSanityMetric    = "xwoba"
	BatterSanityTolerance = 0.030
)

// BatterConfig returns the metric configuration for the batter population
func BatterConfig() contracts.MetricConfig {
	return contracts.MetricConfig{
		PlayerType: contracts.Batter,
		Definitions: map[string]contracts.MetricDefinition{
			"exit_velocity": {
				Name: "exit_velocity", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "Exit Velocity", Format: "%.1f", Suffix: " mph",
			},
			"max_exit_velocity": {
				Name: "max_exit_velocity", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "Max Exit Velocity", Format: "%.1f", Suffix: " mph",
			},
			"launch_angle": {
				Name: "launch_angle", Weight: 0.7, HigherIsBetter: true,
				DisplayName: "Launch Angle", Format: "%.1f", Suffix: "°",
			},
			"barrel_pct": {
				Name: "barrel_pct", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "Barrel%", Format: "%.1f", Suffix: "%",
			},
			"hard_hit_pct": {
				Name: "hard_hit_pct", Weight: 0.9, HigherIsBetter: true,
				DisplayName: "Hard Hit%", Format: "%.1f", Suffix: "%",
			},
			"pulled_fb_pct": {
				Name: "pulled_fb_pct", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "Pulled FB%", Format: "%.1f", Suffix: "%",
			},
			"chase_rate": {
				Name: "chase_rate", Weight: 0.9, HigherIsBetter: false,
				DisplayName: "Chase Rate", Format: "%.1f", Suffix: "%",
			},
			"whiff_pct": {
				Name: "whiff_pct", Weight: 0.9, HigherIsBetter: false,
				DisplayName: "Whiff%", Format: "%.1f", Suffix: "%",
			},
			"swstr_pct": {
				Name: "swstr_pct", Weight: 0.8, HigherIsBetter: false,
				DisplayName: "SwStr%", Format: "%.1f", Suffix: "%",
			},
			"k_pct": {
				Name: "k_pct", Weight: 0.8, HigherIsBetter: false,
				DisplayName: "K%", Format: "%.1f", Suffix: "%",
			},
			"bb_pct": {
				Name: "bb_pct", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "BB%", Format: "%.1f", Suffix: "%",
			},
			"zone_contact_pct": {
				Name: "zone_contact_pct", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "Z-Contact%", Format: "%.1f", Suffix: "%",
			},
			"gb_pct": {
				Name: "gb_pct", Weight: 0.6, HigherIsBetter: true,
				DisplayName: "GB%", Format: "%.1f", Suffix: "%",
			},
			"xwoba": {
				Name: "xwoba", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "xwOBA", Format: "%.3f",
			},
		},
		PrimaryMetrics: []string{
			"exit_velocity",
			"max_exit_velocity",
			"launch_angle",
			"barrel_pct",
			"hard_hit_pct",
			"pulled_fb_pct",
			"chase_rate",
			"zone_contact_pct",
			"whiff_pct",
			"swstr_pct",
			"k_pct",
			"bb_pct",
			"gb_pct",
		},
		SanityMetric:    BatterSanityMetric,
		SanityTolerance: BatterSanityTolerance,
		LowerIsBetter: map[string]bool{
			"chase_rate": true,
			"whiff_pct":  true,
			"swstr_pct":  true,
			"k_pct":      true,
		},
		ResultStats: []string{"pa", "avg", "obp", "slg", "ops", "wrc_plus"},
		CoverageGroups: []contracts.CoverageGroup{
			{
				Name:       "batted_ball",
				Metrics:    []string{"exit_velocity", "barrel_pct", "hard_hit_pct", "launch_angle"},
				MinPresent: 2,
			},
			{
				Name:       "plate_discipline",
				Metrics:    []string{"chase_rate", "whiff_pct", "k_pct", "bb_pct"},
				MinPresent: 2,
			},
		},
	}
}
