package metrics

import "github.com/wonny/comps/internal/contracts"

const (
	PitcherSanityMetric    = "xera"
	PitcherSanityTolerance = 0.50

	// StarterGSRatio: GS/G at or above this classifies a starter
	StarterGSRatio = 0.5
	// MinStarterCompIP: a starter needs this many innings to be offered
	// as a comp candidate. Keeps small-sample call-ups out of results
	// while still letting them search.
	MinStarterCompIP = 80.0
)

// PitcherConfig returns the metric configuration for the pitcher population
func PitcherConfig() contracts.MetricConfig {
	return contracts.MetricConfig{
		PlayerType: contracts.Pitcher,
		Definitions: map[string]contracts.MetricDefinition{
			"ip": {
				Name: "ip", Weight: 1.2, HigherIsBetter: true,
				DisplayName: "IP", Format: "%.1f",
			},
			"k_pct": {
				Name: "k_pct", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "K%", Format: "%.1f", Suffix: "%",
			},
			"bb_pct": {
				Name: "bb_pct", Weight: 1.0, HigherIsBetter: false,
				DisplayName: "BB%", Format: "%.1f", Suffix: "%",
			},
			"k_bb_pct": {
				Name: "k_bb_pct", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "K-BB%", Format: "%.1f", Suffix: "%",
			},
			"gb_pct": {
				Name: "gb_pct", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "GB%", Format: "%.1f", Suffix: "%",
			},
			"xera": {
				Name: "xera", Weight: 0.5, HigherIsBetter: false,
				DisplayName: "xERA", Format: "%.2f",
			},
			"xfip": {
				Name: "xfip", Weight: 0.9, HigherIsBetter: false,
				DisplayName: "xFIP", Format: "%.2f",
			},
			"barrel_pct_against": {
				Name: "barrel_pct_against", Weight: 1.0, HigherIsBetter: false,
				DisplayName: "Barrel%", Format: "%.1f", Suffix: "%",
			},
			"hard_hit_pct_against": {
				Name: "hard_hit_pct_against", Weight: 0.9, HigherIsBetter: false,
				DisplayName: "Hard Hit%", Format: "%.1f", Suffix: "%",
			},
			"stuff_plus": {
				Name: "stuff_plus", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "Stuff+", Format: "%.0f",
			},
			"lob_pct": {
				Name: "lob_pct", Weight: 0.6, HigherIsBetter: true,
				DisplayName: "LOB%", Format: "%.1f", Suffix: "%",
			},
			"babip": {
				Name: "babip", Weight: 0.5, HigherIsBetter: false,
				DisplayName: "BABIP", Format: "%.3f",
			},
			"chase_pct": {
				Name: "chase_pct", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "Chase%", Format: "%.1f", Suffix: "%",
			},
			"whiff_pct": {
				Name: "whiff_pct", Weight: 0.9, HigherIsBetter: true,
				DisplayName: "Whiff%", Format: "%.1f", Suffix: "%",
			},
			"zone_pct": {
				Name: "zone_pct", Weight: 0.7, HigherIsBetter: true,
				DisplayName: "Zone%", Format: "%.1f", Suffix: "%",
			},
			"zone_contact_pct": {
				Name: "zone_contact_pct", Weight: 0.8, HigherIsBetter: false,
				DisplayName: "Z-Con%", Format: "%.1f", Suffix: "%",
			},
			"arm_angle": {
				// Directionally neutral; flagged lower-is-better only so
				// percentile display is not misread as a skill grade
				Name: "arm_angle", Weight: 0.5, HigherIsBetter: false,
				DisplayName: "Arm Angle", Format: "%.1f", Suffix: "°",
			},
		},
		PrimaryMetrics: []string{
			"k_pct",
			"bb_pct",
			"k_bb_pct",
			"barrel_pct_against",
			"hard_hit_pct_against",
			"whiff_pct",
			"xfip",
			"chase_pct",
			"stuff_plus",
			"gb_pct",
			"zone_contact_pct",
			"zone_pct",
			"lob_pct",
			"babip",
			"xera",
			"ip",
			"arm_angle",
		},
		SanityMetric:    PitcherSanityMetric,
		SanityTolerance: PitcherSanityTolerance,
		LowerIsBetter: map[string]bool{
			"bb_pct":               true,
			"xera":                 true,
			"xfip":                 true,
			"barrel_pct_against":   true,
			"hard_hit_pct_against": true,
			"babip":                true,
			"zone_contact_pct":     true,
		},
		ResultStats: []string{"g", "gs", "w", "l", "so", "era", "whip", "war"},
		CoverageGroups: []contracts.CoverageGroup{
			{
				Name:       "stuff",
				Metrics:    []string{"k_pct", "whiff_pct", "chase_pct", "stuff_plus"},
				MinPresent: 2,
			},
			{
				Name:       "control",
				Metrics:    []string{"bb_pct", "xfip", "xera", "zone_pct"},
				MinPresent: 2,
			},
		},
		Role: contracts.RoleThresholds{
			StarterGSRatio:   StarterGSRatio,
			MinStarterCompIP: MinStarterCompIP,
		},
	}
}
