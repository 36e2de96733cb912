package metrics

import "github.com/wonny/comps/internal/contracts"

const (
	// MinPitches is the floor for a pitch type to exist in the dataset
	MinPitches = 50
	// MinCompPitches is the stricter floor for a pitch type to be offered
	// as a comp candidate
	MinCompPitches = 100

	// PitchQualityMetric must be present on a candidate pitch; it is
	// load-bearing for ranking quality
	PitchQualityMetric = "stuff_plus"
)

// PitchTypeNames maps Statcast pitch type codes to display names
var PitchTypeNames = map[string]string{
	"FF": "4-Seam Fastball",
	"SI": "Sinker",
	"FC": "Cutter",
	"SL": "Slider",
	"ST": "Sweeper",
	"CU": "Curveball",
	"KC": "Knuckle Curve",
	"CH": "Changeup",
	"FS": "Splitter",
	"KN": "Knuckleball",
	"SV": "Slurve",
}

// PitchTypeName returns the display name for a pitch type code, falling
// back to the code itself
func PitchTypeName(code string) string {
	if name, ok := PitchTypeNames[code]; ok {
		return name
	}
	return code
}

// PitchConfig returns the metric configuration for the per-pitch-type
// population. Break and velocity numbers are only comparable within a
// pitch type, so normalization is grouped; xSLG/xwOBA are excluded as too
// noisy at per-pitch grain.
func PitchConfig() contracts.MetricConfig {
	return contracts.MetricConfig{
		PlayerType: contracts.Pitcher,
		Definitions: map[string]contracts.MetricDefinition{
			"avg_velo": {
				Name: "avg_velo", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "Velocity", Format: "%.1f", Suffix: " mph",
			},
			"avg_ivb": {
				Name: "avg_ivb", Weight: 0.9, HigherIsBetter: true,
				DisplayName: "IVB", Format: "%.1f", Suffix: "\"",
			},
			"avg_ihb": {
				Name: "avg_ihb", Weight: 0.9, HigherIsBetter: true,
				DisplayName: "IHB", Format: "%.1f", Suffix: "\"",
			},
			"avg_spin": {
				Name: "avg_spin", Weight: 0.7, HigherIsBetter: true,
				DisplayName: "Spin", Format: "%.0f", Suffix: " rpm",
			},
			"stuff_plus": {
				Name: "stuff_plus", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "Stuff+", Format: "%.0f",
			},
			"whiff_pct": {
				Name: "whiff_pct", Weight: 1.0, HigherIsBetter: true,
				DisplayName: "Whiff%", Format: "%.1f", Suffix: "%",
			},
			"chase_pct": {
				Name: "chase_pct", Weight: 0.8, HigherIsBetter: true,
				DisplayName: "Chase%", Format: "%.1f", Suffix: "%",
			},
			"zone_pct": {
				Name: "zone_pct", Weight: 0.6, HigherIsBetter: true,
				DisplayName: "Zone%", Format: "%.1f", Suffix: "%",
			},
		},
		PrimaryMetrics: []string{
			"avg_velo",
			"avg_ivb",
			"avg_ihb",
			"avg_spin",
			"stuff_plus",
			"whiff_pct",
			"chase_pct",
			"zone_pct",
		},
		// The pitch engine ranks within a pitch type and does not apply
		// an outcome-tolerance filter; the quality-metric gate plays that
		// plausibility role instead.
		SanityMetric:    PitchQualityMetric,
		SanityTolerance: 1,
		LowerIsBetter:   map[string]bool{},
		Role: contracts.RoleThresholds{
			StarterGSRatio: StarterGSRatio,
		},
	}
}
