package metrics

import (
	"testing"

	"github.com/wonny/comps/internal/contracts"
)

func TestConfigsValidate(t *testing.T) {
	configs := map[string]contracts.MetricConfig{
		"batter":  BatterConfig(),
		"pitcher": PitcherConfig(),
		"pitch":   PitchConfig(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s config invalid: %v", name, err)
			}
		})
	}
}

func TestCoverageGroupsUsePrimaryMetrics(t *testing.T) {
	for _, cfg := range []contracts.MetricConfig{BatterConfig(), PitcherConfig()} {
		primaries := make(map[string]bool, len(cfg.PrimaryMetrics))
		for _, m := range cfg.PrimaryMetrics {
			primaries[m] = true
		}

		if len(cfg.CoverageGroups) != 2 {
			t.Fatalf("%s: want 2 coverage groups, got %d", cfg.PlayerType, len(cfg.CoverageGroups))
		}

		for _, group := range cfg.CoverageGroups {
			for _, m := range group.Metrics {
				if !primaries[m] {
					t.Errorf("%s: coverage group %s references non-primary metric %s",
						cfg.PlayerType, group.Name, m)
				}
			}
		}
	}
}

func TestLowerIsBetterMetricsAreDefined(t *testing.T) {
	for _, cfg := range []contracts.MetricConfig{BatterConfig(), PitcherConfig()} {
		for m := range cfg.LowerIsBetter {
			if _, ok := cfg.Definitions[m]; !ok {
				t.Errorf("%s: lower-is-better metric %s has no definition", cfg.PlayerType, m)
			}
		}
	}
}

func TestPitchTypeName(t *testing.T) {
	if got := PitchTypeName("FF"); got != "4-Seam Fastball" {
		t.Errorf("PitchTypeName(FF) = %q", got)
	}
	// Unknown codes fall back to the code
	if got := PitchTypeName("XX"); got != "XX" {
		t.Errorf("PitchTypeName(XX) = %q", got)
	}
}

func TestPitcherRoleThresholds(t *testing.T) {
	cfg := PitcherConfig()
	if cfg.Role.StarterGSRatio != 0.5 {
		t.Errorf("StarterGSRatio = %f, want 0.5", cfg.Role.StarterGSRatio)
	}
	if cfg.Role.MinStarterCompIP != 80.0 {
		t.Errorf("MinStarterCompIP = %f, want 80.0", cfg.Role.MinStarterCompIP)
	}

	// Batters carry no role thresholds
	if BatterConfig().Role.StarterGSRatio != 0 {
		t.Error("batter config should have zero role thresholds")
	}
}
