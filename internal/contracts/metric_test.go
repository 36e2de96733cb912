package contracts

import (
	"encoding/json"
	"testing"
)

func validConfig() MetricConfig {
	return MetricConfig{
		PlayerType: Batter,
		Definitions: map[string]MetricDefinition{
			"exit_velocity": {Name: "exit_velocity", Weight: 1.0, HigherIsBetter: true},
			"k_pct":         {Name: "k_pct", Weight: 0.8},
		},
		PrimaryMetrics:  []string{"exit_velocity", "k_pct"},
		SanityMetric:    "xwoba",
		SanityTolerance: 0.030,
		LowerIsBetter:   map[string]bool{"k_pct": true},
	}
}

func TestMetricConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MetricConfig)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *MetricConfig) {},
		},
		{
			name: "unknown player type",
			mutate: func(c *MetricConfig) {
				c.PlayerType = "catcher"
			},
			wantErr: true,
		},
		{
			name: "zero weight",
			mutate: func(c *MetricConfig) {
				c.Definitions["bad"] = MetricDefinition{Name: "bad", Weight: 0}
			},
			wantErr: true,
		},
		{
			name: "negative weight",
			mutate: func(c *MetricConfig) {
				c.Definitions["bad"] = MetricDefinition{Name: "bad", Weight: -1.5}
			},
			wantErr: true,
		},
		{
			name: "no primary metrics",
			mutate: func(c *MetricConfig) {
				c.PrimaryMetrics = nil
			},
			wantErr: true,
		},
		{
			name: "undefined primary metric",
			mutate: func(c *MetricConfig) {
				c.PrimaryMetrics = append(c.PrimaryMetrics, "ghost_metric")
			},
			wantErr: true,
		},
		{
			name: "missing sanity metric",
			mutate: func(c *MetricConfig) {
				c.SanityMetric = ""
			},
			wantErr: true,
		},
		{
			name: "non-positive tolerance",
			mutate: func(c *MetricConfig) {
				c.SanityTolerance = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMetricConfig_Weight(t *testing.T) {
	cfg := validConfig()

	if w := cfg.Weight("exit_velocity"); w != 1.0 {
		t.Errorf("Weight(exit_velocity) = %f, want 1.0", w)
	}
	if w := cfg.Weight("k_pct"); w != 0.8 {
		t.Errorf("Weight(k_pct) = %f, want 0.8", w)
	}
	// Unknown names default to 1.0
	if w := cfg.Weight("unknown"); w != 1.0 {
		t.Errorf("Weight(unknown) = %f, want 1.0", w)
	}
}

func TestMetricConfig_HigherIsBetter(t *testing.T) {
	cfg := validConfig()

	if !cfg.HigherIsBetter("exit_velocity") {
		t.Error("exit_velocity should be higher-is-better")
	}
	if cfg.HigherIsBetter("k_pct") {
		t.Error("k_pct should be lower-is-better")
	}
}

func TestMetricConfig_JSON(t *testing.T) {
	original := validConfig()

	data, err := json.Marshal(&original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded MetricConfig
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded.PlayerType != original.PlayerType {
		t.Errorf("PlayerType mismatch: got %s, want %s", decoded.PlayerType, original.PlayerType)
	}
	if decoded.SanityTolerance != original.SanityTolerance {
		t.Errorf("SanityTolerance mismatch: got %f, want %f", decoded.SanityTolerance, original.SanityTolerance)
	}
	if len(decoded.Definitions) != len(original.Definitions) {
		t.Errorf("Definitions length mismatch: got %d, want %d", len(decoded.Definitions), len(original.Definitions))
	}
}
