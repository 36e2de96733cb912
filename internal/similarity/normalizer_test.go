package similarity

import (
	"math"
	"testing"
)

// mapRow is a minimal MetricRow for tests
type mapRow map[string]float64

func (r mapRow) Metric(name string) (float64, bool) {
	v, ok := r[name]
	return v, ok
}

func rowsOf(maps ...mapRow) []MetricRow {
	rows := make([]MetricRow, len(maps))
	for i, m := range maps {
		rows[i] = m
	}
	return rows
}

func TestNormalizer_FitTransform(t *testing.T) {
	rows := rowsOf(
		mapRow{"ev": 88.0},
		mapRow{"ev": 90.0},
		mapRow{"ev": 92.0},
	)

	n := NewNormalizer()
	z := n.FitTransform(rows, []string{"ev"})

	mean, std, ok := n.Stats("ev")
	if !ok {
		t.Fatal("ev should be fitted")
	}
	if mean != 90.0 {
		t.Errorf("mean = %f, want 90.0", mean)
	}
	if math.Abs(std-2.0) > 1e-9 {
		t.Errorf("std = %f, want 2.0", std)
	}

	if z[0]["ev"] != -1.0 || z[1]["ev"] != 0.0 || z[2]["ev"] != 1.0 {
		t.Errorf("z-scores = %v, want [-1, 0, 1]", []float64{z[0]["ev"], z[1]["ev"], z[2]["ev"]})
	}
}

func TestNormalizer_RoundTrip(t *testing.T) {
	// The z-scored population must have mean ~0 and std ~1
	rows := rowsOf(
		mapRow{"m": 3.1}, mapRow{"m": 7.4}, mapRow{"m": 2.2},
		mapRow{"m": 9.9}, mapRow{"m": 5.0}, mapRow{"m": 6.3},
	)

	n := NewNormalizer()
	z := n.FitTransform(rows, []string{"m"})

	values := make([]float64, len(z))
	for i := range z {
		values[i] = z[i]["m"]
	}

	mean := meanOf(values)
	std := stdOf(values, mean)

	if math.Abs(mean) > 1e-9 {
		t.Errorf("z mean = %g, want ~0", mean)
	}
	if math.Abs(std-1.0) > 1e-9 {
		t.Errorf("z std = %g, want ~1", std)
	}
}

func TestNormalizer_ZeroStdFloored(t *testing.T) {
	rows := rowsOf(mapRow{"m": 5.0}, mapRow{"m": 5.0}, mapRow{"m": 5.0})

	n := NewNormalizer()
	z := n.FitTransform(rows, []string{"m"})

	_, std, _ := n.Stats("m")
	if std != 1.0 {
		t.Errorf("zero std should be floored to 1.0, got %f", std)
	}

	// All z-scores collapse to 0, never NaN or Inf
	for i := range z {
		if z[i]["m"] != 0.0 {
			t.Errorf("z[%d] = %f, want 0", i, z[i]["m"])
		}
	}
}

func TestNormalizer_MissingValuesSkipped(t *testing.T) {
	rows := rowsOf(
		mapRow{"m": 10.0},
		mapRow{}, // missing m
		mapRow{"m": 20.0},
	)

	n := NewNormalizer()
	z := n.FitTransform(rows, []string{"m"})

	// Mean computed over non-missing only
	mean, _, _ := n.Stats("m")
	if mean != 15.0 {
		t.Errorf("mean = %f, want 15.0 (missing values excluded)", mean)
	}

	// Missing stays missing in the transformed output
	if _, ok := z[1]["m"]; ok {
		t.Error("row with missing value must not get a z-score")
	}
	if _, ok := z[0]["m"]; !ok {
		t.Error("row with a value must get a z-score")
	}
}

func TestNormalizer_UnfittableMetricAbsent(t *testing.T) {
	rows := rowsOf(mapRow{"a": 1.0}, mapRow{"a": 2.0})

	n := NewNormalizer()
	n.Fit(rows, []string{"a", "never_present"})

	if _, _, ok := n.Stats("never_present"); ok {
		t.Error("metric with no observations must not be fitted")
	}
	if len(n.FittedMetrics()) != 1 {
		t.Errorf("FittedMetrics() = %v, want [a]", n.FittedMetrics())
	}
}

func TestNormalizer_ScoreExternalRow(t *testing.T) {
	// Fitting and transforming are decoupled so fitted statistics can
	// score rows outside the fitting population
	rows := rowsOf(mapRow{"m": 88.0}, mapRow{"m": 90.0}, mapRow{"m": 92.0})

	n := NewNormalizer()
	n.Fit(rows, []string{"m"})

	z, ok := n.ZScore("m", 94.0)
	if !ok {
		t.Fatal("ZScore should succeed for a fitted metric")
	}
	if math.Abs(z-2.0) > 1e-9 {
		t.Errorf("ZScore(m, 94) = %f, want 2.0", z)
	}

	if _, ok := n.ZScore("unfitted", 1.0); ok {
		t.Error("ZScore must report unfitted metrics")
	}
}
