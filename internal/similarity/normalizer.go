// Package similarity implements the player-season and per-pitch-type
// similarity engines: z-score normalization, weighted Euclidean distance,
// candidate plausibility filtering and within-season percentile ranks.
package similarity

import "math"

// MetricRow is the minimal row view the core operates on. The bool result
// distinguishes a missing value from a zero; missing values are omitted
// from every computation, never imputed.
type MetricRow interface {
	Metric(name string) (float64, bool)
}

// Normalizer fits per-metric mean and standard deviation over a population
// and produces z-scores. Fitting and transforming are separate steps so the
// fitted statistics can score rows outside the fitting population.
type Normalizer struct {
	means map[string]float64
	stds  map[string]float64
}

// NewNormalizer creates an unfitted normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{
		means: make(map[string]float64),
		stds:  make(map[string]float64),
	}
}

// Fit computes mean and standard deviation per metric over all non-missing
// values. A metric with zero non-missing values is skipped and absent from
// the fitted set. A zero standard deviation is floored to 1.0 so the later
// division is structurally safe.
func (n *Normalizer) Fit(rows []MetricRow, metricNames []string) *Normalizer {
	for _, name := range metricNames {
		values := collect(rows, name)
		if len(values) == 0 {
			continue
		}

		mean := meanOf(values)
		std := stdOf(values, mean)
		if std == 0 {
			std = 1.0
		}

		n.means[name] = mean
		n.stds[name] = std
	}
	return n
}

// Transform returns one z-score map per row, aligned by index. Only fitted
// metrics present on a row produce a z-score; a row lacking the raw value
// gets no entry for that metric.
func (n *Normalizer) Transform(rows []MetricRow, metricNames []string) []map[string]float64 {
	names := metricNames
	if names == nil {
		names = n.FittedMetrics()
	}

	zRows := make([]map[string]float64, len(rows))
	for i, row := range rows {
		z := make(map[string]float64, len(names))
		for _, name := range names {
			mean, ok := n.means[name]
			if !ok {
				continue
			}
			value, present := row.Metric(name)
			if !present {
				continue
			}
			z[name] = (value - mean) / n.stds[name]
		}
		zRows[i] = z
	}
	return zRows
}

// FitTransform fits and transforms in one step
func (n *Normalizer) FitTransform(rows []MetricRow, metricNames []string) []map[string]float64 {
	n.Fit(rows, metricNames)
	return n.Transform(rows, metricNames)
}

// ZScore scores a single value against the fitted statistics. The bool
// result is false when the metric was never fitted.
func (n *Normalizer) ZScore(metric string, value float64) (float64, bool) {
	mean, ok := n.means[metric]
	if !ok {
		return 0, false
	}
	return (value - mean) / n.stds[metric], true
}

// Stats returns the fitted mean and standard deviation for a metric
func (n *Normalizer) Stats(metric string) (mean, std float64, ok bool) {
	mean, ok = n.means[metric]
	if !ok {
		return 0, 0, false
	}
	return mean, n.stds[metric], true
}

// FittedMetrics returns the names of all fitted metrics
func (n *Normalizer) FittedMetrics() []string {
	names := make([]string, 0, len(n.means))
	for name := range n.means {
		names = append(names, name)
	}
	return names
}

func collect(rows []MetricRow, name string) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Metric(name); ok {
			values = append(values, v)
		}
	}
	return values
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdOf is the sample standard deviation (n-1 denominator). A single
// observation has no spread and yields 0.
func stdOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
