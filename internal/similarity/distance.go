package similarity

import "math"

// Incomparable is the distance of two rows sharing no usable dimension.
// Such candidates are silently dropped from ranked output.
func Incomparable() float64 {
	return math.Inf(1)
}

// IsIncomparable reports whether a distance is the incomparable sentinel
func IsIncomparable(d float64) bool {
	return math.IsInf(d, 1)
}

// DistanceCalculator computes weighted Euclidean distance between z-scored
// rows over a selectable dimension set.
type DistanceCalculator struct {
	weights map[string]float64
}

// NewDistanceCalculator creates a calculator. Unknown metric names default
// to weight 1.0.
func NewDistanceCalculator(weights map[string]float64) *DistanceCalculator {
	if weights == nil {
		weights = map[string]float64{}
	}
	return &DistanceCalculator{weights: weights}
}

// Weight returns the weight for a dimension
func (d *DistanceCalculator) Weight(name string) float64 {
	if w, ok := d.weights[name]; ok {
		return w
	}
	return 1.0
}

// Distance computes the weighted Euclidean distance between two z-score
// maps. A dimension missing on either side is skipped entirely. When no
// dimension overlaps the result is the incomparable sentinel. The weight
// total is tracked only to detect that case: the distance is the square
// root of the raw weighted sum, so rows are not penalized or favored by
// how many dimensions they happen to share.
func (d *DistanceCalculator) Distance(target, candidate map[string]float64, dimensions []string) float64 {
	totalDistance := 0.0
	totalWeight := 0.0

	for _, dim := range dimensions {
		targetVal, ok := target[dim]
		if !ok {
			continue
		}
		candidateVal, ok := candidate[dim]
		if !ok {
			continue
		}

		diff := targetVal - candidateVal
		weight := d.Weight(dim)
		totalDistance += weight * diff * diff
		totalWeight += weight
	}

	if totalWeight == 0 {
		return Incomparable()
	}

	return math.Sqrt(totalDistance)
}

// DistanceAll computes the distance from one target to every candidate,
// aligned by index. Expressed as a batch so callers rank one allocation's
// worth of results instead of issuing per-pair calls.
func (d *DistanceCalculator) DistanceAll(target map[string]float64, candidates []map[string]float64, dimensions []string) []float64 {
	distances := make([]float64, len(candidates))
	for i, candidate := range candidates {
		distances[i] = d.Distance(target, candidate, dimensions)
	}
	return distances
}

// DistanceToSimilarity converts a distance to a 0-100 similarity score.
// maxDistance is a caller-supplied scale estimate; zero yields 100.
func (d *DistanceCalculator) DistanceToSimilarity(distance, maxDistance float64) float64 {
	if maxDistance == 0 {
		return 100.0
	}
	similarity := (1 - distance/maxDistance) * 100
	return math.Max(0.0, math.Min(100.0, similarity))
}
