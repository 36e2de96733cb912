package contracts

import "strings"

// PlayerSeasonRow is one row of a season-level population table. Metric
// values are sparse: an absent key means the value is missing, and missing
// values are never imputed.
type PlayerSeasonRow struct {
	PlayerID  int    `json:"mlbam_id"`
	Season    int    `json:"season"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Metrics maps metric name to value; absent = missing
	Metrics map[string]float64 `json:"metrics"`

	// ResultStats are season aggregates passed through unscored
	ResultStats map[string]float64 `json:"result_stats,omitempty"`

	// Games and GamesStarted classify pitcher role; nil = unknown
	Games        *int `json:"games,omitempty"`
	GamesStarted *int `json:"games_started,omitempty"`
}

// Metric returns a metric value and whether it is present
func (r *PlayerSeasonRow) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// Name returns the player's full name, or empty when unknown
func (r *PlayerSeasonRow) Name() string {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	return name
}

// IsStarter classifies the row as starter (GS/G >= ratio). The second
// return is false when the role cannot be determined (zero games or
// unknown games started).
func (r *PlayerSeasonRow) IsStarter(gsRatio float64) (bool, bool) {
	if r.Games == nil || *r.Games == 0 || r.GamesStarted == nil {
		return false, false
	}
	ratio := float64(*r.GamesStarted) / float64(*r.Games)
	return ratio >= gsRatio, true
}

// PitchTypeRow is one row of the per-pitch-type population table, uniquely
// keyed by (player, season, pitch type).
type PitchTypeRow struct {
	PlayerID  int    `json:"mlbam_id"`
	Season    int    `json:"season"`
	PitchType string `json:"pitch_type"`
	PitchName string `json:"pitch_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// NumPitches is the sample size for this pitch type
	NumPitches int `json:"n_pitches"`

	// Metrics maps pitch-level metric name to value; absent = missing
	Metrics map[string]float64 `json:"metrics"`

	// IsStarter is the role flag; nil = unknown
	IsStarter *bool `json:"is_starter,omitempty"`

	// ArmAngle is display-only enrichment, not a scored dimension
	ArmAngle *float64 `json:"arm_angle,omitempty"`
}

// Metric returns a metric value and whether it is present
func (r *PitchTypeRow) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// Name returns the pitcher's full name, or empty when unknown
func (r *PitchTypeRow) Name() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
