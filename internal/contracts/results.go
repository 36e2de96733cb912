package contracts

// PlayerComp is one ranked season-level match. Similarity is rounded to
// one decimal and distance to four.
type PlayerComp struct {
	PlayerID   int     `json:"mlbam_id"`
	Season     int     `json:"season"`
	Name       string  `json:"name,omitempty"`
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`

	// Metrics holds the raw values of the scored metrics plus the sanity
	// check metric
	Metrics map[string]float64 `json:"metrics"`

	// ResultStats are the configured pass-through season aggregates
	ResultStats map[string]float64 `json:"result_stats,omitempty"`

	// Percentiles is keyed by "<metric>_pct", values clamped to [1, 99]
	Percentiles map[string]float64 `json:"percentiles"`
}

// SeasonProfile is a single player-season lookup: the same enrichment as a
// ranked comp without the similarity scoring.
type SeasonProfile struct {
	PlayerID    int                `json:"mlbam_id"`
	Season      int                `json:"season"`
	Name        string             `json:"name,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
	ResultStats map[string]float64 `json:"result_stats,omitempty"`
	Percentiles map[string]float64 `json:"percentiles"`
}

// PitchComp is one ranked per-pitch-type match
type PitchComp struct {
	PlayerID   int                `json:"mlbam_id"`
	Season     int                `json:"season"`
	Name       string             `json:"name,omitempty"`
	PitchType  string             `json:"pitch_type"`
	PitchName  string             `json:"pitch_name,omitempty"`
	NumPitches int                `json:"n_pitches"`
	Similarity float64            `json:"similarity"`
	Distance   float64            `json:"distance"`
	Metrics    map[string]float64 `json:"metrics"`
	ArmAngle   *float64           `json:"arm_angle,omitempty"`
}

// PitchProfile describes one pitch type a pitcher throws
type PitchProfile struct {
	PitchType  string             `json:"pitch_type"`
	PitchName  string             `json:"pitch_name,omitempty"`
	NumPitches int                `json:"n_pitches"`
	Metrics    map[string]float64 `json:"metrics"`
	ArmAngle   *float64           `json:"arm_angle,omitempty"`
}

// PitcherInfo is a pitcher-season summary for the pitch engine
type PitcherInfo struct {
	PlayerID int      `json:"mlbam_id"`
	Season   int      `json:"season"`
	Name     string   `json:"name,omitempty"`
	ArmAngle *float64 `json:"arm_angle,omitempty"`
}

// PlayerRef identifies a player-season for listings and search
type PlayerRef struct {
	PlayerID int    `json:"mlbam_id"`
	Season   int    `json:"season"`
	Name     string `json:"name,omitempty"`
}
