package savant

// LeaderboardRow is one player's line from a Statcast leaderboard CSV.
// Stats maps the standardized column name to its value; columns the
// leaderboard leaves blank are absent.
type LeaderboardRow struct {
	PlayerID  int                `json:"player_id"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Stats     map[string]float64 `json:"stats"`
}

// Stat returns a stat value and whether the leaderboard reported it
func (r *LeaderboardRow) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}

// ArsenalRow is one (pitcher, pitch type) line from the pitch arsenal
// leaderboard.
type ArsenalRow struct {
	PlayerID  int                `json:"player_id"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	PitchType string             `json:"pitch_type"`
	Pitches   int                `json:"pitches"`
	Stats     map[string]float64 `json:"stats"`
}

// Stat returns a stat value and whether the leaderboard reported it
func (r *ArsenalRow) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}

// Pitch is one pitch-level event from the Statcast search feed. Pointer
// fields are nullable in the source.
type Pitch struct {
	GamePk    int    `json:"game_pk"`
	Inning    int    `json:"inning"`
	PitchType string `json:"pitch_type"`

	// Description is the pitch outcome ("swinging_strike", "foul", ...)
	Description string `json:"description"`

	// Type is the coarse outcome code; "X" marks a ball in play
	Type string `json:"type"`

	// Zone is the Statcast attack zone (1-9 in zone, 11-14 out)
	Zone *int `json:"zone,omitempty"`

	// BBType is the batted-ball classification for balls in play
	BBType string `json:"bb_type,omitempty"`

	// Stand is the batter's handedness for this plate appearance
	Stand string `json:"stand,omitempty"`

	// Hit coordinates for balls in play
	HCX *float64 `json:"hc_x,omitempty"`
	HCY *float64 `json:"hc_y,omitempty"`

	ReleaseSpeed *float64 `json:"release_speed,omitempty"`
	ReleaseSpin  *float64 `json:"release_spin_rate,omitempty"`
	PfxX         *float64 `json:"pfx_x,omitempty"`
	PfxZ         *float64 `json:"pfx_z,omitempty"`
	ArmAngle     *float64 `json:"arm_angle,omitempty"`

	EstimatedWOBA *float64 `json:"estimated_woba,omitempty"`
	EstimatedSLG  *float64 `json:"estimated_slg,omitempty"`
}
