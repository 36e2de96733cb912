package dataset

import (
	"math"

	"github.com/wonny/comps/internal/external/savant"
)

// Spray-angle geometry for Statcast hit coordinates. The coordinate system
// puts home plate at (125.42, 199.0) with y decreasing toward the outfield.
const (
	homePlateX = 125.42
	homePlateY = 199.0

	// pullAngleThreshold is the spray angle (degrees off center) beyond
	// which a ball is pulled, matching the Savant pull zone.
	pullAngleThreshold = 17.0
)

// Sample floors under which a pulled-air rate is not meaningful
const (
	minBallsInPlay = 20
	minAirBalls    = 10
)

// SprayCalculator derives pulled-air-ball rate from pitch-level hit
// coordinates.
type SprayCalculator struct{}

// NewSprayCalculator creates a spray calculator
func NewSprayCalculator() *SprayCalculator {
	return &SprayCalculator{}
}

// SprayAngle converts hit coordinates to a spray angle in degrees. Zero is
// straight up the middle; negative angles are toward left field, positive
// toward right.
func (c *SprayCalculator) SprayAngle(hcX, hcY float64) float64 {
	xAdj := hcX - homePlateX
	yAdj := homePlateY - hcY

	if yAdj <= 0 {
		return 0.0
	}

	return math.Atan2(xAdj, yAdj) * 180 / math.Pi
}

// IsPulled reports whether a spray angle is on the pull side for the
// batter's handedness. Unknown handedness is never pulled.
func (c *SprayCalculator) IsPulled(sprayAngle float64, batterHand string) bool {
	switch batterHand {
	case "R":
		return sprayAngle < -pullAngleThreshold
	case "L":
		return sprayAngle > pullAngleThreshold
	}
	return false
}

// IsAirBall reports whether a batted-ball type is a non-grounder
func (c *SprayCalculator) IsAirBall(bbType string) bool {
	switch bbType {
	case "fly_ball", "line_drive", "popup":
		return true
	}
	return false
}

// PulledAirPct computes pulled air balls over total balls in play, as a
// percentage. Handedness is taken per ball in play, so switch hitters are
// scored by the stance they actually hit from. The second return is false
// when the sample is too small to be meaningful.
func (c *SprayCalculator) PulledAirPct(pitches []savant.Pitch) (float64, bool) {
	var totalBIP, pulledAir, airBalls int

	for i := range pitches {
		p := &pitches[i]
		if p.Type != "X" || p.HCX == nil || p.HCY == nil {
			continue
		}
		totalBIP++

		if !c.IsAirBall(p.BBType) {
			continue
		}
		airBalls++

		angle := c.SprayAngle(*p.HCX, *p.HCY)
		if c.IsPulled(angle, p.Stand) {
			pulledAir++
		}
	}

	if totalBIP < minBallsInPlay || airBalls < minAirBalls {
		return 0, false
	}

	return float64(pulledAir) / float64(totalBIP) * 100, true
}
