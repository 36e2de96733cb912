package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/internal/external/fangraphs"
	"github.com/wonny/comps/internal/external/savant"
)

func ballInPlay(hcX, hcY float64, bbType, stand string) savant.Pitch {
	x, y := hcX, hcY
	return savant.Pitch{
		Type:        "X",
		Description: "hit_into_play",
		BBType:      bbType,
		Stand:       stand,
		HCX:         &x,
		HCY:         &y,
	}
}

func TestAddPulledAirPct(t *testing.T) {
	// 15 pulled fly balls and 10 grounders: 15/25 = 60%
	var events []savant.Pitch
	for i := 0; i < 15; i++ {
		events = append(events, ballInPlay(80, 100, "fly_ball", "R"))
	}
	for i := 0; i < 10; i++ {
		events = append(events, ballInPlay(126, 150, "ground_ball", "R"))
	}

	rows := []contracts.PlayerSeasonRow{
		{PlayerID: 592450, Season: 2024, Metrics: map[string]float64{}},
		{PlayerID: 665742, Season: 2024, Metrics: map[string]float64{}},
	}

	addPulledAirPct(rows, func(playerID int) []savant.Pitch {
		if playerID == 592450 {
			return events
		}
		return nil
	})

	assert.InDelta(t, 60.0, rows[0].Metrics["pulled_fb_pct"], 1e-9)

	// No events means no metric, not a zero
	_, ok := rows[1].Metrics["pulled_fb_pct"]
	assert.False(t, ok)
}

func TestAddPulledAirPct_SmallSampleSkipped(t *testing.T) {
	// Plenty of balls in play but under the air-ball floor
	var events []savant.Pitch
	for i := 0; i < 25; i++ {
		events = append(events, ballInPlay(126, 150, "ground_ball", "R"))
	}

	rows := []contracts.PlayerSeasonRow{
		{PlayerID: 1, Season: 2024, Metrics: map[string]float64{}},
	}
	addPulledAirPct(rows, func(int) []savant.Pitch { return events })

	_, ok := rows[0].Metrics["pulled_fb_pct"]
	assert.False(t, ok)
}

func TestAddArmAngles(t *testing.T) {
	angle1, angle2 := 40.0, 45.3
	events := []savant.Pitch{
		{Description: "ball", ArmAngle: &angle1},
		{Description: "ball", ArmAngle: &angle2},
		{Description: "ball"}, // no reading
	}

	rows := []contracts.PlayerSeasonRow{
		{PlayerID: 1, Season: 2024, Metrics: map[string]float64{}},
	}
	addArmAngles(rows, func(int) []savant.Pitch { return events })

	assert.InDelta(t, 42.7, rows[0].Metrics["arm_angle"], 1e-9)
}

func TestBuildPitchRows(t *testing.T) {
	g, gs := 30, 30
	pitchers := []contracts.PlayerSeasonRow{
		{
			PlayerID: 694973, Season: 2024,
			FirstName: "Paul", LastName: "Skenes",
			Metrics: map[string]float64{},
			Games:   &g, GamesStarted: &gs,
		},
	}

	var events []savant.Pitch
	for i := 0; i < 60; i++ {
		events = append(events, thrownPitch("FF", 100+i%10, 1, 99.0, 1.3))
	}
	fg := []fangraphs.Row{
		fgRow(0, "Paul Skenes", 2024, map[string]float64{"Stf+ FA": 128}),
	}

	rows := buildPitchRows(2024, pitchers, func(int) []savant.Pitch { return events }, fg, noCrosswalk)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "FF", row.PitchType)
	assert.Equal(t, "Paul", row.FirstName)
	assert.Equal(t, "Skenes", row.LastName)
	assert.Equal(t, 60, row.NumPitches)
	assert.Equal(t, 99.0, row.Metrics["avg_velo"])
	// Stuff+ comes from the FanGraphs per-pitch column
	assert.Equal(t, 128.0, row.Metrics["stuff_plus"])
	// Starter flag from G/GS
	require.NotNil(t, row.IsStarter)
	assert.True(t, *row.IsStarter)
}

func TestBuildPitchRows_StarterInferredWithoutGames(t *testing.T) {
	pitchers := []contracts.PlayerSeasonRow{
		{PlayerID: 1, Season: 2024, FirstName: "A", LastName: "B", Metrics: map[string]float64{}},
	}

	// 10 games, all entered in the first inning
	var events []savant.Pitch
	for i := 0; i < 60; i++ {
		events = append(events, thrownPitch("SI", 200+i%10, 1, 94.0, 0.8))
	}

	rows := buildPitchRows(2024, pitchers, func(int) []savant.Pitch { return events }, nil, noCrosswalk)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].IsStarter)
	assert.True(t, *rows[0].IsStarter)
}

func TestBuildPitchRows_NoEventsNoRows(t *testing.T) {
	pitchers := []contracts.PlayerSeasonRow{
		{PlayerID: 1, Season: 2024, Metrics: map[string]float64{}},
	}
	rows := buildPitchRows(2024, pitchers, func(int) []savant.Pitch { return nil }, nil, noCrosswalk)
	assert.Empty(t, rows)
}
