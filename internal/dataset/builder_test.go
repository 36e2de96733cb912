package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/comps/internal/external/fangraphs"
	"github.com/wonny/comps/internal/external/savant"
)

func noCrosswalk(int) (int, bool) { return 0, false }

func savantRow(id int, first, last string, stats map[string]float64) savant.LeaderboardRow {
	return savant.LeaderboardRow{PlayerID: id, FirstName: first, LastName: last, Stats: stats}
}

func fgRow(id int, name string, season int, stats map[string]float64) fangraphs.Row {
	return fangraphs.Row{FangraphsID: id, Name: name, Season: season, Stats: stats}
}

func TestMergeBatterSeason(t *testing.T) {
	battedBall := []savant.LeaderboardRow{
		savantRow(592450, "Aaron", "Judge", map[string]float64{
			"avg_hit_speed": 95.8, "brl_percent": 26.3, "ev95percent": 60.8,
		}),
	}
	expected := []savant.LeaderboardRow{
		savantRow(592450, "Aaron", "Judge", map[string]float64{
			"est_woba": 0.458, "est_slg": 0.716,
		}),
		// Only on the expected-stats board
		savantRow(665742, "Juan", "Soto", map[string]float64{"est_woba": 0.411}),
	}
	fg := []fangraphs.Row{
		fgRow(15640, "Aaron Judge", 2024, map[string]float64{
			"K%": 0.245, "O-Swing%": 0.221, "Contact%": 0.702,
			"PA": 704, "OPS": 1.159, "wRC+": 218,
		}),
	}

	rows := mergeBatterSeason(2024, battedBall, expected, fg, noCrosswalk)
	require.Len(t, rows, 2)

	judge := rows[0]
	assert.Equal(t, 592450, judge.PlayerID)
	assert.Equal(t, 2024, judge.Season)
	// Both Statcast boards contribute
	assert.Equal(t, 95.8, judge.Metrics["exit_velocity"])
	assert.Equal(t, 0.458, judge.Metrics["xwoba"])
	// FanGraphs decimals are scaled to percentages
	assert.InDelta(t, 24.5, judge.Metrics["k_pct"], 1e-9)
	assert.InDelta(t, 22.1, judge.Metrics["chase_rate"], 1e-9)
	// Whiff is the complement of contact, scaled
	assert.InDelta(t, 29.8, judge.Metrics["whiff_pct"], 1e-9)
	// Result stats pass through unscaled
	assert.Equal(t, 704.0, judge.ResultStats["pa"])
	assert.Equal(t, 218.0, judge.ResultStats["wrc_plus"])

	// Soto never appeared on FanGraphs: Statcast metrics only, and the
	// missing FG columns stay missing
	soto := rows[1]
	assert.Equal(t, 0.411, soto.Metrics["xwoba"])
	assert.NotContains(t, soto.Metrics, "k_pct")
	assert.Nil(t, soto.ResultStats)
}

func TestMergeBatterSeason_NameFallback(t *testing.T) {
	battedBall := []savant.LeaderboardRow{
		savantRow(700022, "Elly", "De La Cruz", map[string]float64{"avg_hit_speed": 93.0}),
	}
	fg := []fangraphs.Row{
		// No usable id: only the name links it
		fgRow(0, "Elly De La Cruz", 2024, map[string]float64{"K%": 0.312}),
	}

	rows := mergeBatterSeason(2024, battedBall, nil, fg, noCrosswalk)
	require.Len(t, rows, 1)
	assert.InDelta(t, 31.2, rows[0].Metrics["k_pct"], 1e-9)
}

func TestMergeBatterSeason_CrosswalkBeatsName(t *testing.T) {
	battedBall := []savant.LeaderboardRow{
		savantRow(592450, "Aaron", "Judge", map[string]float64{"avg_hit_speed": 95.8}),
	}
	fg := []fangraphs.Row{
		// Registered under a differently spelled name
		fgRow(15640, "A. Judge", 2024, map[string]float64{"K%": 0.245}),
	}
	crosswalk := func(mlbam int) (int, bool) {
		if mlbam == 592450 {
			return 15640, true
		}
		return 0, false
	}

	rows := mergeBatterSeason(2024, battedBall, nil, fg, crosswalk)
	require.Len(t, rows, 1)
	assert.InDelta(t, 24.5, rows[0].Metrics["k_pct"], 1e-9)
}

func TestMergePitcherSeason(t *testing.T) {
	battedBall := []savant.LeaderboardRow{
		savantRow(694973, "Paul", "Skenes", map[string]float64{
			"brl_percent": 4.8, "ev95percent": 33.1,
		}),
	}
	expected := []savant.LeaderboardRow{
		savantRow(694973, "Paul", "Skenes", map[string]float64{"xera": 2.71}),
	}
	fg := []fangraphs.Row{
		fgRow(27489, "Paul Skenes", 2024, map[string]float64{
			"IP": 133, "K%": 0.331, "BB%": 0.07,
			"SwStr%": 0.152, "Swing% (sc)": 0.47,
			"G": 23, "GS": 23, "W": 11, "ERA": 1.96, "Stuff+": 128,
		}),
	}

	rows := mergePitcherSeason(2024, battedBall, expected, fg, noCrosswalk)
	require.Len(t, rows, 1)

	skenes := rows[0]
	assert.Equal(t, 4.8, skenes.Metrics["barrel_pct_against"])
	assert.Equal(t, 2.71, skenes.Metrics["xera"])
	assert.InDelta(t, 33.1, skenes.Metrics["k_pct"], 1e-9)
	// Whiff = SwStr / Swing, already a percentage after scaling
	assert.InDelta(t, 0.152/0.47*100, skenes.Metrics["whiff_pct"], 1e-6)
	assert.Equal(t, 128.0, skenes.Metrics["stuff_plus"])

	require.NotNil(t, skenes.Games)
	require.NotNil(t, skenes.GamesStarted)
	assert.Equal(t, 23, *skenes.Games)
	assert.Equal(t, 23, *skenes.GamesStarted)
	assert.Equal(t, 1.96, skenes.ResultStats["era"])
}

func TestMergePitcherSeason_LastNameFallback(t *testing.T) {
	battedBall := []savant.LeaderboardRow{
		savantRow(123, "Cam", "Booser", map[string]float64{"brl_percent": 6.0}),
	}
	fg := []fangraphs.Row{
		fgRow(0, "Cameron Booser", 2024, map[string]float64{"K%": 0.25}),
	}

	rows := mergePitcherSeason(2024, battedBall, nil, fg, noCrosswalk)
	require.Len(t, rows, 1)
	assert.InDelta(t, 25.0, rows[0].Metrics["k_pct"], 1e-9)
}

func TestMergePitcherSeason_AmbiguousLastNameNotMatched(t *testing.T) {
	battedBall := []savant.LeaderboardRow{
		savantRow(123, "Cam", "Smith", map[string]float64{"brl_percent": 6.0}),
	}
	fg := []fangraphs.Row{
		fgRow(0, "Will Smith", 2024, map[string]float64{"K%": 0.25}),
		fgRow(0, "Caleb Smith", 2024, map[string]float64{"K%": 0.30}),
	}

	rows := mergePitcherSeason(2024, battedBall, nil, fg, noCrosswalk)
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0].Metrics, "k_pct",
		"two FanGraphs Smiths cannot be told apart by last name alone")
}

func TestMergePitchSeason(t *testing.T) {
	arsenal := []savant.ArsenalRow{
		{
			PlayerID: 694973, FirstName: "Paul", LastName: "Skenes",
			PitchType: "FF", Pitches: 912,
			Stats: map[string]float64{
				"avg_speed": 98.8, "whiff_percent": 24.1, "avg_break_z_induced": 16.2,
			},
		},
		{
			PlayerID: 694973, FirstName: "Paul", LastName: "Skenes",
			PitchType: "ST", Pitches: 300,
			Stats: map[string]float64{"avg_speed": 84.0},
		},
		// Under the sample floor
		{
			PlayerID: 694973, FirstName: "Paul", LastName: "Skenes",
			PitchType: "CU", Pitches: 30,
			Stats: map[string]float64{"avg_speed": 81.0},
		},
		// Unknown type code
		{
			PlayerID: 694973, FirstName: "Paul", LastName: "Skenes",
			PitchType: "ZZ", Pitches: 200,
			Stats: map[string]float64{"avg_speed": 90.0},
		},
	}
	fg := []fangraphs.Row{
		fgRow(27489, "Paul Skenes", 2024, map[string]float64{
			"G": 23, "GS": 23, "Stf+ FA": 131, "Stf+ SL": 118,
		}),
	}

	rows := mergePitchSeason(2024, arsenal, fg, noCrosswalk)
	require.Len(t, rows, 2)

	ff := rows[0]
	assert.Equal(t, "FF", ff.PitchType)
	assert.Equal(t, "4-Seam Fastball", ff.PitchName)
	assert.Equal(t, 912, ff.NumPitches)
	assert.Equal(t, 98.8, ff.Metrics["avg_velo"])
	assert.Equal(t, 16.2, ff.Metrics["avg_ivb"])
	assert.Equal(t, 131.0, ff.Metrics["stuff_plus"])
	require.NotNil(t, ff.IsStarter)
	assert.True(t, *ff.IsStarter)

	// Sweepers take the slider Stuff+ column
	st := rows[1]
	assert.Equal(t, "ST", st.PitchType)
	assert.Equal(t, 118.0, st.Metrics["stuff_plus"])
}

func TestScaleFractionalColumns_MixedScalesUntouched(t *testing.T) {
	battedBall := []savant.LeaderboardRow{
		savantRow(1, "A", "One", nil),
		savantRow(2, "B", "Two", nil),
	}
	fg := []fangraphs.Row{
		// Already in percentage points: max >= 1 means no scaling
		fgRow(0, "A One", 2024, map[string]float64{"K%": 24.5}),
		fgRow(0, "B Two", 2024, map[string]float64{"K%": 31.0}),
	}

	rows := mergeBatterSeason(2024, battedBall, nil, fg, noCrosswalk)
	require.Len(t, rows, 2)
	assert.Equal(t, 24.5, rows[0].Metrics["k_pct"])
	assert.Equal(t, 31.0, rows[1].Metrics["k_pct"])
}
