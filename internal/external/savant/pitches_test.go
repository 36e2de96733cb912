package savant

import "testing"

const samplePitchCSV = `pitch_type,game_pk,inning,description,type,zone,bb_type,stand,hc_x,hc_y,release_speed,release_spin_rate,pfx_x,pfx_z,arm_angle,estimated_woba_using_speedangle,estimated_slg_using_speedangle
FF,745123,1,swinging_strike,S,5,,R,,,99.2,2310,-0.52,1.41,44.3,,
SL,745123,1,hit_into_play,X,13,ground_ball,L,140.1,155.0,87.6,2650,0.31,0.12,44.1,0.210,0.245
FF,745123,2.0,ball,B,,,R,,,98.7,,,,,,`

func TestParsePitchCSV(t *testing.T) {
	rows, err := parsePitchCSV([]byte(samplePitchCSV))
	if err != nil {
		t.Fatalf("parsePitchCSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 pitches, got %d", len(rows))
	}

	whiff := rows[0]
	if whiff.PitchType != "FF" || whiff.Description != "swinging_strike" {
		t.Errorf("pitch = %s %s, want FF swinging_strike", whiff.PitchType, whiff.Description)
	}
	if whiff.GamePk != 745123 || whiff.Inning != 1 {
		t.Errorf("game/inning = %d/%d, want 745123/1", whiff.GamePk, whiff.Inning)
	}
	if whiff.Zone == nil || *whiff.Zone != 5 {
		t.Errorf("zone = %v, want 5", whiff.Zone)
	}
	if whiff.ReleaseSpeed == nil || *whiff.ReleaseSpeed != 99.2 {
		t.Errorf("release_speed = %v, want 99.2", whiff.ReleaseSpeed)
	}
	if whiff.HCX != nil {
		t.Error("no hit coordinates on a whiff")
	}

	inPlay := rows[1]
	if inPlay.Type != "X" || inPlay.BBType != "ground_ball" || inPlay.Stand != "L" {
		t.Errorf("ball in play = %s/%s/%s", inPlay.Type, inPlay.BBType, inPlay.Stand)
	}
	if inPlay.HCX == nil || *inPlay.HCX != 140.1 {
		t.Errorf("hc_x = %v, want 140.1", inPlay.HCX)
	}
	if inPlay.EstimatedWOBA == nil || *inPlay.EstimatedWOBA != 0.210 {
		t.Errorf("estimated woba = %v, want 0.210", inPlay.EstimatedWOBA)
	}

	// Fractional inning cell and all-blank trailing columns
	take := rows[2]
	if take.Inning != 2 {
		t.Errorf("inning = %d, want 2", take.Inning)
	}
	if take.Zone != nil || take.ReleaseSpin != nil || take.ArmAngle != nil {
		t.Error("blank cells should stay nil")
	}
}

func TestParsePitchCSV_MissingColumns(t *testing.T) {
	if _, err := parsePitchCSV([]byte("game_pk,inning\n1,1\n")); err == nil {
		t.Fatal("expected error for CSV without pitch columns")
	}
}
