package savant

import (
	"context"
	"fmt"
	"strings"
)

// PitcherPitches fetches one pitcher's pitch-level events for a season
// from the Statcast search feed.
func (c *Client) PitcherPitches(ctx context.Context, playerID, season int) ([]Pitch, error) {
	url := fmt.Sprintf("%s/statcast_search/csv?all=true&type=details&player_type=pitcher&pitchers_lookup%%5B%%5D=%d&game_date_gt=%d-03-01&game_date_lt=%d-11-30",
		c.baseURL, playerID, season, season)
	return c.pitches(ctx, fmt.Sprintf("savant:pitches:pitcher:%d:%d", playerID, season), url)
}

// BatterPitches fetches the pitch-level events a batter faced in a season
func (c *Client) BatterPitches(ctx context.Context, playerID, season int) ([]Pitch, error) {
	url := fmt.Sprintf("%s/statcast_search/csv?all=true&type=details&player_type=batter&batters_lookup%%5B%%5D=%d&game_date_gt=%d-03-01&game_date_lt=%d-11-30",
		c.baseURL, playerID, season, season)
	return c.pitches(ctx, fmt.Sprintf("savant:pitches:batter:%d:%d", playerID, season), url)
}

func (c *Client) pitches(ctx context.Context, cacheKey, url string) ([]Pitch, error) {
	var rows []Pitch
	err := c.cache.GetOrSet(ctx, cacheKey, &rows, c.ttl, func() (interface{}, error) {
		body, err := c.http.GetBody(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch pitch data: %w", err)
		}
		parsed, err := parsePitchCSV(body)
		if err != nil {
			return nil, fmt.Errorf("parse pitch data: %w", err)
		}
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"key":     cacheKey,
		"pitches": len(rows),
	}).Debug("Pitch-level data loaded")
	return rows, nil
}

// parsePitchCSV parses a Statcast search CSV into pitch events. The feed
// leaves many cells blank (no spin reading, no hit coordinates on takes);
// those stay nil.
func parsePitchCSV(body []byte) ([]Pitch, error) {
	records, header, err := readCSV(body)
	if err != nil {
		return nil, err
	}

	col := func(name string) int { return columnIndex(header, name) }
	gamePkCol := col("game_pk")
	inningCol := col("inning")
	typeCol := col("pitch_type")
	descCol := col("description")
	outcomeCol := col("type")
	zoneCol := col("zone")
	bbTypeCol := col("bb_type")
	standCol := col("stand")
	hcXCol := col("hc_x")
	hcYCol := col("hc_y")
	speedCol := col("release_speed")
	spinCol := col("release_spin_rate")
	pfxXCol := col("pfx_x")
	pfxZCol := col("pfx_z")
	armAngleCol := col("arm_angle")
	xwobaCol := col("estimated_woba_using_speedangle")
	xslgCol := col("estimated_slg_using_speedangle")

	if typeCol < 0 || descCol < 0 {
		return nil, fmt.Errorf("pitch CSV missing pitch_type or description column")
	}

	cell := func(rec []string, idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}
	floatCell := func(rec []string, idx int) *float64 {
		if v, ok := parseFloat(cell(rec, idx)); ok {
			return &v
		}
		return nil
	}

	rows := make([]Pitch, 0, len(records))
	for _, rec := range records {
		p := Pitch{
			PitchType:   cell(rec, typeCol),
			Description: cell(rec, descCol),
			Type:        cell(rec, outcomeCol),
			BBType:      cell(rec, bbTypeCol),
			Stand:       cell(rec, standCol),
		}
		// Integer columns sometimes arrive as "9.0"
		if v, ok := parseFloat(cell(rec, gamePkCol)); ok {
			p.GamePk = int(v)
		}
		if v, ok := parseFloat(cell(rec, inningCol)); ok {
			p.Inning = int(v)
		}
		if v, ok := parseFloat(cell(rec, zoneCol)); ok {
			zone := int(v)
			p.Zone = &zone
		}
		p.HCX = floatCell(rec, hcXCol)
		p.HCY = floatCell(rec, hcYCol)
		p.ReleaseSpeed = floatCell(rec, speedCol)
		p.ReleaseSpin = floatCell(rec, spinCol)
		p.PfxX = floatCell(rec, pfxXCol)
		p.PfxZ = floatCell(rec, pfxZCol)
		p.ArmAngle = floatCell(rec, armAngleCol)
		p.EstimatedWOBA = floatCell(rec, xwobaCol)
		p.EstimatedSLG = floatCell(rec, xslgCol)

		rows = append(rows, p)
	}

	return rows, nil
}
