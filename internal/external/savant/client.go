package savant

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/comps/pkg/config"
	"github.com/wonny/comps/pkg/httputil"
	"github.com/wonny/comps/pkg/logger"
	"github.com/wonny/comps/pkg/redis"
)

// Client fetches Statcast leaderboard CSVs from Baseball Savant
type Client struct {
	http    *httputil.Client
	cache   *redis.Cache
	baseURL string
	ttl     time.Duration
	logger  *logger.Logger
}

// New creates a Savant leaderboard client
func New(cfg *config.Config, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		http:    httputil.New(cfg, log),
		cache:   cache,
		baseURL: strings.TrimRight(cfg.Sources.SavantBaseURL, "/"),
		ttl:     cfg.Sources.CacheTTL,
		logger:  log,
	}
}

// BatterBattedBall fetches the exit velocity / barrels leaderboard
func (c *Client) BatterBattedBall(ctx context.Context, season, minBBE int) ([]LeaderboardRow, error) {
	url := fmt.Sprintf("%s/leaderboard/statcast?type=batter&year=%d&min=%d&csv=true",
		c.baseURL, season, minBBE)
	return c.leaderboard(ctx, fmt.Sprintf("savant:ev_barrels:batter:%d", season), url)
}

// PitcherBattedBall fetches the exit velocity / barrels allowed leaderboard
func (c *Client) PitcherBattedBall(ctx context.Context, season, minBBE int) ([]LeaderboardRow, error) {
	url := fmt.Sprintf("%s/leaderboard/statcast?type=pitcher&year=%d&min=%d&csv=true",
		c.baseURL, season, minBBE)
	return c.leaderboard(ctx, fmt.Sprintf("savant:ev_barrels:pitcher:%d", season), url)
}

// BatterExpectedStats fetches the expected statistics leaderboard (xwOBA,
// xBA, xSLG).
func (c *Client) BatterExpectedStats(ctx context.Context, season, minPA int) ([]LeaderboardRow, error) {
	url := fmt.Sprintf("%s/leaderboard/expected_statistics?type=batter&year=%d&min=%d&csv=true",
		c.baseURL, season, minPA)
	return c.leaderboard(ctx, fmt.Sprintf("savant:expected:batter:%d", season), url)
}

// PitcherExpectedStats fetches the expected statistics leaderboard against
// (xERA, xwOBA allowed).
func (c *Client) PitcherExpectedStats(ctx context.Context, season, minPA int) ([]LeaderboardRow, error) {
	url := fmt.Sprintf("%s/leaderboard/expected_statistics?type=pitcher&year=%d&min=%d&csv=true",
		c.baseURL, season, minPA)
	return c.leaderboard(ctx, fmt.Sprintf("savant:expected:pitcher:%d", season), url)
}

// PitchArsenal fetches the per-pitch-type arsenal leaderboard
func (c *Client) PitchArsenal(ctx context.Context, season, minPitches int) ([]ArsenalRow, error) {
	url := fmt.Sprintf("%s/leaderboard/pitch-arsenal-stats?type=pitcher&year=%d&min=%d&csv=true",
		c.baseURL, season, minPitches)

	var rows []ArsenalRow
	key := fmt.Sprintf("savant:arsenal:%d", season)
	err := c.cache.GetOrSet(ctx, key, &rows, c.ttl, func() (interface{}, error) {
		body, err := c.http.GetBody(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch arsenal leaderboard: %w", err)
		}
		parsed, err := parseArsenalCSV(body)
		if err != nil {
			return nil, fmt.Errorf("parse arsenal leaderboard: %w", err)
		}
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"season": season,
		"rows":   len(rows),
	}).Debug("Pitch arsenal leaderboard loaded")
	return rows, nil
}

func (c *Client) leaderboard(ctx context.Context, cacheKey, url string) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := c.cache.GetOrSet(ctx, cacheKey, &rows, c.ttl, func() (interface{}, error) {
		body, err := c.http.GetBody(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch leaderboard: %w", err)
		}
		parsed, err := parseLeaderboardCSV(body)
		if err != nil {
			return nil, fmt.Errorf("parse leaderboard: %w", err)
		}
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"key":  cacheKey,
		"rows": len(rows),
	}).Debug("Statcast leaderboard loaded")
	return rows, nil
}

// nameColumn is the combined name header Savant uses on its CSVs
const nameColumn = "last_name, first_name"

// parseLeaderboardCSV parses a Savant leaderboard CSV into rows. Every
// numeric column goes into Stats keyed by its header; blank cells are
// simply absent.
func parseLeaderboardCSV(body []byte) ([]LeaderboardRow, error) {
	records, header, err := readCSV(body)
	if err != nil {
		return nil, err
	}

	idCol := columnIndex(header, "player_id")
	if idCol < 0 {
		return nil, fmt.Errorf("leaderboard CSV has no player_id column")
	}
	nameCol := columnIndex(header, nameColumn)

	var rows []LeaderboardRow
	for _, rec := range records {
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			continue
		}

		row := LeaderboardRow{PlayerID: id, Stats: make(map[string]float64)}
		if nameCol >= 0 {
			row.LastName, row.FirstName = splitName(rec[nameCol])
		}

		for i, col := range header {
			if i == idCol || i == nameCol || i >= len(rec) {
				continue
			}
			if v, ok := parseFloat(rec[i]); ok {
				row.Stats[col] = v
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseArsenalCSV parses the pitch arsenal leaderboard, one row per
// (pitcher, pitch type).
func parseArsenalCSV(body []byte) ([]ArsenalRow, error) {
	records, header, err := readCSV(body)
	if err != nil {
		return nil, err
	}

	idCol := columnIndex(header, "player_id")
	typeCol := columnIndex(header, "pitch_type")
	if idCol < 0 || typeCol < 0 {
		return nil, fmt.Errorf("arsenal CSV missing player_id or pitch_type column")
	}
	nameCol := columnIndex(header, nameColumn)
	pitchesCol := columnIndex(header, "pitches")

	var rows []ArsenalRow
	for _, rec := range records {
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			continue
		}

		row := ArsenalRow{
			PlayerID:  id,
			PitchType: strings.TrimSpace(rec[typeCol]),
			Stats:     make(map[string]float64),
		}
		if nameCol >= 0 {
			row.LastName, row.FirstName = splitName(rec[nameCol])
		}
		if pitchesCol >= 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(rec[pitchesCol])); err == nil {
				row.Pitches = n
			}
		}

		for i, col := range header {
			if i == idCol || i == nameCol || i == typeCol || i == pitchesCol || i >= len(rec) {
				continue
			}
			if v, ok := parseFloat(rec[i]); ok {
				row.Stats[col] = v
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func readCSV(body []byte) ([][]string, []string, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("empty CSV")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}
	return records[1:], header, nil
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

func splitName(combined string) (last, first string) {
	parts := strings.SplitN(combined, ", ", 2)
	last = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		first = strings.TrimSpace(parts[1])
	}
	return last, first
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
