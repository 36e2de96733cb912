package fangraphs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/comps/pkg/config"
	"github.com/wonny/comps/pkg/httputil"
	"github.com/wonny/comps/pkg/logger"
	"github.com/wonny/comps/pkg/redis"
)

// Client fetches FanGraphs leaderboards. The JSON API is the primary
// source; when it serves an HTML page instead, the leaderboard table is
// scraped.
type Client struct {
	http    *httputil.Client
	cache   *redis.Cache
	baseURL string
	ttl     time.Duration
	logger  *logger.Logger
}

// New creates a FanGraphs leaderboard client
func New(cfg *config.Config, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		http:    httputil.New(cfg, log),
		cache:   cache,
		baseURL: strings.TrimRight(cfg.Sources.FangraphsBaseURL, "/"),
		ttl:     cfg.Sources.CacheTTL,
		logger:  log,
	}
}

// Batting fetches the batting leaderboard for one season
func (c *Client) Batting(ctx context.Context, season, minPA int) ([]Row, error) {
	url := fmt.Sprintf("%s/api/leaders/major-league/data?stats=bat&lg=all&season=%d&season1=%d&qual=%d&pageitems=2000",
		c.baseURL, season, season, minPA)
	return c.leaderboard(ctx, fmt.Sprintf("fangraphs:batting:%d:%d", season, minPA), url)
}

// Pitching fetches the pitching leaderboard for one season, including the
// overall and per-pitch Stuff+ columns.
func (c *Client) Pitching(ctx context.Context, season, minIP int) ([]Row, error) {
	url := fmt.Sprintf("%s/api/leaders/major-league/data?stats=pit&lg=all&season=%d&season1=%d&qual=%d&pageitems=2000",
		c.baseURL, season, season, minIP)
	return c.leaderboard(ctx, fmt.Sprintf("fangraphs:pitching:%d:%d", season, minIP), url)
}

func (c *Client) leaderboard(ctx context.Context, cacheKey, url string) ([]Row, error) {
	var rows []Row
	err := c.cache.GetOrSet(ctx, cacheKey, &rows, c.ttl, func() (interface{}, error) {
		body, err := c.http.GetBody(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch leaderboard: %w", err)
		}

		parsed, jsonErr := parseJSON(body)
		if jsonErr == nil {
			return parsed, nil
		}

		// The site periodically serves the page itself instead of data
		parsed, htmlErr := parseHTMLTable(body)
		if htmlErr != nil {
			return nil, fmt.Errorf("parse leaderboard: %v (json: %v)", htmlErr, jsonErr)
		}
		c.logger.WithField("url", url).Warn("Leaderboard JSON unavailable, scraped HTML table")
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"key":  cacheKey,
		"rows": len(rows),
	}).Debug("FanGraphs leaderboard loaded")
	return rows, nil
}

func parseJSON(body []byte) ([]Row, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("leaderboard response has no data rows")
	}

	rows := make([]Row, 0, len(resp.Data))
	for _, raw := range resp.Data {
		var row Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseHTMLTable scrapes a leaderboard table. The header row names the
// columns; percent signs on cell values are stripped and the values kept
// as decimals to match the API's convention.
func parseHTMLTable(body []byte) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	table := doc.Find("table.rgMasterTable, table#LeaderBoard1_dg1_ctl00, table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no leaderboard table found")
	}

	var header []string
	table.Find("thead tr th, tr.rgHeader th").Each(func(_ int, s *goquery.Selection) {
		header = append(header, strings.TrimSpace(s.Text()))
	})
	if len(header) == 0 {
		return nil, fmt.Errorf("leaderboard table has no header row")
	}

	nameIdx, seasonIdx := -1, -1
	for i, col := range header {
		switch col {
		case "Name":
			nameIdx = i
		case "Season":
			seasonIdx = i
		}
	}

	var rows []Row
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < len(header) {
			return
		}

		row := Row{Stats: make(map[string]float64)}
		cells.Each(func(i int, td *goquery.Selection) {
			if i >= len(header) {
				return
			}
			text := strings.TrimSpace(td.Text())
			switch i {
			case nameIdx:
				row.Name = text
				if href, ok := td.Find("a").Attr("href"); ok {
					row.FangraphsID = playerIDFromHref(href)
				}
			case seasonIdx:
				if v, err := strconv.Atoi(text); err == nil {
					row.Season = v
				}
			default:
				if v, ok := parseCell(text); ok {
					row.Stats[header[i]] = v
				}
			}
		})

		if row.Name != "" {
			rows = append(rows, row)
		}
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("leaderboard table has no data rows")
	}
	return rows, nil
}

// playerIDFromHref pulls the playerid query parameter out of a player link
func playerIDFromHref(href string) int {
	const key = "playerid="
	idx := strings.Index(href, key)
	if idx < 0 {
		return 0
	}
	rest := href[idx+len(key):]
	if amp := strings.IndexByte(rest, '&'); amp >= 0 {
		rest = rest[:amp]
	}
	id, _ := strconv.Atoi(rest)
	return id
}

// parseCell parses a table cell, normalizing "27.6 %" to 0.276 so scraped
// values match the API's decimal rates.
func parseCell(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	percent := false
	if strings.HasSuffix(text, "%") {
		percent = true
		text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if percent {
		v /= 100
	}
	return v, true
}
