// Package register loads the Chadwick Bureau player id register and
// exposes an MLBAM → FanGraphs id crosswalk.
package register

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wonny/comps/pkg/config"
	"github.com/wonny/comps/pkg/httputil"
	"github.com/wonny/comps/pkg/logger"
	"github.com/wonny/comps/pkg/redis"
)

const (
	defaultBaseURL = "https://raw.githubusercontent.com/chadwickbureau/register/master/data"
	cacheTTL       = 7 * 24 * time.Hour
)

// shardSuffixes are the hex digits the register splits people.csv across.
const shardSuffixes = "0123456789abcdef"

// Client fetches the register on first use and answers id lookups from
// the in-memory table afterwards. A failed fetch leaves the table empty,
// so callers fall back to name matching.
type Client struct {
	http    *httputil.Client
	cache   *redis.Cache
	baseURL string
	logger  *logger.Logger

	once  sync.Once
	table map[int]int
}

func New(cfg *config.Config, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		http:    httputil.New(cfg, log),
		cache:   cache,
		baseURL: defaultBaseURL,
		logger:  log.WithField("component", "register"),
	}
}

// FangraphsID resolves an MLBAM id to a FanGraphs id.
func (c *Client) FangraphsID(mlbamID int) (int, bool) {
	c.once.Do(c.load)
	fg, ok := c.table[mlbamID]
	return fg, ok
}

func (c *Client) load() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	table, err := c.fetchTable(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to load player id register, falling back to name matching")
		c.table = map[int]int{}
		return
	}

	c.logger.WithField("players", len(table)).Info("Player id register loaded")
	c.table = table
}

func (c *Client) fetchTable(ctx context.Context) (map[int]int, error) {
	cacheKey := "register:mlbam_to_fangraphs"

	var cached map[int]int
	if found, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	table := make(map[int]int)
	for _, shard := range shardSuffixes {
		url := fmt.Sprintf("%s/people-%c.csv", c.baseURL, shard)

		body, err := c.http.GetBody(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch register shard %c: %w", shard, err)
		}
		if err := parseShard(body, table); err != nil {
			return nil, fmt.Errorf("parse register shard %c: %w", shard, err)
		}
	}

	if err := c.cache.Set(ctx, cacheKey, table, cacheTTL); err != nil {
		c.logger.WithError(err).Warn("Failed to cache player id register")
	}
	return table, nil
}

// parseShard extracts key_mlbam → key_fangraphs pairs from one register CSV.
func parseShard(body []byte, table map[int]int) error {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return nil
	}

	header := records[0]
	mlbamIdx, fgIdx := -1, -1
	for i, col := range header {
		switch col {
		case "key_mlbam":
			mlbamIdx = i
		case "key_fangraphs":
			fgIdx = i
		}
	}
	if mlbamIdx < 0 || fgIdx < 0 {
		return fmt.Errorf("register shard missing id columns")
	}

	for _, record := range records[1:] {
		if mlbamIdx >= len(record) || fgIdx >= len(record) {
			continue
		}
		mlbam, err := strconv.Atoi(record[mlbamIdx])
		if err != nil {
			continue
		}
		fg, err := strconv.Atoi(record[fgIdx])
		if err != nil || fg <= 0 {
			continue
		}
		table[mlbam] = fg
	}
	return nil
}
