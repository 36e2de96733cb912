package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/internal/external/fangraphs"
	"github.com/wonny/comps/internal/external/savant"
	"github.com/wonny/comps/internal/metrics"
	"github.com/wonny/comps/pkg/config"
	"github.com/wonny/comps/pkg/logger"
)

// Crosswalk resolves MLBAM player ids to FanGraphs ids. Players missing
// from the crosswalk fall back to name matching.
type Crosswalk interface {
	FangraphsID(mlbamID int) (int, bool)
}

// Statcast leaderboard column -> metric name, batter perspective
var savantBatterColumns = map[string]string{
	"avg_hit_speed": "exit_velocity",
	"max_hit_speed": "max_exit_velocity",
	"avg_hit_angle": "launch_angle",
	"brl_percent":   "barrel_pct",
	"ev95percent":   "hard_hit_pct",
	"est_woba":      "xwoba",
	"est_ba":        "xba",
	"est_slg":       "xslg",
}

// Statcast leaderboard column -> metric name, pitcher perspective
var savantPitcherColumns = map[string]string{
	"brl_percent": "barrel_pct_against",
	"ev95percent": "hard_hit_pct_against",
	"xera":        "xera",
	"est_woba":    "xwoba_against",
}

// FanGraphs batting column -> metric name
var fangraphsBatterColumns = map[string]string{
	"O-Swing%":   "chase_rate",
	"Z-Contact%": "zone_contact_pct",
	"SwStr%":     "swstr_pct",
	"K%":         "k_pct",
	"BB%":        "bb_pct",
	"GB%":        "gb_pct",
	"FB%":        "fb_pct",
	"Pull%":      "pull_pct",
}

// FanGraphs batting column -> result stat key
var fangraphsBatterResults = map[string]string{
	"PA":   "pa",
	"AVG":  "avg",
	"OBP":  "obp",
	"SLG":  "slg",
	"OPS":  "ops",
	"wRC+": "wrc_plus",
}

// FanGraphs pitching column -> metric name. The "(sc)" variants are the
// Statcast-based versions of the plate-discipline columns.
var fangraphsPitcherColumns = map[string]string{
	"IP":              "ip",
	"K%":              "k_pct",
	"BB%":             "bb_pct",
	"K-BB%":           "k_bb_pct",
	"GB%":             "gb_pct",
	"xFIP":            "xfip",
	"LOB%":            "lob_pct",
	"BABIP":           "babip",
	"O-Swing% (sc)":   "chase_pct",
	"Zone% (sc)":      "zone_pct",
	"Z-Contact% (sc)": "zone_contact_pct",
	"Stuff+":          "stuff_plus",
}

// FanGraphs pitching column -> result stat key
var fangraphsPitcherResults = map[string]string{
	"G":    "g",
	"GS":   "gs",
	"W":    "w",
	"L":    "l",
	"SO":   "so",
	"ERA":  "era",
	"WHIP": "whip",
	"WAR":  "war",
}

// Metric columns FanGraphs reports as decimal fractions. Converted to
// percentages when a season's column maximum is under 1.
var fractionalMetrics = map[string]bool{
	"chase_rate":       true,
	"zone_contact_pct": true,
	"whiff_pct":        true,
	"swstr_pct":        true,
	"k_pct":            true,
	"bb_pct":           true,
	"k_bb_pct":         true,
	"gb_pct":           true,
	"fb_pct":           true,
	"pull_pct":         true,
	"lob_pct":          true,
	"chase_pct":        true,
	"zone_pct":         true,
}

// Pitch arsenal leaderboard column -> pitch metric name
var arsenalColumns = map[string]string{
	"avg_speed":           "avg_velo",
	"avg_spin":            "avg_spin",
	"avg_break_z_induced": "avg_ivb",
	"avg_break_x":         "avg_ihb",
	"whiff_percent":       "whiff_pct",
	"chase_percent":       "chase_pct",
	"zone_percent":        "zone_pct",
	"est_woba":            "xwoba",
	"est_slg":             "xslg",
}

// Pitch type -> FanGraphs per-pitch Stuff+ column. Sweepers report under
// the slider column.
var stuffPlusColumns = map[string]string{
	"FF": "Stf+ FA",
	"SI": "Stf+ SI",
	"SL": "Stf+ SL",
	"CH": "Stf+ CH",
	"CU": "Stf+ CU",
	"FC": "Stf+ FC",
	"FS": "Stf+ FS",
	"ST": "Stf+ SL",
	"KC": "Stf+ KC",
}

// Builder assembles the population tables the similarity engines fit on,
// merging Statcast leaderboards with FanGraphs leaderboards by player id
// with a name-match fallback.
type Builder struct {
	savant    *savant.Client
	fangraphs *fangraphs.Client
	crosswalk Crosswalk
	cfg       *config.Config
	logger    *logger.Logger
}

// NewBuilder creates a dataset builder. crosswalk may be nil, in which
// case only name matching links the two sources.
func NewBuilder(sv *savant.Client, fg *fangraphs.Client, crosswalk Crosswalk, cfg *config.Config, log *logger.Logger) *Builder {
	return &Builder{
		savant:    sv,
		fangraphs: fg,
		crosswalk: crosswalk,
		cfg:       cfg,
		logger:    log,
	}
}

// BuildBatterSeasons builds the batter-season table across the configured
// season range. Seasons that fail upstream are skipped, not fatal.
func (b *Builder) BuildBatterSeasons(ctx context.Context) ([]contracts.PlayerSeasonRow, error) {
	var all []contracts.PlayerSeasonRow
	for season := b.cfg.Dataset.StartSeason; season <= b.cfg.Dataset.EndSeason; season++ {
		rows, err := b.BuildBatterSeason(ctx, season)
		if err != nil {
			b.logger.WithError(err).WithField("season", season).Warn("Batter season build failed, skipping")
			continue
		}
		all = append(all, rows...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no batter seasons could be built")
	}
	return all, nil
}

// BuildBatterSeason builds one season of batter rows
func (b *Builder) BuildBatterSeason(ctx context.Context, season int) ([]contracts.PlayerSeasonRow, error) {
	battedBall, err := b.savant.BatterBattedBall(ctx, season, b.cfg.Dataset.MinBBE)
	if err != nil {
		return nil, fmt.Errorf("batted-ball leaderboard %d: %w", season, err)
	}
	expected, err := b.savant.BatterExpectedStats(ctx, season, b.cfg.Dataset.MinPA)
	if err != nil {
		return nil, fmt.Errorf("expected-stats leaderboard %d: %w", season, err)
	}

	// FanGraphs going down costs the discipline columns, not the build
	fgRows, err := b.fangraphs.Batting(ctx, season, b.cfg.Dataset.MinPA)
	if err != nil {
		b.logger.WithError(err).WithField("season", season).Warn("FanGraphs batting unavailable")
		fgRows = nil
	}

	rows := mergeBatterSeason(season, battedBall, expected, fgRows, b.lookupFangraphsID)
	addPulledAirPct(rows, b.batterPitchFetch(ctx, season))
	b.logger.WithFields(map[string]interface{}{
		"season": season,
		"rows":   len(rows),
	}).Info("Batter season built")
	return rows, nil
}

// BuildPitcherSeasons builds the pitcher-season table across the
// configured season range.
func (b *Builder) BuildPitcherSeasons(ctx context.Context) ([]contracts.PlayerSeasonRow, error) {
	var all []contracts.PlayerSeasonRow
	for season := b.cfg.Dataset.StartSeason; season <= b.cfg.Dataset.EndSeason; season++ {
		rows, err := b.BuildPitcherSeason(ctx, season)
		if err != nil {
			b.logger.WithError(err).WithField("season", season).Warn("Pitcher season build failed, skipping")
			continue
		}
		all = append(all, rows...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no pitcher seasons could be built")
	}
	return all, nil
}

// BuildPitcherSeason builds one season of pitcher rows
func (b *Builder) BuildPitcherSeason(ctx context.Context, season int) ([]contracts.PlayerSeasonRow, error) {
	// A low BBE floor here keeps call-ups in; the FanGraphs IP qualifier
	// is the real roster filter.
	battedBall, err := b.savant.PitcherBattedBall(ctx, season, 50)
	if err != nil {
		return nil, fmt.Errorf("pitcher batted-ball leaderboard %d: %w", season, err)
	}
	expected, err := b.savant.PitcherExpectedStats(ctx, season, 50)
	if err != nil {
		return nil, fmt.Errorf("pitcher expected-stats leaderboard %d: %w", season, err)
	}

	fgRows, err := b.fangraphs.Pitching(ctx, season, b.cfg.Dataset.MinIP)
	if err != nil {
		b.logger.WithError(err).WithField("season", season).Warn("FanGraphs pitching unavailable")
		fgRows = nil
	}

	rows := mergePitcherSeason(season, battedBall, expected, fgRows, b.lookupFangraphsID)
	addArmAngles(rows, b.pitcherPitchFetch(ctx, season))
	b.logger.WithFields(map[string]interface{}{
		"season": season,
		"rows":   len(rows),
	}).Info("Pitcher season built")
	return rows, nil
}

// BuildPitchSeasons builds the per-pitch-type table across the configured
// season range. It aggregates each pitcher's pitch-level events, iterating
// the already-built pitcher table for identities and role flags.
func (b *Builder) BuildPitchSeasons(ctx context.Context, pitchers []contracts.PlayerSeasonRow) ([]contracts.PitchTypeRow, error) {
	bySeason := make(map[int][]contracts.PlayerSeasonRow)
	for i := range pitchers {
		bySeason[pitchers[i].Season] = append(bySeason[pitchers[i].Season], pitchers[i])
	}

	var all []contracts.PitchTypeRow
	for season := b.cfg.Dataset.StartSeason; season <= b.cfg.Dataset.EndSeason; season++ {
		rows, err := b.BuildPitchSeason(ctx, season, bySeason[season])
		if err != nil {
			b.logger.WithError(err).WithField("season", season).Warn("Pitch season build failed, skipping")
			continue
		}
		all = append(all, rows...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no pitch seasons could be built")
	}
	return all, nil
}

// BuildPitchSeason builds one season of per-pitch-type rows from
// pitch-level events, with Stuff+ merged from FanGraphs. When the
// pitch-level feed yields nothing for the whole season it falls back to
// the arsenal leaderboard, which lacks arm angles but covers the same
// pitch metrics.
func (b *Builder) BuildPitchSeason(ctx context.Context, season int, pitchers []contracts.PlayerSeasonRow) ([]contracts.PitchTypeRow, error) {
	fgRows, err := b.fangraphs.Pitching(ctx, season, b.cfg.Dataset.MinIP)
	if err != nil {
		b.logger.WithError(err).WithField("season", season).Warn("FanGraphs pitching unavailable")
		fgRows = nil
	}

	rows := buildPitchRows(season, pitchers, b.pitcherPitchFetch(ctx, season), fgRows, b.lookupFangraphsID)

	if len(rows) == 0 {
		b.logger.WithField("season", season).Warn("No pitch-level data, falling back to arsenal leaderboard")
		arsenal, err := b.savant.PitchArsenal(ctx, season, metrics.MinPitches)
		if err != nil {
			return nil, fmt.Errorf("pitch arsenal leaderboard %d: %w", season, err)
		}
		rows = mergePitchSeason(season, arsenal, fgRows, b.lookupFangraphsID)
	}

	b.logger.WithFields(map[string]interface{}{
		"season": season,
		"rows":   len(rows),
	}).Info("Pitch season built")
	return rows, nil
}

// batterPitchFetch binds the pitch-level fetch to a season, logging and
// swallowing per-player failures so one bad fetch doesn't sink a build.
func (b *Builder) batterPitchFetch(ctx context.Context, season int) func(int) []savant.Pitch {
	return func(playerID int) []savant.Pitch {
		events, err := b.savant.BatterPitches(ctx, playerID, season)
		if err != nil {
			b.logger.WithError(err).WithFields(map[string]interface{}{
				"player_id": playerID,
				"season":    season,
			}).Debug("Batter pitch-level fetch failed")
			return nil
		}
		return events
	}
}

func (b *Builder) pitcherPitchFetch(ctx context.Context, season int) func(int) []savant.Pitch {
	return func(playerID int) []savant.Pitch {
		events, err := b.savant.PitcherPitches(ctx, playerID, season)
		if err != nil {
			b.logger.WithError(err).WithFields(map[string]interface{}{
				"player_id": playerID,
				"season":    season,
			}).Debug("Pitcher pitch-level fetch failed")
			return nil
		}
		return events
	}
}

func (b *Builder) lookupFangraphsID(mlbamID int) (int, bool) {
	if b.crosswalk == nil {
		return 0, false
	}
	return b.crosswalk.FangraphsID(mlbamID)
}

// mergeBatterSeason merges the two Statcast leaderboards by MLBAM id, then
// attaches FanGraphs discipline columns by id crosswalk with a lowercase
// full-name fallback.
func mergeBatterSeason(
	season int,
	battedBall, expected []savant.LeaderboardRow,
	fgRows []fangraphs.Row,
	fgID func(int) (int, bool),
) []contracts.PlayerSeasonRow {
	merged := mergeStatcast(season, battedBall, expected, savantBatterColumns)
	fgIndex := indexFangraphs(fgRows, season)

	for i := range merged {
		row := &merged[i]
		fg := fgIndex.match(row, fgID)
		if fg == nil {
			continue
		}

		for col, metric := range fangraphsBatterColumns {
			if v, ok := fg.Stat(col); ok {
				row.Metrics[metric] = v
			}
		}
		// Whiff rate is the complement of contact rate
		if contact, ok := fg.Stat("Contact%"); ok {
			row.Metrics["whiff_pct"] = 1 - contact
		}
		for col, stat := range fangraphsBatterResults {
			if v, ok := fg.Stat(col); ok {
				if row.ResultStats == nil {
					row.ResultStats = make(map[string]float64)
				}
				row.ResultStats[stat] = v
			}
		}
	}

	scaleFractionalColumns(merged)
	return merged
}

// mergePitcherSeason is the pitcher counterpart of mergeBatterSeason. It
// also derives the whiff rate, volume counts, and role fields.
func mergePitcherSeason(
	season int,
	battedBall, expected []savant.LeaderboardRow,
	fgRows []fangraphs.Row,
	fgID func(int) (int, bool),
) []contracts.PlayerSeasonRow {
	merged := mergeStatcast(season, battedBall, expected, savantPitcherColumns)
	fgIndex := indexFangraphs(fgRows, season)

	for i := range merged {
		row := &merged[i]
		fg := fgIndex.match(row, fgID)
		if fg == nil {
			continue
		}

		for col, metric := range fangraphsPitcherColumns {
			if v, ok := fg.Stat(col); ok {
				row.Metrics[metric] = v
			}
		}

		// Whiff rate = swinging strikes per swing, not per pitch
		if swstr, ok := fg.Stat("SwStr%"); ok {
			if swing, ok := fg.Stat("Swing% (sc)"); ok && swing > 0 {
				row.Metrics["whiff_pct"] = swstr / swing
			} else {
				row.Metrics["whiff_pct"] = swstr
			}
		}

		for col, stat := range fangraphsPitcherResults {
			if v, ok := fg.Stat(col); ok {
				if row.ResultStats == nil {
					row.ResultStats = make(map[string]float64)
				}
				row.ResultStats[stat] = v
			}
		}

		if g, ok := fg.Stat("G"); ok {
			games := int(g)
			row.Games = &games
			if gs, ok := fg.Stat("GS"); ok {
				started := int(gs)
				row.GamesStarted = &started
			}
		}
	}

	scaleFractionalColumns(merged)
	return merged
}

// mergePitchSeason maps arsenal leaderboard rows onto pitch rows and
// attaches per-pitch Stuff+ and the starter flag from FanGraphs.
func mergePitchSeason(
	season int,
	arsenal []savant.ArsenalRow,
	fgRows []fangraphs.Row,
	fgID func(int) (int, bool),
) []contracts.PitchTypeRow {
	fgIndex := indexFangraphs(fgRows, season)

	var rows []contracts.PitchTypeRow
	for i := range arsenal {
		src := &arsenal[i]
		if _, known := metrics.PitchTypeNames[src.PitchType]; !known {
			continue
		}
		if src.Pitches < metrics.MinPitches {
			continue
		}

		row := contracts.PitchTypeRow{
			PlayerID:   src.PlayerID,
			Season:     season,
			PitchType:  src.PitchType,
			PitchName:  metrics.PitchTypeName(src.PitchType),
			FirstName:  src.FirstName,
			LastName:   src.LastName,
			NumPitches: src.Pitches,
			Metrics:    make(map[string]float64),
		}

		for col, metric := range arsenalColumns {
			if v, ok := src.Stat(col); ok {
				row.Metrics[metric] = v
			}
		}
		if v, ok := src.Stat("arm_angle"); ok {
			angle := v
			row.ArmAngle = &angle
		}

		seasonRow := contracts.PlayerSeasonRow{
			PlayerID:  src.PlayerID,
			FirstName: src.FirstName,
			LastName:  src.LastName,
			Season:    season,
		}
		if fg := fgIndex.match(&seasonRow, fgID); fg != nil {
			if col, ok := stuffPlusColumns[src.PitchType]; ok {
				if v, ok := fg.Stat(col); ok {
					row.Metrics["stuff_plus"] = v
				}
			}
			if g, ok := fg.Stat("G"); ok && g > 0 {
				if gs, ok := fg.Stat("GS"); ok {
					starter := gs/g >= metrics.StarterGSRatio
					row.IsStarter = &starter
				}
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// addPulledAirPct fills the pulled-air-ball rate from each batter's
// pitch-level events. Batters whose events can't be fetched, or whose
// batted-ball sample is under the spray floors, stay without the metric;
// the engines treat it as missing.
func addPulledAirPct(rows []contracts.PlayerSeasonRow, fetch func(playerID int) []savant.Pitch) {
	calc := NewSprayCalculator()
	for i := range rows {
		events := fetch(rows[i].PlayerID)
		if len(events) == 0 {
			continue
		}
		if pct, ok := calc.PulledAirPct(events); ok {
			rows[i].Metrics["pulled_fb_pct"] = pct
		}
	}
}

// addArmAngles fills the average release arm angle from each pitcher's
// pitch-level events.
func addArmAngles(rows []contracts.PlayerSeasonRow, fetch func(playerID int) []savant.Pitch) {
	for i := range rows {
		events := fetch(rows[i].PlayerID)
		if len(events) == 0 {
			continue
		}
		if v, ok := meanPitchField(events, func(p *savant.Pitch) *float64 { return p.ArmAngle }); ok {
			rows[i].Metrics["arm_angle"] = round1p(v)
		}
	}
}

// buildPitchRows aggregates each pitcher's events into per-pitch-type rows
// and attaches Stuff+ and the starter flag. The starter flag prefers G/GS
// from the pitcher table; when those are missing it is inferred from
// first-inning entries in the events.
func buildPitchRows(
	season int,
	pitchers []contracts.PlayerSeasonRow,
	fetch func(playerID int) []savant.Pitch,
	fgRows []fangraphs.Row,
	fgID func(int) (int, bool),
) []contracts.PitchTypeRow {
	fgIndex := indexFangraphs(fgRows, season)

	var all []contracts.PitchTypeRow
	for i := range pitchers {
		pitcher := &pitchers[i]

		events := fetch(pitcher.PlayerID)
		if len(events) == 0 {
			continue
		}

		rows := AggregatePitchTypes(pitcher.PlayerID, season, events, metrics.MinPitches)
		if len(rows) == 0 {
			continue
		}

		starter, known := pitcher.IsStarter(metrics.StarterGSRatio)
		if !known {
			starter = InferStarter(events)
		}

		fg := fgIndex.match(pitcher, fgID)
		for j := range rows {
			row := &rows[j]
			row.FirstName = pitcher.FirstName
			row.LastName = pitcher.LastName
			isStarter := starter
			row.IsStarter = &isStarter

			if fg != nil {
				if col, ok := stuffPlusColumns[row.PitchType]; ok {
					if v, ok := fg.Stat(col); ok {
						row.Metrics["stuff_plus"] = v
					}
				}
			}
		}
		all = append(all, rows...)
	}

	return all
}

// mergeStatcast outer-joins two leaderboards by MLBAM id, preferring the
// first source's names.
func mergeStatcast(season int, primary, secondary []savant.LeaderboardRow, columns map[string]string) []contracts.PlayerSeasonRow {
	byID := make(map[int]*contracts.PlayerSeasonRow)
	var order []int

	add := func(src *savant.LeaderboardRow) {
		row, ok := byID[src.PlayerID]
		if !ok {
			row = &contracts.PlayerSeasonRow{
				PlayerID:  src.PlayerID,
				Season:    season,
				FirstName: src.FirstName,
				LastName:  src.LastName,
				Metrics:   make(map[string]float64),
			}
			byID[src.PlayerID] = row
			order = append(order, src.PlayerID)
		}
		if row.LastName == "" {
			row.FirstName, row.LastName = src.FirstName, src.LastName
		}
		for col, metric := range columns {
			if v, ok := src.Stat(col); ok {
				row.Metrics[metric] = v
			}
		}
	}

	for i := range primary {
		add(&primary[i])
	}
	for i := range secondary {
		add(&secondary[i])
	}

	rows := make([]contracts.PlayerSeasonRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byID[id])
	}
	return rows
}

// fgIndex looks up FanGraphs rows by id, by lowercase full name, and by
// last name.
type fgIndex struct {
	byID       map[int]*fangraphs.Row
	byName     map[string]*fangraphs.Row
	byLastName map[string]*fangraphs.Row
}

func indexFangraphs(rows []fangraphs.Row, season int) *fgIndex {
	idx := &fgIndex{
		byID:       make(map[int]*fangraphs.Row),
		byName:     make(map[string]*fangraphs.Row),
		byLastName: make(map[string]*fangraphs.Row),
	}
	for i := range rows {
		row := &rows[i]
		if row.Season != 0 && row.Season != season {
			continue
		}
		if row.FangraphsID != 0 {
			idx.byID[row.FangraphsID] = row
		}
		name := strings.ToLower(strings.TrimSpace(row.Name))
		if name == "" {
			continue
		}
		idx.byName[name] = row
		if sp := strings.LastIndexByte(name, ' '); sp >= 0 {
			last := name[sp+1:]
			if _, dup := idx.byLastName[last]; !dup {
				idx.byLastName[last] = row
			} else {
				// Ambiguous last names can't be used for fallback
				idx.byLastName[last] = nil
			}
		}
	}
	return idx
}

// match resolves a season row to its FanGraphs line: id crosswalk first,
// then exact lowercase full name, then unique last name (Cam vs Cameron
// and similar first-name mismatches).
func (idx *fgIndex) match(row *contracts.PlayerSeasonRow, fgID func(int) (int, bool)) *fangraphs.Row {
	if id, ok := fgID(row.PlayerID); ok {
		if fg, ok := idx.byID[id]; ok {
			return fg
		}
	}

	name := strings.ToLower(strings.TrimSpace(row.FirstName + " " + row.LastName))
	if fg, ok := idx.byName[name]; ok {
		return fg
	}

	last := strings.ToLower(strings.TrimSpace(row.LastName))
	if last != "" {
		if fg, ok := idx.byLastName[last]; ok && fg != nil {
			return fg
		}
	}
	return nil
}

// scaleFractionalColumns converts FanGraphs decimal-fraction columns to
// percentages. A column is treated as fractional only when its maximum
// over the season is under 1, so already-scaled sources pass through.
func scaleFractionalColumns(rows []contracts.PlayerSeasonRow) {
	colMax := make(map[string]float64)
	for i := range rows {
		for name, v := range rows[i].Metrics {
			if !fractionalMetrics[name] {
				continue
			}
			if cur, ok := colMax[name]; !ok || v > cur {
				colMax[name] = v
			}
		}
	}

	for name, max := range colMax {
		if max >= 1 {
			continue
		}
		for i := range rows {
			if v, ok := rows[i].Metrics[name]; ok {
				rows[i].Metrics[name] = v * 100
			}
		}
	}
}
