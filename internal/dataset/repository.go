package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/comps/internal/contracts"
)

// BuildRecord is one row of dataset build history
type BuildRecord struct {
	ID         int64      `json:"id"`
	PlayerType string     `json:"player_type"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"` // running, completed, failed
	Rows       int        `json:"rows"`
	Error      string     `json:"error,omitempty"`
}

// Repository persists built population tables so the service restarts
// without refetching upstream leaderboards.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a dataset repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveSeasonRows upserts season rows for one player type
func (r *Repository) SaveSeasonRows(ctx context.Context, playerType contracts.PlayerType, rows []contracts.PlayerSeasonRow) error {
	query := `
		INSERT INTO comps.player_seasons (
			player_type, player_id, season,
			first_name, last_name,
			metrics, result_stats,
			games, games_started,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (player_type, player_id, season) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			metrics = EXCLUDED.metrics,
			result_stats = EXCLUDED.result_stats,
			games = EXCLUDED.games,
			games_started = EXCLUDED.games_started,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for i := range rows {
		row := &rows[i]

		metricsJSON, err := json.Marshal(row.Metrics)
		if err != nil {
			return fmt.Errorf("marshal metrics for %d/%d: %w", row.PlayerID, row.Season, err)
		}
		var resultsJSON []byte
		if row.ResultStats != nil {
			if resultsJSON, err = json.Marshal(row.ResultStats); err != nil {
				return fmt.Errorf("marshal result stats for %d/%d: %w", row.PlayerID, row.Season, err)
			}
		}

		batch.Queue(query,
			string(playerType), row.PlayerID, row.Season,
			row.FirstName, row.LastName,
			metricsJSON, resultsJSON,
			row.Games, row.GamesStarted,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert player season: %w", err)
		}
	}
	return nil
}

// LoadSeasonRows loads all season rows for one player type
func (r *Repository) LoadSeasonRows(ctx context.Context, playerType contracts.PlayerType) ([]contracts.PlayerSeasonRow, error) {
	query := `
		SELECT player_id, season, first_name, last_name,
		       metrics, result_stats, games, games_started
		FROM comps.player_seasons
		WHERE player_type = $1
		ORDER BY season, player_id
	`

	dbRows, err := r.db.Query(ctx, query, string(playerType))
	if err != nil {
		return nil, fmt.Errorf("query player seasons: %w", err)
	}
	defer dbRows.Close()

	var rows []contracts.PlayerSeasonRow
	for dbRows.Next() {
		var row contracts.PlayerSeasonRow
		var metricsJSON, resultsJSON []byte

		if err := dbRows.Scan(
			&row.PlayerID, &row.Season, &row.FirstName, &row.LastName,
			&metricsJSON, &resultsJSON, &row.Games, &row.GamesStarted,
		); err != nil {
			return nil, fmt.Errorf("scan player season: %w", err)
		}

		if err := json.Unmarshal(metricsJSON, &row.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics for %d/%d: %w", row.PlayerID, row.Season, err)
		}
		if len(resultsJSON) > 0 {
			if err := json.Unmarshal(resultsJSON, &row.ResultStats); err != nil {
				return nil, fmt.Errorf("unmarshal result stats for %d/%d: %w", row.PlayerID, row.Season, err)
			}
		}

		rows = append(rows, row)
	}
	return rows, dbRows.Err()
}

// SavePitchRows upserts per-pitch-type rows
func (r *Repository) SavePitchRows(ctx context.Context, rows []contracts.PitchTypeRow) error {
	query := `
		INSERT INTO comps.pitch_types (
			player_id, season, pitch_type, pitch_name,
			first_name, last_name,
			n_pitches, metrics, is_starter, arm_angle,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (player_id, season, pitch_type) DO UPDATE SET
			pitch_name = EXCLUDED.pitch_name,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			n_pitches = EXCLUDED.n_pitches,
			metrics = EXCLUDED.metrics,
			is_starter = EXCLUDED.is_starter,
			arm_angle = EXCLUDED.arm_angle,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for i := range rows {
		row := &rows[i]

		metricsJSON, err := json.Marshal(row.Metrics)
		if err != nil {
			return fmt.Errorf("marshal pitch metrics for %d/%d/%s: %w", row.PlayerID, row.Season, row.PitchType, err)
		}

		batch.Queue(query,
			row.PlayerID, row.Season, row.PitchType, row.PitchName,
			row.FirstName, row.LastName,
			row.NumPitches, metricsJSON, row.IsStarter, row.ArmAngle,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert pitch row: %w", err)
		}
	}
	return nil
}

// LoadPitchRows loads all per-pitch-type rows
func (r *Repository) LoadPitchRows(ctx context.Context) ([]contracts.PitchTypeRow, error) {
	query := `
		SELECT player_id, season, pitch_type, pitch_name,
		       first_name, last_name,
		       n_pitches, metrics, is_starter, arm_angle
		FROM comps.pitch_types
		ORDER BY season, player_id, pitch_type
	`

	dbRows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query pitch rows: %w", err)
	}
	defer dbRows.Close()

	var rows []contracts.PitchTypeRow
	for dbRows.Next() {
		var row contracts.PitchTypeRow
		var metricsJSON []byte

		if err := dbRows.Scan(
			&row.PlayerID, &row.Season, &row.PitchType, &row.PitchName,
			&row.FirstName, &row.LastName,
			&row.NumPitches, &metricsJSON, &row.IsStarter, &row.ArmAngle,
		); err != nil {
			return nil, fmt.Errorf("scan pitch row: %w", err)
		}

		if err := json.Unmarshal(metricsJSON, &row.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal pitch metrics for %d/%d/%s: %w", row.PlayerID, row.Season, row.PitchType, err)
		}

		rows = append(rows, row)
	}
	return rows, dbRows.Err()
}

// StartBuild records the start of a dataset build and returns its id
func (r *Repository) StartBuild(ctx context.Context, playerType string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO comps.dataset_builds (player_type, started_at, status)
		VALUES ($1, NOW(), 'running')
		RETURNING id
	`, playerType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert build record: %w", err)
	}
	return id, nil
}

// FinishBuild marks a build as completed or failed
func (r *Repository) FinishBuild(ctx context.Context, id int64, rows int, buildErr error) error {
	status := "completed"
	errMsg := ""
	if buildErr != nil {
		status = "failed"
		errMsg = buildErr.Error()
	}

	_, err := r.db.Exec(ctx, `
		UPDATE comps.dataset_builds
		SET finished_at = NOW(), status = $2, rows = $3, error = NULLIF($4, '')
		WHERE id = $1
	`, id, status, rows, errMsg)
	if err != nil {
		return fmt.Errorf("update build record: %w", err)
	}
	return nil
}

// LatestBuild returns the most recent build record for a player type, or
// nil when none exists.
func (r *Repository) LatestBuild(ctx context.Context, playerType string) (*BuildRecord, error) {
	var rec BuildRecord
	var errMsg *string

	err := r.db.QueryRow(ctx, `
		SELECT id, player_type, started_at, finished_at, status, rows, error
		FROM comps.dataset_builds
		WHERE player_type = $1
		ORDER BY started_at DESC
		LIMIT 1
	`, playerType).Scan(
		&rec.ID, &rec.PlayerType, &rec.StartedAt, &rec.FinishedAt,
		&rec.Status, &rec.Rows, &errMsg,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest build: %w", err)
	}

	if errMsg != nil {
		rec.Error = *errMsg
	}
	return &rec, nil
}

// SeasonRowCount returns the number of stored rows per player type
func (r *Repository) SeasonRowCount(ctx context.Context, playerType contracts.PlayerType) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comps.player_seasons WHERE player_type = $1`,
		string(playerType),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count player seasons: %w", err)
	}
	return count, nil
}
