package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/internal/similarity"
	"github.com/wonny/comps/pkg/logger"
)

// ProgressEvent is one step of a dataset refresh, published to listeners
// (the build-progress stream).
type ProgressEvent struct {
	Stage      string    `json:"stage"` // building, saving, fitting, done, failed
	PlayerType string    `json:"player_type,omitempty"`
	Rows       int       `json:"rows,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Status summarizes the stored dataset and the latest build per table
type Status struct {
	BatterRows   int           `json:"batter_rows"`
	PitcherRows  int           `json:"pitcher_rows"`
	Running      bool          `json:"running"`
	LatestBuilds []BuildRecord `json:"latest_builds,omitempty"`
}

// Refresher orchestrates a full dataset refresh: build from upstream,
// persist, and refit the live engines.
type Refresher struct {
	builder  *Builder
	repo     *Repository
	provider *similarity.Provider
	logger   *logger.Logger

	// OnProgress, when set, receives refresh progress events
	OnProgress func(ProgressEvent)

	mu      sync.Mutex
	running bool
}

// NewRefresher creates a refresher
func NewRefresher(builder *Builder, repo *Repository, provider *similarity.Provider, log *logger.Logger) *Refresher {
	return &Refresher{
		builder:  builder,
		repo:     repo,
		provider: provider,
		logger:   log,
	}
}

// Running reports whether a refresh is in flight
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Refresh rebuilds every table and swaps the engines. Only one refresh
// runs at a time; a second call fails fast.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("dataset refresh already running")
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	r.logger.Info("Dataset refresh started")

	batters, err := r.buildAndSave(ctx, contracts.Batter, func(ctx context.Context) ([]contracts.PlayerSeasonRow, error) {
		return r.builder.BuildBatterSeasons(ctx)
	})
	if err != nil {
		r.notify(ProgressEvent{Stage: "failed", PlayerType: string(contracts.Batter), Error: err.Error(), At: time.Now()})
		return fmt.Errorf("refresh batters: %w", err)
	}

	pitchers, err := r.buildAndSave(ctx, contracts.Pitcher, func(ctx context.Context) ([]contracts.PlayerSeasonRow, error) {
		return r.builder.BuildPitcherSeasons(ctx)
	})
	if err != nil {
		r.notify(ProgressEvent{Stage: "failed", PlayerType: string(contracts.Pitcher), Error: err.Error(), At: time.Now()})
		return fmt.Errorf("refresh pitchers: %w", err)
	}

	pitches, err := r.buildPitches(ctx, pitchers)
	if err != nil {
		r.notify(ProgressEvent{Stage: "failed", PlayerType: "pitch", Error: err.Error(), At: time.Now()})
		return fmt.Errorf("refresh pitches: %w", err)
	}

	r.notify(ProgressEvent{Stage: "fitting", At: time.Now()})
	if err := r.provider.Load(batters, pitchers, pitches); err != nil {
		r.notify(ProgressEvent{Stage: "failed", Error: err.Error(), At: time.Now()})
		return fmt.Errorf("reload engines: %w", err)
	}

	r.notify(ProgressEvent{Stage: "done", At: time.Now()})
	r.logger.WithField("duration", time.Since(start)).Info("Dataset refresh finished")
	return nil
}

// LoadFromStore fits engines from previously persisted tables, used at
// startup so the service comes up without hitting upstream sources.
func (r *Refresher) LoadFromStore(ctx context.Context) error {
	batters, err := r.repo.LoadSeasonRows(ctx, contracts.Batter)
	if err != nil {
		return fmt.Errorf("load batter rows: %w", err)
	}
	pitchers, err := r.repo.LoadSeasonRows(ctx, contracts.Pitcher)
	if err != nil {
		return fmt.Errorf("load pitcher rows: %w", err)
	}
	pitches, err := r.repo.LoadPitchRows(ctx)
	if err != nil {
		return fmt.Errorf("load pitch rows: %w", err)
	}

	if len(batters) == 0 && len(pitchers) == 0 && len(pitches) == 0 {
		r.logger.Warn("No stored dataset; engines stay unloaded until a build runs")
		return nil
	}

	return r.provider.Load(batters, pitchers, pitches)
}

// Status reports stored row counts, the running flag, and recent builds
func (r *Refresher) Status(ctx context.Context) (*Status, error) {
	st := &Status{Running: r.Running()}

	var err error
	if st.BatterRows, err = r.repo.SeasonRowCount(ctx, contracts.Batter); err != nil {
		return nil, err
	}
	if st.PitcherRows, err = r.repo.SeasonRowCount(ctx, contracts.Pitcher); err != nil {
		return nil, err
	}

	for _, pt := range []string{string(contracts.Batter), string(contracts.Pitcher), "pitch"} {
		rec, err := r.repo.LatestBuild(ctx, pt)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			st.LatestBuilds = append(st.LatestBuilds, *rec)
		}
	}
	return st, nil
}

func (r *Refresher) buildAndSave(
	ctx context.Context,
	playerType contracts.PlayerType,
	build func(context.Context) ([]contracts.PlayerSeasonRow, error),
) ([]contracts.PlayerSeasonRow, error) {
	r.notify(ProgressEvent{Stage: "building", PlayerType: string(playerType), At: time.Now()})

	buildID, err := r.repo.StartBuild(ctx, string(playerType))
	if err != nil {
		return nil, err
	}

	rows, err := build(ctx)
	if err != nil {
		_ = r.repo.FinishBuild(ctx, buildID, 0, err)
		return nil, err
	}

	r.notify(ProgressEvent{Stage: "saving", PlayerType: string(playerType), Rows: len(rows), At: time.Now()})
	if err := r.repo.SaveSeasonRows(ctx, playerType, rows); err != nil {
		_ = r.repo.FinishBuild(ctx, buildID, 0, err)
		return nil, err
	}

	if err := r.repo.FinishBuild(ctx, buildID, len(rows), nil); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Refresher) buildPitches(ctx context.Context, pitchers []contracts.PlayerSeasonRow) ([]contracts.PitchTypeRow, error) {
	r.notify(ProgressEvent{Stage: "building", PlayerType: "pitch", At: time.Now()})

	buildID, err := r.repo.StartBuild(ctx, "pitch")
	if err != nil {
		return nil, err
	}

	rows, err := r.builder.BuildPitchSeasons(ctx, pitchers)
	if err != nil {
		_ = r.repo.FinishBuild(ctx, buildID, 0, err)
		return nil, err
	}

	r.notify(ProgressEvent{Stage: "saving", PlayerType: "pitch", Rows: len(rows), At: time.Now()})
	if err := r.repo.SavePitchRows(ctx, rows); err != nil {
		_ = r.repo.FinishBuild(ctx, buildID, 0, err)
		return nil, err
	}

	if err := r.repo.FinishBuild(ctx, buildID, len(rows), nil); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Refresher) notify(event ProgressEvent) {
	if r.OnProgress != nil {
		r.OnProgress(event)
	}
}
