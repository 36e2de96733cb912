package similarity

import (
	"fmt"
	"sync"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/internal/metrics"
	"github.com/wonny/comps/pkg/logger"
)

// Provider holds the currently live engines and swaps them atomically
// after a dataset rebuild. Readers always see a fully fitted engine or
// nil, never a half-built one.
type Provider struct {
	mu      sync.RWMutex
	batter  *SeasonEngine
	pitcher *SeasonEngine
	pitch   *PitchEngine
	log     *logger.Logger
}

// NewProvider creates an empty engine provider
func NewProvider(log *logger.Logger) *Provider {
	return &Provider{log: log}
}

// Load fits fresh engines over the given tables and swaps them in. Empty
// tables leave the corresponding engine unset rather than failing the
// whole load.
func (p *Provider) Load(batters, pitchers []contracts.PlayerSeasonRow, pitches []contracts.PitchTypeRow) error {
	var batterEng, pitcherEng *SeasonEngine
	var pitchEng *PitchEngine
	var err error

	if len(batters) > 0 {
		if batterEng, err = NewSeasonEngine(batters, metrics.BatterConfig(), p.log); err != nil {
			return fmt.Errorf("fit batter engine: %w", err)
		}
	}
	if len(pitchers) > 0 {
		if pitcherEng, err = NewSeasonEngine(pitchers, metrics.PitcherConfig(), p.log); err != nil {
			return fmt.Errorf("fit pitcher engine: %w", err)
		}
	}
	if len(pitches) > 0 {
		opts := PitchOptions{
			MinCompPitches: metrics.MinCompPitches,
			QualityMetric:  metrics.PitchQualityMetric,
		}
		if pitchEng, err = NewPitchEngine(pitches, metrics.PitchConfig(), opts, p.log); err != nil {
			return fmt.Errorf("fit pitch engine: %w", err)
		}
	}

	p.mu.Lock()
	p.batter = batterEng
	p.pitcher = pitcherEng
	p.pitch = pitchEng
	p.mu.Unlock()

	p.log.WithFields(map[string]interface{}{
		"batter_rows":  len(batters),
		"pitcher_rows": len(pitchers),
		"pitch_rows":   len(pitches),
	}).Info("Similarity engines loaded")
	return nil
}

// Season returns the live season engine for a player type, or nil when no
// dataset has been loaded yet.
func (p *Provider) Season(playerType contracts.PlayerType) *SeasonEngine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if playerType == contracts.Pitcher {
		return p.pitcher
	}
	return p.batter
}

// Pitch returns the live pitch engine, or nil when unloaded
func (p *Provider) Pitch() *PitchEngine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pitch
}

// Ready reports whether any engine is loaded
func (p *Provider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.batter != nil || p.pitcher != nil || p.pitch != nil
}
