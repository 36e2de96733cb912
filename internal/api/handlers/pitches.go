package handlers

import (
	"net/http"

	"github.com/wonny/comps/internal/similarity"
	"github.com/wonny/comps/pkg/logger"
)

// PitchHandler serves pitch arsenals and per-pitch-type comps
type PitchHandler struct {
	provider *similarity.Provider
	logger   *logger.Logger
}

// NewPitchHandler creates a pitch handler
func NewPitchHandler(provider *similarity.Provider, log *logger.Logger) *PitchHandler {
	return &PitchHandler{provider: provider, logger: log}
}

// Pitches returns every pitch type a pitcher threw in a season
// GET /api/pitchers/{id}/seasons/{season}/pitches
func (h *PitchHandler) Pitches(w http.ResponseWriter, r *http.Request) {
	playerID, season, ok := pathPlayerSeason(w, r)
	if !ok {
		return
	}
	engine, ok := h.engine(w)
	if !ok {
		return
	}

	info := engine.GetPitcherInfo(playerID, season)
	if info == nil {
		respondError(w, http.StatusNotFound, "Pitcher season not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pitcher": info,
		"pitches": engine.GetPitcherPitches(playerID, season),
	})
}

// PitchComps returns the best matching pitches per pitch type
// GET /api/pitchers/{id}/seasons/{season}/pitch-comps?top_n=5
func (h *PitchHandler) PitchComps(w http.ResponseWriter, r *http.Request) {
	playerID, season, ok := pathPlayerSeason(w, r)
	if !ok {
		return
	}
	engine, ok := h.engine(w)
	if !ok {
		return
	}

	topN := queryInt(r, "top_n", 5)
	comps := engine.FindSimilarPitches(playerID, season, topN)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"season":    season,
		"comps":     comps,
	})
}

func (h *PitchHandler) engine(w http.ResponseWriter) (*similarity.PitchEngine, bool) {
	engine := h.provider.Pitch()
	if engine == nil {
		respondError(w, http.StatusServiceUnavailable, "Pitch dataset not loaded yet")
		return nil, false
	}
	return engine, true
}
