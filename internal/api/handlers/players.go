package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/comps/internal/contracts"
	"github.com/wonny/comps/internal/similarity"
	"github.com/wonny/comps/pkg/logger"
)

const defaultTopN = 10

// PlayerHandler serves player search, season profiles, and comps
type PlayerHandler struct {
	provider *similarity.Provider
	logger   *logger.Logger
}

// NewPlayerHandler creates a player handler
func NewPlayerHandler(provider *similarity.Provider, log *logger.Logger) *PlayerHandler {
	return &PlayerHandler{provider: provider, logger: log}
}

// Search finds players by name substring
// GET /api/players/search?q=judge&type=batter
func (h *PlayerHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter q")
		return
	}

	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"players": engine.SearchPlayers(query),
	})
}

// GetSeason returns one player-season profile with percentiles
// GET /api/players/{id}/seasons/{season}?type=batter
func (h *PlayerHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	playerID, season, ok := pathPlayerSeason(w, r)
	if !ok {
		return
	}
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	profile := engine.GetPlayerSeason(playerID, season)
	if profile == nil {
		respondError(w, http.StatusNotFound, "Player season not found")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Comps returns the most similar player-seasons
// GET /api/players/{id}/seasons/{season}/comps?type=batter&top_n=10&exclude_same_player=true
func (h *PlayerHandler) Comps(w http.ResponseWriter, r *http.Request) {
	playerID, season, ok := pathPlayerSeason(w, r)
	if !ok {
		return
	}
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	topN := queryInt(r, "top_n", defaultTopN)
	excludeSame := queryBool(r, "exclude_same_player", true)

	comps := engine.FindSimilar(playerID, season, topN, excludeSame)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"season":    season,
		"comps":     comps,
	})
}

// engine resolves the ?type= query parameter to a live season engine
func (h *PlayerHandler) engine(w http.ResponseWriter, r *http.Request) (*similarity.SeasonEngine, bool) {
	playerType := contracts.PlayerType(r.URL.Query().Get("type"))
	if playerType == "" {
		playerType = contracts.Batter
	}
	if !playerType.Valid() {
		respondError(w, http.StatusBadRequest, "type must be batter or pitcher")
		return nil, false
	}

	engine := h.provider.Season(playerType)
	if engine == nil {
		respondError(w, http.StatusServiceUnavailable, "Dataset not loaded yet")
		return nil, false
	}
	return engine, true
}

func pathPlayerSeason(w http.ResponseWriter, r *http.Request) (playerID, season int, ok bool) {
	vars := mux.Vars(r)

	playerID, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player id")
		return 0, 0, false
	}
	season, err = strconv.Atoi(vars["season"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season")
		return 0, 0, false
	}
	return playerID, season, true
}

func queryInt(r *http.Request, name string, defaultVal int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultVal
}

func queryBool(r *http.Request, name string, defaultVal bool) bool {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return defaultVal
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
