package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/comps/internal/api/handlers"
	"github.com/wonny/comps/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	playerHandler *handlers.PlayerHandler,
	pitchHandler *handlers.PitchHandler,
	datasetHandler *handlers.DatasetHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Player and comp endpoints
	api.HandleFunc("/players/search", playerHandler.Search).Methods("GET")
	api.HandleFunc("/players/{id:[0-9]+}/seasons/{season:[0-9]+}", playerHandler.GetSeason).Methods("GET")
	api.HandleFunc("/players/{id:[0-9]+}/seasons/{season:[0-9]+}/comps", playerHandler.Comps).Methods("GET")

	// Pitch-level endpoints
	api.HandleFunc("/pitchers/{id:[0-9]+}/seasons/{season:[0-9]+}/pitches", pitchHandler.Pitches).Methods("GET")
	api.HandleFunc("/pitchers/{id:[0-9]+}/seasons/{season:[0-9]+}/pitch-comps", pitchHandler.PitchComps).Methods("GET")

	// Dataset lifecycle
	api.HandleFunc("/dataset/build", datasetHandler.Build).Methods("POST")
	api.HandleFunc("/dataset/status", datasetHandler.GetStatus).Methods("GET")
	api.HandleFunc("/dataset/build/progress", datasetHandler.StreamProgress).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "comps-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
