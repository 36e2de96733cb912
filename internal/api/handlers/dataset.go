package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/comps/internal/dataset"
	"github.com/wonny/comps/pkg/logger"
)

// buildTimeout bounds a background dataset build
const buildTimeout = 2 * time.Hour

// DatasetHandler serves the dataset build lifecycle
type DatasetHandler struct {
	refresher *dataset.Refresher
	hub       *ProgressHub
	logger    *logger.Logger
}

// NewDatasetHandler creates a dataset handler and wires build progress
// into the websocket hub.
func NewDatasetHandler(refresher *dataset.Refresher, log *logger.Logger) *DatasetHandler {
	h := &DatasetHandler{
		refresher: refresher,
		hub:       NewProgressHub(log),
		logger:    log,
	}
	refresher.OnProgress = h.hub.Publish
	return h
}

// Build starts a dataset refresh in the background
// POST /api/dataset/build
func (h *DatasetHandler) Build(w http.ResponseWriter, r *http.Request) {
	if h.refresher.Running() {
		respondError(w, http.StatusConflict, "A dataset build is already running")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
		defer cancel()

		if err := h.refresher.Refresh(ctx); err != nil {
			h.logger.WithError(err).Error("Dataset build failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "started",
		"message": "Dataset build running; follow /api/dataset/build/progress",
	})
}

// GetStatus reports stored row counts and recent builds
// GET /api/dataset/status
func (h *DatasetHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.refresher.Status(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get dataset status")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve dataset status")
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// StreamProgress streams build progress events over a websocket
// GET /api/dataset/build/progress
func (h *DatasetHandler) StreamProgress(w http.ResponseWriter, r *http.Request) {
	h.hub.Serve(w, r)
}

// ProgressHub fans build progress events out to websocket subscribers
type ProgressHub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewProgressHub creates an empty hub
func NewProgressHub(log *logger.Logger) *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Progress is broadcast-only telemetry, cross-origin reads are fine
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Serve upgrades the connection and keeps it registered until the client
// goes away.
func (h *ProgressHub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Debug("Progress subscriber connected")

	// Drain reads to notice the close handshake
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends an event to every subscriber, dropping dead connections
func (h *ProgressHub) Publish(event dataset.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *ProgressHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
		h.logger.Debug("Progress subscriber disconnected")
	}
}
