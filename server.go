package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// LegendEntry describes one layer of the rendered frame
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var legend = []LegendEntry{
	{Label: "Start Position", Color: colorStart},
	{Label: "Goal Region", Color: colorGoal},
	{Label: "Obstacles", Color: colorObstacle},
	{Label: "Solution Path", Color: colorPath},
}

// Server exposes a Session over HTTP
type Server struct {
	session  *Session
	metrics  *Metrics
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the HTTP handler for the session.
// metrics may be nil, in which case /metrics is not mounted.
func NewHandler(session *Session, metrics *Metrics, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = newNopLogger()
	}
	s := &Server{
		session: session,
		metrics: metrics,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", s.healthHandler)
	r.Get("/config", s.getConfigHandler)
	r.Put("/config", s.putConfigHandler)
	r.Post("/plan", s.planHandler)
	r.Get("/status", s.statusHandler)
	r.Get("/scene", s.sceneHandler)
	r.Get("/scene.png", s.frameHandler)
	r.Get("/legend", s.legendHandler)
	r.Get("/ws", s.websocketHandler)
	if metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	return r
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	st := s.session.Status()
	status := "ready"
	if st.Planning {
		status = "planning"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"planning": st.Planning,
	})
}

// GET /config - Current planner settings
func (s *Server) getConfigHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings":   s.session.Settings(),
		"algorithms": Algorithms,
	})
}

// PUT /config - Replace planner settings
func (s *Server) putConfigHandler(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.logger.Warn("invalid config body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Start from the current settings so partial updates keep other fields
	settings := s.session.Settings()
	if err := decodeSettings(raw, &settings); err != nil {
		s.logger.Warn("invalid config values", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.session.UpdateSettings(settings); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

// POST /plan - Start a planning job with the current settings
func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	id, err := s.session.Plan()
	if errors.Is(err, ErrPlanningInProgress) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("plan request failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

// GET /status - Planning flag, path statistics and the last result
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Status())
}

// GET /scene - The static scene description
func (s *Server) sceneHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.scene)
}

// GET /scene.png - The latest rendered frame
func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(s.session.Frame()); err != nil {
		s.logger.Debug("frame write failed", "error", err)
	}
}

// GET /legend - Layer colours
func (s *Server) legendHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, legend)
}

// GET /ws - Pushes every job result to the viewer as JSON
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no result is missed
	results, cancel := s.session.Subscribe()
	defer cancel()

	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer c.Close()

	// Reading is mandatory to notice when the viewer closes the socket
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case result, ok := <-results:
			if !ok {
				return
			}
			c.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.WriteJSON(result); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
