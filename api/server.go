package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/maze-engine/game/maze"
	"github.com/wricardo/maze-engine/game/service"
	"github.com/wricardo/maze-engine/transport/websocket"
)

// maxReplayInterval bounds the delay a client may request between replayed steps
const maxReplayInterval = 5 * time.Second

// Server represents the REST API server
type Server struct {
	service service.MazeService
	hub     *websocket.Hub
	router  *mux.Router

	// ctx outlives requests and bounds background replays
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new API server. hub may be nil, which disables /ws and replays.
func NewServer(mazeService service.MazeService, hub *websocket.Hub) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		service: mazeService,
		hub:     hub,
		router:  mux.NewRouter(),
		ctx:     ctx,
		cancel:  cancel,
	}

	s.setupRoutes()
	return s
}

// Close stops background replays
func (s *Server) Close() {
	s.cancel()
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Maze management
	api.HandleFunc("/mazes", s.handleCreateMaze).Methods("POST")
	api.HandleFunc("/mazes", s.handleListMazes).Methods("GET")
	api.HandleFunc("/mazes/{id}", s.handleGetMaze).Methods("GET")
	api.HandleFunc("/mazes/{id}", s.handleDeleteMaze).Methods("DELETE")

	// Solving
	api.HandleFunc("/mazes/{id}/solve", s.handleSolve).Methods("POST", "GET")
	api.HandleFunc("/mazes/{id}/trace", s.handleTrace).Methods("GET")
	api.HandleFunc("/mazes/{id}/render", s.handleRender).Methods("GET")
	api.HandleFunc("/mazes/{id}/replay", s.handleReplay).Methods("POST")
	api.HandleFunc("/mazes/{id}/check", s.handleCheckPath).Methods("POST")

	// Presets
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets", s.handleCreatePreset).Methods("POST")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Operations
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and engine errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, maze.ErrInvalidSize),
		errors.Is(err, maze.ErrInvalidPreset),
		errors.Is(err, maze.ErrUnknownStrategy),
		errors.Is(err, service.ErrInvalidMove):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Maze Handlers

func (s *Server) handleCreateMaze(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMazeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	info, err := s.service.CreateMaze(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[CREATE] maze=%s preset=%s size=%d seed=%d strategy=%s",
		info.ID, info.Params.Preset, info.Params.Size, info.Params.Seed, info.Params.Strategy)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListMazes(w http.ResponseWriter, r *http.Request) {
	mazes, err := s.service.ListMazes(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of mazes to return

	// Set defaults
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(mazes, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = mazes[i].CreatedAt, mazes[j].CreatedAt
		} else { // "accessed"
			ti, tj = mazes[i].LastAccessedAt, mazes[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	total := len(mazes)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(mazes) {
			mazes = mazes[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(mazes),
		"total": total,
		"mazes": mazes,
		"sort":  sortBy,
		"order": order,
	})
}

func (s *Server) handleGetMaze(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetMaze(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteMaze(w http.ResponseWriter, r *http.Request) {
	mazeID := mux.Vars(r)["id"]

	if err := s.service.DeleteMaze(r.Context(), mazeID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		if err := s.hub.BroadcastEvent(r.Context(), mazeID, "deleted", nil); err != nil {
			log.Printf("[DELETE] Failed to notify watchers of maze %s: %v", mazeID, err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Maze %s deleted", mazeID),
	})
}

// Solving Handlers

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	mazeID := mux.Vars(r)["id"]

	result, err := s.service.Solve(r.Context(), mazeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[SOLVE] maze=%s length=%d steps=%d backtracks=%d cached=%t elapsed=%.3fms",
		mazeID, result.Length, result.Steps, result.Backtracks, result.Cached, result.ElapsedMs)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	mazeID := mux.Vars(r)["id"]

	opts := service.TraceOptions{Page: 1}
	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	trace, err := s.service.Trace(r.Context(), mazeID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, trace)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	mazeID := mux.Vars(r)["id"]
	withPath, _ := strconv.ParseBool(r.URL.Query().Get("path"))

	drawing, err := s.service.Render(r.Context(), mazeID, withPath)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, drawing)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	mazeID := mux.Vars(r)["id"]
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "WebSocket hub is not enabled")
		return
	}

	var req struct {
		IntervalMs int `json:"interval_ms"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	interval := time.Duration(req.IntervalMs) * time.Millisecond
	if interval < 0 || interval > maxReplayInterval {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("interval_ms must be between 0 and %d", maxReplayInterval.Milliseconds()))
		return
	}

	// Fail fast on unknown or unsolvable mazes before going async
	result, err := s.service.Solve(r.Context(), mazeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if interval == 0 {
		sent, err := s.service.Replay(r.Context(), mazeID, 0, s.hub)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Replay sent",
			"steps":   sent,
		})
		return
	}

	go func() {
		sent, err := s.service.Replay(s.ctx, mazeID, interval, s.hub)
		if err != nil {
			log.Printf("[REPLAY] maze=%s stopped after %d steps: %v", mazeID, sent, err)
			return
		}
		log.Printf("[REPLAY] maze=%s finished %d steps", mazeID, sent)
	}()

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":     "Replay started",
		"steps":       result.Steps,
		"interval_ms": req.IntervalMs,
	})
}

func (s *Server) handleCheckPath(w http.ResponseWriter, r *http.Request) {
	mazeID := mux.Vars(r)["id"]

	var req struct {
		Moves []string `json:"moves"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	check, err := s.service.CheckPath(r.Context(), mazeID, req.Moves)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, check)
}

// Preset Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	preset, err := s.service.LoadPreset(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var preset maze.Preset
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if preset.Name == "" {
		respondError(w, http.StatusBadRequest, "Preset name is required")
		return
	}

	if err := s.service.SavePreset(r.Context(), preset.Name, &preset); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save preset: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Preset saved successfully",
		"preset_id": preset.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "WebSocket hub is not enabled", http.StatusServiceUnavailable)
		return
	}

	mazeID := r.URL.Query().Get("maze")
	if mazeID == "" {
		http.Error(w, "maze parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetMaze(r.Context(), mazeID); err != nil {
		http.Error(w, "Invalid maze", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, mazeID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
