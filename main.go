package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	evaluate := flag.Bool("evaluate", false, "run the offline evaluation over predefined profiles and exit")
	topK := flag.Int("top-k", 8, "recommendations per profile in evaluation mode")
	flag.Parse()

	cfg := LoadConfig()
	logger := newLogger(cfg)

	// One-shot initialization: the snapshot must be fully built before
	// any request is served.
	holder := &SnapshotHolder{}
	snap, err := holder.InitFromFile(cfg.CoursesPath, cfg.Graph)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CoursesPath).Msg("failed to load course data")
	}
	nodes, edges, avgDegree := GraphStats(snap.Graph)
	logger.Info().
		Int("courses", len(snap.Courses)).
		Int("nodes", nodes).
		Int("edges", edges).
		Float64("avg_degree", avgDegree).
		Msg("course graph built")

	if cfg.GraphExport != "" {
		if err := SaveGraphJSON(snap.Graph, cfg.GraphExport); err != nil {
			logger.Warn().Err(err).Str("path", cfg.GraphExport).Msg("failed to export graph")
		} else {
			logger.Info().Str("path", cfg.GraphExport).Msg("graph exported")
		}
	}

	if *evaluate {
		if err := RunEvaluation(cfg, snap, *topK, logger); err != nil {
			logger.Fatal().Err(err).Msg("evaluation failed")
		}
		return
	}

	runStore, err := OpenRunStore(cfg.RunsDBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.RunsDBPath).Msg("failed to open run store")
	}
	defer runStore.Close()

	llm := NewLLMClient(cfg.LLM, logger)
	service := NewAdvisorService(holder, llm, runStore, logger)
	handler := &apiHandler{service: service, holder: holder, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/api/v1/health", handler.health)
	r.Get("/api/v1/courses", handler.listCourses)
	r.Get("/api/v1/courses/{code}", handler.getCourse)
	r.Post("/api/v1/rank", handler.rank)
	r.Post("/api/v1/chat", handler.chat)
	r.Get("/api/v1/runs/{id}", handler.getRun)
	r.Get("/api/v1/graph/stats", handler.graphStats)
	r.Post("/api/v1/graph/view", handler.graphView)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info().Str("port", cfg.ServerPort).Msg("starting course advisor API")
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(cfg *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.LogJSON {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
}

// requestLogger logs every request and feeds the per-route counter.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			httpRequests.WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).Inc()
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type apiHandler struct {
	service *AdvisorService
	holder  *SnapshotHolder
	logger  zerolog.Logger
}

func (h *apiHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "Course Advisor API",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *apiHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	snap, err := h.holder.Load()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_INITIALIZED", err.Error())
		return
	}

	q := strings.ToLower(r.URL.Query().Get("q"))
	group := r.URL.Query().Get("group")
	semester := r.URL.Query().Get("semester")

	filtered := make([]Course, 0, len(snap.Courses))
	for _, c := range snap.Courses {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		if group != "" && c.Group != group {
			continue
		}
		if semester != "" && strconv.Itoa(c.Semester) != semester {
			continue
		}
		filtered = append(filtered, c)
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (h *apiHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	snap, err := h.holder.Load()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_INITIALIZED", err.Error())
		return
	}

	code := chi.URLParam(r, "code")
	course, ok := snap.ByCode[code]
	if !ok {
		writeError(w, http.StatusNotFound, "COURSE_NOT_FOUND", fmt.Sprintf("no course with code %q", code))
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *apiHandler) rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}
	if req.TopK == 0 {
		req.TopK = 10
	}

	ranked, err := h.service.Rank(req.Profile, req.TopK)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_INITIALIZED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (h *apiHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "MISSING_REQUIRED_FIELD", "messages is required")
		return
	}

	resp, err := h.service.Chat(req)
	if err != nil {
		h.logger.Error().Err(err).Msg("chat turn failed")
		writeError(w, http.StatusInternalServerError, "CHAT_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *apiHandler) getRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	record, err := h.service.runs.GetRun(runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "RUN_LOOKUP_FAILED", err.Error())
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "RUN_NOT_FOUND", fmt.Sprintf("no run with id %q", runID))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *apiHandler) graphStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.holder.Load()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_INITIALIZED", err.Error())
		return
	}
	nodes, edges, avgDegree := GraphStats(snap.Graph)
	writeJSON(w, http.StatusOK, GraphStatsResponse{Nodes: nodes, Edges: edges, AvgDegree: avgDegree})
}

type graphViewRequest struct {
	RecommendedCodes []string `json:"recommended_codes"`
	MaxNeighbors     int      `json:"max_neighbors,omitempty"`
	NodeCap          int      `json:"node_cap,omitempty"`
	EdgeCap          int      `json:"edge_cap,omitempty"`
}

func (h *apiHandler) graphView(w http.ResponseWriter, r *http.Request) {
	var req graphViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}

	view, err := h.service.View(req.RecommendedCodes, req.MaxNeighbors, req.NodeCap, req.EdgeCap)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_INITIALIZED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"status":     "error",
		"error_code": code,
		"message":    message,
	})
}
