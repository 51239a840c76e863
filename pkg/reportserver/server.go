// Package reportserver serves previously written evaluation reports over
// HTTP: a small JSON API plus an embedded HTML index for browsing them.
package reportserver

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skilleval/pkg/logger"
)

//go:embed index.html
var indexHTML []byte

// Config holds the configuration for the report server
type Config struct {
	Host       string
	Port       int
	ReportsDir string
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ReportsDir == "" {
		return errors.New("reports directory cannot be empty")
	}
	info, err := os.Stat(c.ReportsDir)
	if err != nil {
		return errors.Wrapf(err, "reports directory %s is not accessible", c.ReportsDir)
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", c.ReportsDir)
	}
	return nil
}

// Server serves evaluation reports from a directory of JSON files
type Server struct {
	router *mux.Router
	config *Config
	server *http.Server
}

// reportListEntry is the summary form returned by the list endpoint.
type reportListEntry struct {
	SkillID     string  `json:"skill_id"`
	Badge       string  `json:"badge"`
	Overall     float64 `json:"overall"`
	EvaluatedAt string  `json:"evaluated_at"`
}

// NewServer creates a report server for the given configuration
func NewServer(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router: mux.NewRouter(),
		config: config,
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/reports", s.handleListReports).Methods("GET")
	api.HandleFunc("/reports/{id}", s.handleGetReport).Methods("GET")

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")

	s.router.Use(s.loggingMiddleware)
}

// Start runs the HTTP server until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.G(ctx).WithField("addr", addr).Info("report server listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler exposes the router for testing
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.loadReports(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	entries := make([]reportListEntry, 0, len(reports))
	for _, report := range reports {
		entry := reportListEntry{
			SkillID:     asString(report["skill_id"]),
			Badge:       asString(report["badge"]),
			EvaluatedAt: asString(report["evaluated_at"]),
		}
		if scores, ok := report["scores"].(map[string]any); ok {
			if overall, ok := scores["overall"].(float64); ok {
				entry.Overall = overall
			}
		}
		entries = append(entries, entry)
	}

	s.writeJSON(w, entries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// Report files are named by skill ID; reject anything path-like.
	if strings.ContainsAny(id, "/\\") || id == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid report id"))
		return
	}

	report, err := s.loadReport(filepath.Join(s.config.ReportsDir, id+".json"))
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			s.writeError(w, http.StatusNotFound, errors.Errorf("report %s not found", id))
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, report)
}

func (s *Server) loadReports(ctx context.Context) ([]map[string]any, error) {
	entries, err := os.ReadDir(s.config.ReportsDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read reports directory")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	reports := make([]map[string]any, 0, len(names))
	for _, name := range names {
		report, err := s.loadReport(filepath.Join(s.config.ReportsDir, name))
		if err != nil {
			logger.G(ctx).WithError(err).WithField("file", name).Warn("skipping unreadable report")
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *Server) loadReport(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read report %s", path)
	}

	var report map[string]any
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, errors.Wrapf(err, "failed to decode report %s", path)
	}
	return report, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.G(r.Context()).WithFields(map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("handled request")
	})
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
