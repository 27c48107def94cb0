// Package dashboard serves the board over HTTP: an HTML overview, JSON
// APIs for tasks, projects and timelines, CSV downloads and reload events.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/timeboard/pkg/application"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/export"
	"github.com/felixgeelhaar/timeboard/pkg/filter"
	"github.com/felixgeelhaar/timeboard/pkg/timeline"
)

//go:embed templates/*
var templatesFS embed.FS

// DataProvider is the board service as seen by the dashboard.
type DataProvider interface {
	Snapshot() (*application.Snapshot, error)
	Load(ctx context.Context) (*application.Snapshot, error)
	Tasks(spec filter.Spec) ([]board.Task, error)
	Projects(spec filter.Spec) ([]board.Project, error)
	Options() (filter.Options, error)
	Diagnostics() ([]board.Diagnostic, error)
	TaskTimeline(spec filter.Spec) (timeline.View, error)
	ProjectTimeline(spec filter.Spec) (timeline.View, error)
	ExportTasks(w io.Writer, spec filter.Spec) (int, error)
	ExportProjects(w io.Writer, spec filter.Spec) (int, error)
	ExportFileName(kind string) string
}

// Server is the dashboard HTTP server.
type Server struct {
	addr     string
	provider DataProvider
	events   http.Handler
	logger   *slog.Logger
	server   *http.Server
	tmpl     *template.Template
}

type Option func(*Server)

// WithEvents mounts an event stream handler at /events.
func WithEvents(h http.Handler) Option {
	return func(s *Server) {
		s.events = h
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new dashboard server.
func NewServer(addr string, provider DataProvider, opts ...Option) (*Server, error) {
	funcMap := template.FuncMap{
		"statusClass": statusClass,
		"formatDate":  export.FormatDate,
		"formatTime":  formatTime,
		"kindLabel":   func(k board.Kind) string { return k.DisplayName() },
		"json":        toJSON,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		addr:     addr,
		provider: provider,
		logger:   slog.Default(),
		tmpl:     tmpl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/tasks", s.handleAPITasks)
	mux.HandleFunc("GET /api/projects", s.handleAPIProjects)
	mux.HandleFunc("GET /api/options", s.handleAPIOptions)
	mux.HandleFunc("GET /api/diagnostics", s.handleAPIDiagnostics)
	mux.HandleFunc("GET /api/timeline/tasks", s.handleTimelineTasks)
	mux.HandleFunc("GET /api/timeline/projects", s.handleTimelineProjects)
	mux.HandleFunc("GET /export/tasks.csv", s.handleExportTasks)
	mux.HandleFunc("GET /export/projects.csv", s.handleExportProjects)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	if s.events != nil {
		mux.Handle("GET /events", s.events)
	}
	return mux
}

// Start starts the dashboard server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// No write timeout: /events is a long-lived stream.
	}

	s.logger.Info("dashboard server starting", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// PageData holds data for template rendering.
type PageData struct {
	Title    string
	Spec     filter.Spec
	Options  filter.Options
	Projects []board.Project
	Tasks    []board.Task
	Stats    DashboardStats
	LoadedAt time.Time
	Error    string
}

// DashboardStats holds summary statistics of the filtered view.
type DashboardStats struct {
	Tasks      int
	Projects   int
	Completed  int
	Delayed    int
	InProgress int
	Completion float64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Timeboard"}

	spec, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		data.Error = err.Error()
		s.render(w, "index.html", data)
		return
	}
	data.Spec = spec

	snap, err := s.provider.Snapshot()
	if err != nil {
		data.Error = err.Error()
		s.render(w, "index.html", data)
		return
	}
	data.LoadedAt = snap.LoadedAt

	data.Tasks, _ = s.provider.Tasks(spec)
	data.Projects, _ = s.provider.Projects(spec)
	data.Options, _ = s.provider.Options()
	data.Stats = calculateStats(data.Tasks, data.Projects)

	s.render(w, "index.html", data)
}

func (s *Server) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	withSpec(s, w, r, s.provider.Tasks)
}

func (s *Server) handleAPIProjects(w http.ResponseWriter, r *http.Request) {
	withSpec(s, w, r, s.provider.Projects)
}

func (s *Server) handleTimelineTasks(w http.ResponseWriter, r *http.Request) {
	withSpec(s, w, r, s.provider.TaskTimeline)
}

func (s *Server) handleTimelineProjects(w http.ResponseWriter, r *http.Request) {
	withSpec(s, w, r, s.provider.ProjectTimeline)
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.provider.Options()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleAPIDiagnostics(w http.ResponseWriter, r *http.Request) {
	diags, err := s.provider.Diagnostics()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if diags == nil {
		diags = []board.Diagnostic{}
	}
	s.writeJSON(w, http.StatusOK, diags)
}

func (s *Server) handleExportTasks(w http.ResponseWriter, r *http.Request) {
	s.exportCSV(w, r, "tarefas", s.provider.ExportTasks)
}

func (s *Server) handleExportProjects(w http.ResponseWriter, r *http.Request) {
	s.exportCSV(w, r, "projetos", s.provider.ExportProjects)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.provider.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"tasks":       len(snap.Tasks),
		"projects":    len(snap.Projects),
		"diagnostics": len(snap.Diagnostics),
		"loadedAt":    snap.LoadedAt,
	})
}

// withSpec parses the filter query and writes fn's result as JSON.
func withSpec[T any](s *Server, w http.ResponseWriter, r *http.Request, fn func(filter.Spec) (T, error)) {
	spec, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := fn(spec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request, kind string, fn func(io.Writer, filter.Spec) (int, error)) {
	spec, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if _, err := fn(&buf, spec); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.provider.ExportFileName(kind)))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var loadErr *board.LoadError
	switch {
	case errors.Is(err, board.ErrNoSnapshot):
		status = http.StatusServiceUnavailable
	case errors.Is(err, export.ErrNothingToExport):
		status = http.StatusNotFound
	case errors.As(err, &loadErr):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("dashboard request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func calculateStats(tasks []board.Task, projects []board.Project) DashboardStats {
	stats := DashboardStats{
		Tasks:    len(tasks),
		Projects: len(projects),
	}

	for _, p := range projects {
		switch p.Status {
		case board.ProjectCompleted:
			stats.Completed++
		case board.ProjectDelayed:
			stats.Delayed++
		default:
			stats.InProgress++
		}
	}

	if stats.Projects > 0 {
		stats.Completion = float64(stats.Completed) / float64(stats.Projects) * 100
	}

	return stats
}

// Template helper functions
func statusClass(status board.ProjectStatus) string {
	return status.ClassName()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

func toJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
