package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/timeboard/pkg/application"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/export"
	"github.com/felixgeelhaar/timeboard/pkg/filter"
)

type Server struct {
	mcpServer *mcp.Server
	board     *application.BoardService
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

func NewServer(svc *application.BoardService) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("board service is nil")
	}

	info := mcp.ServerInfo{
		Name:    "timeboard",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Timeboard MCP Server"),
			mcp.WithDescription("Timeboard exposes normalized tasks and project aggregates of a project-management export to MCP clients."),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use the filter tools to list tasks or projects, read the selectable filter values, export CSV and reload the data."),
		),
		board: svc,
	}

	s.registerTools()
	s.registerSchemaResource()
	return s, nil
}

// FilterArgs mirrors filter.Spec for tool callers.
type FilterArgs struct {
	DaysBack     int    `json:"days_back,omitempty" jsonschema:"description=Only items starting within this many days (0 = no limit)"`
	Client       string `json:"client,omitempty" jsonschema:"description=Exact client name or 'all'"`
	Group        string `json:"group,omitempty" jsonschema:"description=Team (top-level group) or 'all'"`
	Subgroup     string `json:"subgroup,omitempty" jsonschema:"description=Subgroup inside the selected group; also matches nested subgroups"`
	Name         string `json:"name,omitempty" jsonschema:"description=Case-insensitive substring of the responsible's name"`
	ShowTasks    *bool  `json:"show_tasks,omitempty" jsonschema:"description=Include top-level tasks (default true)"`
	ShowSubtasks *bool  `json:"show_subtasks,omitempty" jsonschema:"description=Include subtasks (default true)"`
}

func (a FilterArgs) spec() filter.Spec {
	return filter.Spec{
		DaysBack:            a.DaysBack,
		Client:              a.Client,
		Group:               a.Group,
		Subgroup:            a.Subgroup,
		ResponsibleContains: a.Name,
		ShowTasks:           a.ShowTasks,
		ShowSubtasks:        a.ShowSubtasks,
	}
}

type ExportArgs struct {
	Kind    string     `json:"kind" jsonschema:"description=What to export: tasks or projects"`
	Filters FilterArgs `json:"filters,omitempty" jsonschema:"description=Filters applied before exporting"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("timeboard_list_tasks").
		Description("List normalized tasks matching the given filters").
		Handler(s.handleListTasks)

	s.mcpServer.Tool("timeboard_list_projects").
		Description("List project aggregates (progress, status, priority) matching the given filters").
		Handler(s.handleListProjects)

	s.mcpServer.Tool("timeboard_filter_options").
		Description("List the selectable clients, groups and subgroups").
		Handler(s.handleFilterOptions)

	s.mcpServer.Tool("timeboard_export_csv").
		Description("Export filtered tasks or projects as CSV text").
		Handler(s.handleExportCSV)

	s.mcpServer.Tool("timeboard_diagnostics").
		Description("List the data issues repaired while loading the export").
		Handler(s.handleDiagnostics)

	s.mcpServer.Tool("timeboard_reload").
		Description("Reload the export from its source").
		Handler(s.handleReload)
}

// ensureLoaded loads the board on first use.
func (s *Server) ensureLoaded(ctx context.Context) error {
	if _, err := s.board.Snapshot(); err == nil {
		return nil
	}
	if _, err := s.board.Load(ctx); err != nil {
		return loadFailure(err)
	}
	return nil
}

func loadFailure(err error) error {
	var loadErr *board.LoadError
	if errors.As(err, &loadErr) {
		return mcpErr(loadErr.Error())
	}
	return mcpErr("Failed to load the board data. Check the data source with 'timeboard doctor'.")
}

func (s *Server) handleListTasks(ctx context.Context, args FilterArgs) (any, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	tasks, err := s.board.Tasks(args.spec())
	if err != nil {
		return nil, mcpErr("Failed to filter tasks.")
	}
	return tasks, nil
}

func (s *Server) handleListProjects(ctx context.Context, args FilterArgs) (any, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	projects, err := s.board.Projects(args.spec())
	if err != nil {
		return nil, mcpErr("Failed to filter projects.")
	}
	return projects, nil
}

func (s *Server) handleFilterOptions(ctx context.Context, args struct{}) (any, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	opts, err := s.board.Options()
	if err != nil {
		return nil, mcpErr("Failed to compute filter options.")
	}
	return opts, nil
}

func (s *Server) handleExportCSV(ctx context.Context, args ExportArgs) (string, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	var err error
	switch strings.ToLower(strings.TrimSpace(args.Kind)) {
	case "tasks", "tarefas", "":
		_, err = s.board.ExportTasks(&buf, args.Filters.spec())
	case "projects", "projetos":
		_, err = s.board.ExportProjects(&buf, args.Filters.spec())
	default:
		return "", mcpErr(fmt.Sprintf("Unknown export kind %q. Use 'tasks' or 'projects'.", args.Kind))
	}
	if errors.Is(err, export.ErrNothingToExport) {
		return "", mcpErr("Nothing to export: no items match the filters.")
	}
	if err != nil {
		return "", mcpErr("Failed to export CSV.")
	}
	return buf.String(), nil
}

func (s *Server) handleDiagnostics(ctx context.Context, args struct{}) (any, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	diags, err := s.board.Diagnostics()
	if err != nil {
		return nil, mcpErr("Failed to read diagnostics.")
	}
	if diags == nil {
		diags = []board.Diagnostic{}
	}
	return diags, nil
}

func (s *Server) handleReload(ctx context.Context, args struct{}) (string, error) {
	snap, err := s.board.Load(ctx)
	if err != nil {
		return "", loadFailure(err)
	}
	return fmt.Sprintf("Loaded %d tasks in %d projects from %s (%d diagnostics).",
		len(snap.Tasks), len(snap.Projects), snap.Source, len(snap.Diagnostics)), nil
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
