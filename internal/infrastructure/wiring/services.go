package wiring

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/timeboard/pkg/application"
	"github.com/felixgeelhaar/timeboard/pkg/ingest"
)

// ErrNoDataSource is returned when neither a flag nor source.yaml names the data.
var ErrNoDataSource = fmt.Errorf("no data source configured")

// AppServices exposes the board service wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Source    ingest.Source
	Board     *application.BoardService
	Notifier  *webhook.Notifier
}

// DeadLetterFile collects reload notifications that could not be delivered.
const DeadLetterFile = "deadletters.jsonl"

type buildOptions struct {
	notify bool
}

// Option customizes BuildAppServices.
type Option func(*buildOptions)

// WithNotifications attaches the source.yaml webhook endpoints to the board.
// Only long-running callers should ask for it, and they must call
// Notifier.Wait before exiting.
func WithNotifications() Option {
	return func(o *buildOptions) { o.notify = true }
}

// BuildAppServices resolves the data location (override first, then
// source.yaml) and builds the board service. Nothing is loaded yet.
func BuildAppServices(root, override string, logger *slog.Logger, opts ...Option) (*AppServices, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	workspace, err := NewWorkspace(root)
	if err != nil {
		return nil, err
	}

	location := override
	if location == "" {
		location = workspace.Source.Location
	}
	if location == "" {
		return nil, ErrNoDataSource
	}

	source := resolveSource(root, location, workspace)
	if logger == nil {
		logger = slog.Default()
	}

	services := &AppServices{
		Workspace: workspace,
		Source:    source,
		Board:     application.NewBoardService(source, workspace.Policy, application.WithLogger(logger)),
	}

	if bo.notify && len(workspace.Source.Notify) > 0 {
		opts := []webhook.Option{webhook.WithLogger(logger)}
		if workspace.Repo.IsInitialized() {
			if path, err := workspace.Repo.ResolvePath(DeadLetterFile); err == nil {
				opts = append(opts, webhook.WithDeadLetter(webhook.NewDeadLetterStore(path)))
			}
		}
		services.Notifier = webhook.NewNotifier(workspace.Source.Notify, opts...)
		services.Notifier.Attach(services.Board)
	}

	return services, nil
}

func resolveSource(root, location string, ws *Workspace) ingest.Source {
	if isURL(location) {
		src := ingest.NewHTTPSource(location, nil)
		if ws.Source.FetchTimeout > 0 {
			src = src.WithTimeout(ws.Source.FetchTimeout)
		}
		return src
	}
	if !filepath.IsAbs(location) {
		location = filepath.Join(root, location)
	}
	return ingest.FileSource{Path: location}
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// FilePath returns the local path of a file source, or "" for remote ones.
func (s *AppServices) FilePath() string {
	if fs, ok := s.Source.(ingest.FileSource); ok {
		return fs.Path
	}
	return ""
}
