package wiring

import (
	"fmt"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/config"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/storage"
)

// Workspace bundles the configuration found under a root's .timeboard dir.
type Workspace struct {
	Repo   *storage.FilesystemRepository
	Policy board.Policy
	Source config.SourceConfig
}

// NewWorkspace reads policy.yaml and source.yaml. Both are optional.
func NewWorkspace(root string) (*Workspace, error) {
	repo := storage.NewFilesystemRepository(root)

	policy, err := repo.LoadPolicy()
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	src, err := config.LoadSourceConfig(root)
	if err != nil {
		return nil, fmt.Errorf("load source config: %w", err)
	}
	var cfg config.SourceConfig
	if src != nil {
		cfg = *src
	}

	return &Workspace{
		Repo:   repo,
		Policy: policy,
		Source: cfg.WithDefaults(),
	}, nil
}
