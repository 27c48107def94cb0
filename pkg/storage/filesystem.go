package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

const WorkspaceDir = ".timeboard"
const PolicyFile = "policy.yaml"
const SourceFile = "source.yaml"

// FilesystemRepository keeps workspace configuration under .timeboard/.
type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is a direct child of the .timeboard directory.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, WorkspaceDir)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, WorkspaceDir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", WorkspaceDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, WorkspaceDir))
	return err == nil
}

// SavePolicy writes the full policy so operators can edit every rule.
func (r *FilesystemRepository) SavePolicy(p board.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	path, err := r.ResolvePath(PolicyFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	// G306: Use 0600 for files
	return os.WriteFile(path, data, 0600)
}

// LoadPolicy overlays policy.yaml onto the default policy. A missing file
// yields the defaults.
func (r *FilesystemRepository) LoadPolicy() (board.Policy, error) {
	retryer := retry.New[board.Policy](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (board.Policy, error) {
		path, err := r.ResolvePath(PolicyFile)
		if err != nil {
			return board.Policy{}, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return board.DefaultPolicy(), nil
		}
		if err != nil {
			return board.Policy{}, fmt.Errorf("failed to read policy file: %w", err)
		}

		// yaml.v3 merges into non-nil maps. Map rules start nil so a key in
		// the file replaces the table; WithDefaults restores absent ones.
		p := board.DefaultPolicy()
		p.GroupOverrides = nil
		p.StatusPriority = nil
		if err := yaml.Unmarshal(data, &p); err != nil {
			return board.Policy{}, fmt.Errorf("failed to unmarshal policy: %w", err)
		}
		p = p.WithDefaults()
		if err := p.Validate(); err != nil {
			return board.Policy{}, fmt.Errorf("invalid policy: %w", err)
		}
		return p, nil
	})
}
