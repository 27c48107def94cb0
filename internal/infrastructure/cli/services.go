package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/wiring"
)

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

// loadServices wires the board for the current workspace without loading it.
func loadServices(opts ...wiring.Option) (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	services, err := wiring.BuildAppServices(root, dataPath, slog.Default(), opts...)
	if err != nil {
		return nil, MapError(err)
	}
	return services, nil
}

// loadBoard wires the board and performs the initial load. One-shot
// commands pass no options so they never send reload notifications.
func loadBoard(ctx context.Context, opts ...wiring.Option) (*wiring.AppServices, error) {
	services, err := loadServices(opts...)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := services.Board.Load(ctx); err != nil {
		return nil, MapError(err)
	}
	return services, nil
}
