package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/timeboard/pkg/storage"
)

const sourceConfigFile = storage.SourceFile

// SourceConfig says where the export document lives and how it is served.
type SourceConfig struct {
	Location      string        `yaml:"location"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout,omitempty"`
	WatchDebounce time.Duration `yaml:"watch_debounce,omitempty"`
	ServeAddr     string        `yaml:"serve_addr,omitempty"`
	Notify        []Endpoint    `yaml:"notify,omitempty"`
}

// Endpoint is an outgoing webhook that is called after every reload.
type Endpoint struct {
	Name       string        `yaml:"name"`
	URL        string        `yaml:"url"`
	Secret     string        `yaml:"secret,omitempty"`
	MaxRetries int           `yaml:"max_retries,omitempty"`
	RetryDelay time.Duration `yaml:"retry_delay,omitempty"`
	Disabled   bool          `yaml:"disabled,omitempty"`
}

const (
	DefaultWatchDebounce = 500 * time.Millisecond
	DefaultServeAddr     = "127.0.0.1:8080"
)

// WithDefaults fills unset durations and the dashboard address.
func (c SourceConfig) WithDefaults() SourceConfig {
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = DefaultWatchDebounce
	}
	if c.ServeAddr == "" {
		c.ServeAddr = DefaultServeAddr
	}
	return c
}

// LoadSourceConfig returns nil without error when source.yaml does not exist.
func LoadSourceConfig(root string) (*SourceConfig, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(sourceConfigFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read source config: %w", err)
	}

	var cfg SourceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source config: %w", err)
	}

	return &cfg, nil
}

func SaveSourceConfig(root string, cfg *SourceConfig) error {
	if cfg == nil {
		return fmt.Errorf("source config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(sourceConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal source config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
