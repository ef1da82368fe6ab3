// Package testsupport provides shared fixtures for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"themesync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories and dummy
// credentials that pass validation. Options are applied in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Plex.URL = "http://localhost:32400"
	cfg.Plex.Token = "test-token"
	cfg.Drive.FolderURL = "https://drive.google.com/drive/folders/root123"
	cfg.Drive.APIKey = "test-key"
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithPathMapping adds a remote-to-local path mapping rule.
func WithPathMapping(remote, local string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.PathMappings = append(cfg.PathMappings, config.PathMapping{Remote: remote, Local: local})
	}
}

// WithNtfyTopic points notifications at the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WriteConfigFile serializes cfg into a temp config.toml and returns its path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode test config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}
