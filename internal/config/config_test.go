package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
[plex]
url = "http://plex.local:32400"
token = "abc123"

[drive]
folder_url = "https://drive.google.com/drive/folders/folder123"
api_key = "key123"
`

func TestLoadMinimal(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Plex.MovieLibrary != "Movies" {
		t.Errorf("MovieLibrary default = %q", cfg.Plex.MovieLibrary)
	}
	if cfg.Drive.ThemeFile != "theme.mp3" {
		t.Errorf("ThemeFile default = %q", cfg.Drive.ThemeFile)
	}
	if cfg.Matching.FuzzyThreshold != 0.70 {
		t.Errorf("FuzzyThreshold default = %v", cfg.Matching.FuzzyThreshold)
	}
	if cfg.RetryCooldown() != 60*time.Minute {
		t.Errorf("RetryCooldown default = %v", cfg.RetryCooldown())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadTrimsPlexURL(t *testing.T) {
	path := writeConfig(t, strings.Replace(minimalConfig, "http://plex.local:32400", "http://plex.local:32400/", 1))
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plex.URL != "http://plex.local:32400" {
		t.Errorf("Plex URL = %q, want trailing slash trimmed", cfg.Plex.URL)
	}
}

func TestLoadPathMappings(t *testing.T) {
	path := writeConfig(t, minimalConfig+`
[[path_mappings]]
remote = "/data/movies"
local = "/mnt/movies"
`)
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.PathMappings) != 1 || cfg.PathMappings[0].Remote != "/data/movies" {
		t.Errorf("PathMappings = %+v", cfg.PathMappings)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		fragment string
	}{
		{"missing plex url", func(c *Config) { c.Plex.URL = "" }, "plex.url"},
		{"missing token", func(c *Config) { c.Plex.Token = "" }, "plex.token"},
		{"missing folder url", func(c *Config) { c.Drive.FolderURL = "" }, "drive.folder_url"},
		{"missing api key", func(c *Config) { c.Drive.APIKey = "" }, "drive.api_key"},
		{"threshold out of range", func(c *Config) { c.Matching.FuzzyThreshold = 1.5 }, "fuzzy_threshold"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"mapping without local", func(c *Config) {
			c.PathMappings = []PathMapping{{Remote: "/data"}}
		}, "path_mappings[0].local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Plex.URL = "http://plex.local:32400"
			cfg.Plex.Token = "abc"
			cfg.Drive.FolderURL = "https://drive.google.com/drive/folders/x"
			cfg.Drive.APIKey = "key"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.fragment) {
				t.Errorf("error %q does not mention %q", err, tt.fragment)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaultsButFailsValidation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, _, _, err := Load(missing); err == nil {
		t.Fatal("expected validation error for empty credentials")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.StateDir = filepath.Join(dir, "state")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, p := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			t.Errorf("expected directory %q", p)
		}
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := writeConfig(t, SampleConfig())
	// The sample leaves credentials empty, so only decoding is checked.
	cfg := Default()
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
}
