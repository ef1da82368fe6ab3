package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"themesync/internal/config"
	"themesync/internal/logging"
	"themesync/internal/pathmap"
	"themesync/internal/progress"
	"themesync/internal/services/drive"
	"themesync/internal/services/plex"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// withLock runs fn while holding the state-dir lock so two invocations never
// share the progress store.
func (c *commandContext) withLock(fn func(cfg *config.Config) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "themesync.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another themesync instance is already running")
	}
	defer func() { _ = lock.Unlock() }()

	return fn(cfg)
}

func (c *commandContext) openStore(cfg *config.Config) (*progress.Store, error) {
	return progress.Open(cfg.Paths.StateDir)
}

func (c *commandContext) plexClient(cfg *config.Config) *plex.Client {
	return plex.New(cfg.Plex.URL, cfg.Plex.Token, cfg.Plex.MovieLibrary)
}

func (c *commandContext) driveClient(cfg *config.Config) (*drive.Client, error) {
	rootID, ok := drive.FolderIDFromURL(cfg.Drive.FolderURL)
	if !ok {
		return nil, fmt.Errorf("drive folder_url %q has no folder id", cfg.Drive.FolderURL)
	}
	return drive.New(rootID, cfg.Drive.APIKey, cfg.Drive.ThemeFile), nil
}

func (c *commandContext) mapper(cfg *config.Config) *pathmap.Mapper {
	rules := make([]pathmap.Rule, 0, len(cfg.PathMappings))
	for _, mapping := range cfg.PathMappings {
		rules = append(rules, pathmap.Rule{Remote: mapping.Remote, Local: mapping.Local})
	}
	return pathmap.New(rules)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
