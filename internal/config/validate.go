package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateDrive(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validatePathMappings()
}

func (c *Config) validatePlex() error {
	if c.Plex.URL == "" {
		return errors.New("plex.url must be set")
	}
	if c.Plex.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/themesync/config.toml"
		}
		return fmt.Errorf("plex.token is required. Set PLEX_TOKEN env var or edit %s (create with 'themesync config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateDrive() error {
	if c.Drive.FolderURL == "" {
		return errors.New("drive.folder_url must be set")
	}
	if c.Drive.APIKey == "" {
		return errors.New("drive.api_key is required. Set GOOGLE_API_KEY env var or add it to the config file")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 1 {
		return errors.New("matching.fuzzy_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validatePathMappings() error {
	for i, mapping := range c.PathMappings {
		if strings.TrimSpace(mapping.Remote) == "" {
			return fmt.Errorf("path_mappings[%d].remote must be set", i)
		}
		if strings.TrimSpace(mapping.Local) == "" {
			return fmt.Errorf("path_mappings[%d].local must be set", i)
		}
	}
	return nil
}
