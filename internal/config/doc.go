// Package config loads and validates themesync configuration from TOML.
//
// Configuration resolution order: an explicit --config path, then
// ~/.config/themesync/config.toml, then ./themesync.toml. Loading applies
// defaults first, decodes the file over them, normalizes paths (including ~
// expansion), and validates the result.
package config
