// Package library defines the local media library model shared by the matcher,
// orchestrator, and checker. The concrete listing and refresh implementation
// lives in services/plex.
package library
