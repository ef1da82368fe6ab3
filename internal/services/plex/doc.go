// Package plex implements the library source against the Plex HTTP API:
// listing movies in a configured library section and triggering per-item
// metadata refreshes after a theme file lands next to a movie.
package plex
