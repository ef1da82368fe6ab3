// Package themesync drives one synchronization pass: match library movies to
// remote theme folders, download what is missing, and keep durable per-item
// progress so an interrupted or throttled run picks up where it stopped.
package themesync
