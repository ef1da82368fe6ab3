package library

import "context"

// Movie is one entry of a movie library snapshot. Instances are built fresh
// each run from a library listing and are immutable for the duration of the
// run; only derived progress records outlive them.
type Movie struct {
	// RatingKey is the server-assigned identifier, stable across runs.
	RatingKey string
	// Title is the raw title as reported by the server.
	Title string
	// Year is the release year, 0 when the server has none.
	Year int
	// Path is the first media file path as the server sees it, before path
	// mapping is applied.
	Path string
	// HasTheme reports whether the server already recognizes a theme for
	// this movie.
	HasTheme bool
}

// Source lists library movies and triggers per-item metadata refreshes.
type Source interface {
	Movies(ctx context.Context) ([]Movie, error)
	RefreshItem(ctx context.Context, ratingKey string) error
}
