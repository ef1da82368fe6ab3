// Package check audits theme coverage without touching anything: no
// downloads, no progress writes, no metadata refreshes.
package check

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"themesync/internal/library"
	"themesync/internal/pathmap"
)

// Row is one movie in the audit report.
type Row struct {
	Title string
	Year  int
	// ThemePath is where the theme file lives, or should live, on disk.
	ThemePath string
}

// Report groups the library by theme coverage. WithTheme movies have a theme
// file on disk that the server also recognizes; Unrecognized movies have the
// file but the server has not picked it up yet; MissingFile movies have no
// usable theme file at all.
type Report struct {
	WithTheme    []Row
	Unrecognized []Row
	MissingFile  []Row
}

// Total returns the number of movies inspected.
func (r *Report) Total() int {
	return len(r.WithTheme) + len(r.Unrecognized) + len(r.MissingFile)
}

// Checker builds coverage reports from a library snapshot.
type Checker struct {
	Library       library.Source
	Mapper        *pathmap.Mapper
	ThemeFileName string
}

// Run inspects every movie and classifies it. Rows come back sorted by title
// within each group.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	movies, err := c.Library.Movies(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, movie := range movies {
		row := Row{Title: movie.Title, Year: movie.Year}
		if movie.Path != "" {
			mapped := c.Mapper.Map(movie.Path)
			row.ThemePath = filepath.Join(filepath.Dir(mapped), c.ThemeFileName)
		}

		switch {
		case row.ThemePath != "" && hasNonEmptyFile(row.ThemePath):
			if movie.HasTheme {
				report.WithTheme = append(report.WithTheme, row)
			} else {
				report.Unrecognized = append(report.Unrecognized, row)
			}
		default:
			report.MissingFile = append(report.MissingFile, row)
		}
	}

	for _, group := range [][]Row{report.WithTheme, report.Unrecognized, report.MissingFile} {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Title < group[j].Title })
	}
	return report, nil
}

func hasNonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
