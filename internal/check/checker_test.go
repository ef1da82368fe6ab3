package check

import (
	"context"
	"os"
	"testing"

	"themesync/internal/library"
	"themesync/internal/pathmap"
	"themesync/internal/testsupport"
)

type staticLibrary struct {
	movies []library.Movie
}

func (s *staticLibrary) Movies(ctx context.Context) ([]library.Movie, error) {
	return s.movies, nil
}

func (s *staticLibrary) RefreshItem(ctx context.Context, ratingKey string) error {
	return nil
}

func writeTheme(t *testing.T, dir, movieDir string, contents []byte) {
	t.Helper()
	testsupport.WriteThemeFile(t, dir, movieDir, "theme.mp3", contents)
}

func TestCheckerClassifiesCoverage(t *testing.T) {
	mediaDir := t.TempDir()
	writeTheme(t, mediaDir, "Alien (1979)", []byte("audio"))
	writeTheme(t, mediaDir, "Heat (1995)", []byte("audio"))
	writeTheme(t, mediaDir, "Crash (2004)", nil) // empty file does not count

	lib := &staticLibrary{movies: []library.Movie{
		{RatingKey: "1", Title: "Alien", Year: 1979, Path: "/plex/media/Alien (1979)/alien.mkv", HasTheme: true},
		{RatingKey: "2", Title: "Heat", Year: 1995, Path: "/plex/media/Heat (1995)/heat.mkv"},
		{RatingKey: "3", Title: "Crash", Year: 2004, Path: "/plex/media/Crash (2004)/crash.mkv"},
		{RatingKey: "4", Title: "Seven", Year: 1995, Path: "/plex/media/Seven (1995)/seven.mkv"},
		{RatingKey: "5", Title: "Pathless", Year: 2000},
	}}

	checker := &Checker{
		Library:       lib,
		Mapper:        pathmap.New([]pathmap.Rule{{Remote: "/plex/media", Local: mediaDir}}),
		ThemeFileName: "theme.mp3",
	}

	report, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Total() != 5 {
		t.Errorf("total = %d, want 5", report.Total())
	}
	if len(report.WithTheme) != 1 || report.WithTheme[0].Title != "Alien" {
		t.Errorf("with theme = %+v", report.WithTheme)
	}
	if len(report.Unrecognized) != 1 || report.Unrecognized[0].Title != "Heat" {
		t.Errorf("unrecognized = %+v", report.Unrecognized)
	}
	if len(report.MissingFile) != 3 {
		t.Fatalf("missing = %+v", report.MissingFile)
	}
	// Sorted by title within the group.
	if report.MissingFile[0].Title != "Crash" || report.MissingFile[1].Title != "Pathless" {
		t.Errorf("missing order = %+v", report.MissingFile)
	}
}

func TestCheckerWritesNothing(t *testing.T) {
	mediaDir := t.TempDir()
	lib := &staticLibrary{movies: []library.Movie{
		{RatingKey: "1", Title: "Alien", Year: 1979, Path: "/plex/media/Alien (1979)/alien.mkv"},
	}}

	checker := &Checker{
		Library:       lib,
		Mapper:        pathmap.New([]pathmap.Rule{{Remote: "/plex/media", Local: mediaDir}}),
		ThemeFileName: "theme.mp3",
	}
	if _, err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(mediaDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("checker created files: %v", entries)
	}
}
