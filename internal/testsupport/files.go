package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteThemeFile creates a theme file with contents under dir/movieDir and
// returns its path. Pass empty contents to create a zero-byte file.
func WriteThemeFile(t testing.TB, dir, movieDir, name string, contents []byte) string {
	t.Helper()

	path := filepath.Join(dir, movieDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create theme dir: %v", err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write theme file: %v", err)
	}
	return path
}
