package drive

import (
	"regexp"
	"strconv"
	"strings"
)

// Folder is one movie folder in the shared Drive root. Instances are built
// fresh each run from a listing and are immutable for the run.
type Folder struct {
	// ID is the Drive folder identifier.
	ID string
	// Name is the raw folder name.
	Name string
	// Title is the name with a trailing "(Year)" removed.
	Title string
	// Year parsed from the folder name, 0 when absent.
	Year int
}

// folderNamePattern matches "Title (Year)" folder names.
var folderNamePattern = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)\s*$`)

// folderURLPattern extracts the folder identifier from a Drive share URL.
var folderURLPattern = regexp.MustCompile(`folders/([a-zA-Z0-9_-]+)`)

// ParseFolderName splits a folder name into title and optional year.
func ParseFolderName(name string) (title string, year int) {
	name = strings.TrimSpace(name)
	if m := folderNamePattern.FindStringSubmatch(name); m != nil {
		parsed, err := strconv.Atoi(m[2])
		if err == nil {
			return strings.TrimSpace(m[1]), parsed
		}
	}
	return name, 0
}

// FolderIDFromURL extracts the folder identifier from a share URL. Inputs that
// already look like a bare identifier are returned as-is.
func FolderIDFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if m := folderURLPattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if !strings.ContainsAny(raw, "/?:") {
		return raw, true
	}
	return "", false
}
