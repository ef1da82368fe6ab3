package progress

import (
	"errors"
	"strings"
	"time"
)

// Status represents the persisted lifecycle of one library item.
type Status string

const (
	// StatusPending is implicit: an item with no record is pending.
	StatusPending Status = "pending"
	// StatusDownloaded is terminal; it is never overwritten by a lesser status.
	StatusDownloaded Status = "downloaded"
	// StatusSkippedNoMatch marks items with no acceptable remote candidate.
	StatusSkippedNoMatch Status = "skipped_no_match"
	// StatusSkippedError marks matched items whose download failed for a
	// non-rate-limit reason; the reason column carries the diagnostic.
	StatusSkippedError Status = "skipped_error"
	// StatusDeferred marks items interrupted by a rate limit; they are
	// re-attempted after the cooldown.
	StatusDeferred Status = "deferred_rate_limit"
)

// ErrStoreCorrupt indicates the persisted state cannot be read. Callers abort
// rather than guessing: silently starting fresh would risk duplicate work.
var ErrStoreCorrupt = errors.New("progress store corrupt")

var allStatuses = []Status{
	StatusPending,
	StatusDownloaded,
	StatusSkippedNoMatch,
	StatusSkippedError,
	StatusDeferred,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status ends processing for the item.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDownloaded, StatusSkippedNoMatch, StatusSkippedError:
		return true
	default:
		return false
	}
}

// Record is one persisted progress entry.
type Record struct {
	ItemID    string
	Status    Status
	Reason    string
	UpdatedAt time.Time
}
