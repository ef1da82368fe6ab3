package match

import (
	"themesync/internal/library"
	"themesync/internal/services/drive"
	"themesync/internal/textutil"
)

// Kind reports how a movie was paired with a folder.
type Kind int

const (
	// KindNone means no folder met the matching rules.
	KindNone Kind = iota
	// KindExact means normalized title and year lined up.
	KindExact
	// KindFuzzy means the pair cleared the similarity threshold.
	KindFuzzy
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Result pairs one local movie with its chosen folder, if any. Remote is nil
// when Kind is KindNone.
type Result struct {
	Local  library.Movie
	Remote *drive.Folder
	Kind   Kind
	Score  float64
}

// Match pairs every movie with at most one folder. Results come back in the
// order of locals, one entry per movie. Exact matches are assigned first so a
// fuzzy candidate can never steal a folder whose name is some movie's exact
// match. remotes should arrive in a stable listing order; score ties in the
// fuzzy pass keep the earliest-listed folder.
func Match(locals []library.Movie, remotes []*drive.Folder, threshold float64) []Result {
	byKey := make(map[string]*drive.Folder, len(remotes))
	byTitle := make(map[string][]*drive.Folder, len(remotes))
	for _, folder := range remotes {
		title := textutil.NormalizeTitle(folder.Title)
		if title == "" {
			continue
		}
		if folder.Year > 0 {
			key := textutil.Key(folder.Title, folder.Year)
			if _, exists := byKey[key]; !exists {
				byKey[key] = folder
			}
		}
		byTitle[title] = append(byTitle[title], folder)
	}

	claimed := make(map[string]struct{}, len(locals))
	results := make([]Result, len(locals))

	// Exact pass.
	for i, movie := range locals {
		results[i] = Result{Local: movie}
		folder := exactCandidate(movie, byKey, byTitle, claimed)
		if folder == nil {
			continue
		}
		claimed[folder.ID] = struct{}{}
		results[i].Remote = folder
		results[i].Kind = KindExact
		results[i].Score = 1
	}

	// Fuzzy pass over the leftovers.
	for i := range results {
		if results[i].Kind != KindNone {
			continue
		}
		movie := results[i].Local
		var best *drive.Folder
		bestScore := 0.0
		for _, folder := range remotes {
			if _, taken := claimed[folder.ID]; taken {
				continue
			}
			if movie.Year > 0 && folder.Year > 0 && movie.Year != folder.Year {
				continue
			}
			score := textutil.TokenSortRatio(movie.Title, folder.Title)
			if score > bestScore {
				best = folder
				bestScore = score
			}
		}
		if best == nil || bestScore < threshold {
			continue
		}
		claimed[best.ID] = struct{}{}
		results[i].Remote = best
		results[i].Kind = KindFuzzy
		results[i].Score = bestScore
	}

	return results
}

// exactCandidate finds an unclaimed folder whose normalized identity equals
// the movie's. A year on both sides must agree; a missing year on either side
// falls back to a title-only match.
func exactCandidate(movie library.Movie, byKey map[string]*drive.Folder, byTitle map[string][]*drive.Folder, claimed map[string]struct{}) *drive.Folder {
	if movie.Year > 0 {
		if folder, ok := byKey[textutil.Key(movie.Title, movie.Year)]; ok {
			if _, taken := claimed[folder.ID]; !taken {
				return folder
			}
		}
	}
	title := textutil.NormalizeTitle(movie.Title)
	for _, folder := range byTitle[title] {
		if _, taken := claimed[folder.ID]; taken {
			continue
		}
		// Title-only matches need a yearless side; mismatched known years
		// stay apart even when the titles are identical.
		if movie.Year > 0 && folder.Year > 0 && movie.Year != folder.Year {
			continue
		}
		return folder
	}
	return nil
}
