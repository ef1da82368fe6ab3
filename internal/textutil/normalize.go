package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// trailingArticlePattern matches catalog-style titles like "Matrix, The".
var trailingArticlePattern = regexp.MustCompile(`^(.*\S)\s*,\s*(the|a|an)\s*$`)

// bracketedPattern matches parenthesized or bracketed title segments.
var bracketedPattern = regexp.MustCompile(`[(\[][^)\]]*[)\]]`)

// editionNoise lists suffix tokens that carry no identity: two releases of the
// same film differing only by one of these must normalize identically.
var editionNoise = map[string]struct{}{
	"directors cut":        {},
	"director s cut":       {},
	"extended":             {},
	"extended cut":         {},
	"extended edition":     {},
	"unrated":              {},
	"uncut":                {},
	"remastered":           {},
	"restored":             {},
	"special edition":      {},
	"collectors edition":   {},
	"anniversary edition":  {},
	"ultimate edition":     {},
	"theatrical":           {},
	"theatrical cut":       {},
	"theatrical edition":   {},
	"final cut":            {},
	"imax":                 {},
	"4k":                   {},
	"4k remaster":          {},
	"uhd":                  {},
	"criterion":            {},
	"criterion collection": {},
}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTitle canonicalizes a movie title for comparison. The function is
// pure and never fails; input it cannot make sense of degrades to a best-effort
// lowercase form.
func NormalizeTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(diacriticFolder, s); err == nil {
		s = folded
	}

	s = stripEditionNoise(s)
	if m := trailingArticlePattern.FindStringSubmatch(s); m != nil {
		s = m[2] + " " + m[1]
	}

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")
	s = reduceToWords(s)

	return s
}

// Key builds the exact-match lookup key for a title and optional year.
func Key(title string, year int) string {
	normalized := NormalizeTitle(title)
	if year <= 0 {
		return normalized
	}
	return fmt.Sprintf("%s (%d)", normalized, year)
}

// stripEditionNoise removes bracketed segments and trailing dash-separated
// suffixes whose content is a known edition tag.
func stripEditionNoise(s string) string {
	s = bracketedPattern.ReplaceAllStringFunc(s, func(segment string) string {
		inner := reduceToWords(segment[1 : len(segment)-1])
		if _, ok := editionNoise[inner]; ok {
			return " "
		}
		return segment
	})

	if idx := strings.LastIndex(s, " - "); idx > 0 {
		suffix := reduceToWords(s[idx+3:])
		if _, ok := editionNoise[suffix]; ok {
			s = s[:idx]
		}
	}
	return s
}

// reduceToWords keeps letters, digits, and intra-word hyphens, mapping every
// other rune to a space, then collapses whitespace.
func reduceToWords(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' && i > 0 && i+1 < len(rs) && isWordRune(rs[i-1]) && isWordRune(rs[i+1]):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
