// Package pathmap translates paths as seen by the media server into paths on
// the local filesystem, per configured prefix-substitution rules.
package pathmap

import "strings"

// Rule substitutes one path prefix for another.
type Rule struct {
	Remote string
	Local  string
}

// Mapper applies an ordered list of prefix rules. The zero value maps every
// path to itself.
type Mapper struct {
	rules []Rule
}

// New builds a Mapper from the provided rules. Rules with an empty remote
// prefix are ignored.
func New(rules []Rule) *Mapper {
	kept := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Remote == "" {
			continue
		}
		kept = append(kept, rule)
	}
	return &Mapper{rules: kept}
}

// Map returns the path with the first matching remote prefix replaced by its
// local counterpart, or the input unchanged when no rule matches.
func (m *Mapper) Map(path string) string {
	if m == nil {
		return path
	}
	for _, rule := range m.rules {
		if strings.HasPrefix(path, rule.Remote) {
			return rule.Local + strings.TrimPrefix(path, rule.Remote)
		}
	}
	return path
}
