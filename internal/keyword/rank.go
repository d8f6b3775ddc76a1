// Package keyword ranks keyword autocomplete matches. The search box shows a
// short dropdown, so ordering matters more than recall: exact matches first,
// then prefix matches, then substring matches, ties broken by usage count.
package keyword

import (
	"sort"
	"strings"

	"catalog-service/internal/model"
)

// Match types, strongest first.
const (
	MatchExact     = "exact"
	MatchPrefix    = "prefix"
	MatchSubstring = "substring"
)

// DefaultLimit is the dropdown size the UI requests when no limit is given.
const DefaultLimit = 8

// MaxLimit caps client-supplied limits.
const MaxLimit = 50

// Match is one ranked autocomplete result.
type Match struct {
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
	MatchType  string `json:"match_type"`
}

// Rank filters and orders keywords for the query. The query is matched
// case-insensitively; keywords that do not contain it are dropped. The
// returned slice is at most limit long, and the second result reports whether
// an exact match exists (the UI offers "create new" when it does not).
func Rank(keywords []model.Keyword, query string, limit int) ([]Match, bool) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Match{}, false
	}

	matches := make([]Match, 0, len(keywords))
	exact := false
	for _, kw := range keywords {
		name := strings.ToLower(kw.Name)
		var mt string
		switch {
		case name == q:
			mt = MatchExact
			exact = true
		case strings.HasPrefix(name, q):
			mt = MatchPrefix
		case strings.Contains(name, q):
			mt = MatchSubstring
		default:
			continue
		}
		matches = append(matches, Match{Name: kw.Name, UsageCount: kw.UsageCount, MatchType: mt})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matchRank(matches[i].MatchType), matchRank(matches[j].MatchType)
		if ri != rj {
			return ri < rj
		}
		if matches[i].UsageCount != matches[j].UsageCount {
			return matches[i].UsageCount > matches[j].UsageCount
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, exact
}

func matchRank(mt string) int {
	switch mt {
	case MatchExact:
		return 0
	case MatchPrefix:
		return 1
	default:
		return 2
	}
}

// Normalize lowercases and trims a keyword name for storage and comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
