// Package filtering implements the title keyword filter and the USA location classifier.
package filtering

import "strings"

// KeywordFilter matches titles against lower-cased include and exclude terms.
type KeywordFilter struct {
	include []string
	exclude []string
}

// NewKeywordFilter prepares the term sets. Blank terms are dropped so they can
// never match every title; other terms are matched as given, padding included.
func NewKeywordFilter(include, exclude []string) KeywordFilter {
	return KeywordFilter{
		include: lowerTerms(include),
		exclude: lowerTerms(exclude),
	}
}

// Match reports whether title contains at least one include term and no
// exclude term. An empty include set never matches.
func (f KeywordFilter) Match(title string) bool {
	if len(f.include) == 0 {
		return false
	}
	t := strings.ToLower(title)
	if !containsAny(t, f.include) {
		return false
	}
	return !containsAny(t, f.exclude)
}

// MatchesKeywords is a convenience wrapper for one-off checks.
func MatchesKeywords(title string, include, exclude []string) bool {
	return NewKeywordFilter(include, exclude).Match(title)
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		out = append(out, strings.ToLower(term))
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
