package store

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchMatch is one entry path matching a search query.
type SearchMatch struct {
	Path           string
	Score          int
	MatchedIndexes []int
}

// Search fuzzy-matches query against every entry path and returns at most
// limit matches, best first. An empty query lists every entry. A limit of
// zero or less means no limit.
func (s *Store) Search(query string, limit int) ([]SearchMatch, error) {
	paths, err := s.ListPasswords()
	if err != nil {
		return nil, err
	}
	return searchPaths(paths, query, limit), nil
}

func searchPaths(paths []string, query string, limit int) []SearchMatch {
	query = strings.TrimSpace(query)

	var results []SearchMatch
	if query == "" {
		for _, p := range paths {
			results = append(results, SearchMatch{Path: p})
		}
	} else {
		for _, m := range fuzzy.Find(query, paths) {
			results = append(results, SearchMatch{
				Path:           m.Str,
				Score:          m.Score,
				MatchedIndexes: m.MatchedIndexes,
			})
		}
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
