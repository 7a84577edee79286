package search

import (
	"strings"

	"github.com/nikbrunner/rl/internal/model"
	"github.com/sahilm/fuzzy"
)

// Matches reports whether item's title or URL contains query,
// ignoring case. Only the empty query matches every item; whitespace is
// matched literally, so callers trim user input themselves.
func Matches(item model.Item, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.URL), q)
}

// Filter returns the items matching query, keeping their order.
func Filter(items []model.Item, query string) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if Matches(item, query) {
			out = append(out, item)
		}
	}
	return out
}

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Item           model.Item
	MatchedIndexes []int
	Score          int
}

// itemTitles implements fuzzy.Source for an item slice.
type itemTitles []model.Item

func (it itemTitles) String(i int) string {
	return it[i].Title
}

func (it itemTitles) Len() int {
	return len(it)
}

// Fuzzy ranks items by fuzzy title match, best first.
// An empty query returns nothing.
func Fuzzy(items []model.Item, query string) []SearchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, itemTitles(items))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
