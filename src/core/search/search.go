// Package search ranks records against a free-text query with fuzzy
// subsequence matching. It has no knowledge of storage or HTTP.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match tiers, best first. Any match in a higher tier outranks every match in
// a lower one, whatever the field lengths.
const (
	tierFuzzy = iota
	tierContains
	tierPrefix
	tierExact
)

// tierWidth separates tiers; scores inside a tier stay within it.
const tierWidth = 1 << 20

// Score reports how well query matches the best of fields. Matching ignores
// case and diacritics. An exact field match ranks above a prefix match, which
// ranks above a substring match, which ranks above an in-order scattered
// match; within a tier, earlier substrings and tighter scattered matches win.
// ok is false when the query's characters do not occur in order in any field.
// An empty query matches everything with a zero score.
func Score(query string, fields ...string) (score int, ok bool) {
	if query == "" {
		return 0, true
	}
	pattern := fold(query)
	for _, field := range fields {
		s, matched := scoreField(pattern, fold(field))
		if matched && (!ok || s > score) {
			score = s
			ok = true
		}
	}
	return score, ok
}

func scoreField(pattern, field string) (int, bool) {
	switch idx := strings.Index(field, pattern); {
	case field == pattern:
		return tierExact * tierWidth, true
	case idx == 0:
		return tierPrefix * tierWidth, true
	case idx > 0:
		return tierContains*tierWidth - clamp(idx), true
	}

	matches := fuzzy.Find(pattern, []string{field})
	if len(matches) == 0 {
		return 0, false
	}
	return tierFuzzy*tierWidth + clamp(matches[0].Score), true
}

// clamp keeps a within-tier adjustment from crossing into a neighbouring tier.
func clamp(n int) int {
	const limit = tierWidth/2 - 1
	switch {
	case n > limit:
		return limit
	case n < -limit:
		return -limit
	}
	return n
}

// fold lowercases s and strips combining marks, so "É" matches "e".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Rank keeps the items that match query and orders them by descending score.
// Equal scores keep their input order. An empty query returns items as given.
func Rank[T any](items []T, query string, fields func(T) []string) []T {
	if query == "" {
		return items
	}

	type scored struct {
		item  T
		score int
	}
	ranked := make([]scored, 0, len(items))
	for _, item := range items {
		if s, ok := Score(query, fields(item)...); ok {
			ranked = append(ranked, scored{item: item, score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}
