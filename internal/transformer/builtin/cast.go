// Package builtin contains the field transformers of the movies cleaning
// pipeline. Every function here is pure and total: malformed input degrades
// to an empty or absent result and never to an error or a panic.
package builtin

import (
	"strings"

	"moviesclean/internal/parser/listlit"
	"moviesclean/pkg/records"
)

const (
	// emptyListMarker is how the source writes a cast with no entries.
	emptyListMarker = "[]"
	castSeparator   = "|"
	starsMarker     = "Stars:"
)

// SplitCast separates directors from actors in a raw "stars" cell.
//
// The cell holds a list literal. When any element contains "|" the list has
// the shape  director..., "|", "Stars:", actor...  and is read with a
// two-state scanner: elements before the first "|" are directors, elements
// after it are actors, and the "|" and "Stars:" tokens are dropped. Without a
// "|" every non-blank element is an actor, trimmed of trailing commas and
// spaces.
func SplitCast(v records.Value) (directors, actors []string) {
	directors, actors = []string{}, []string{}

	items, ok := castItems(v)
	if !ok {
		return directors, actors
	}

	if !containsSeparator(items) {
		for _, it := range items {
			if strings.TrimSpace(it) == "" {
				continue
			}
			// A non-blank element stays an actor even when only
			// separators were left in it.
			actors = append(actors, trimTrailingComma(it))
		}
		return directors, actors
	}

	collectingDirectors := true
	for _, it := range items {
		it = strings.TrimSpace(it)
		switch {
		case strings.Contains(it, castSeparator):
			collectingDirectors = false
			continue
		case strings.Contains(it, starsMarker):
			continue
		}
		name := trimTrailingComma(it)
		if name == "" {
			continue
		}
		if collectingDirectors {
			directors = append(directors, name)
		} else {
			actors = append(actors, name)
		}
	}
	return directors, actors
}

// castItems returns the decoded elements of v, or false when v is absent,
// the empty-list marker, or not a decodable list literal.
func castItems(v records.Value) ([]string, bool) {
	switch v.Kind() {
	case records.KindList:
		l, _ := v.AsList()
		return l, true
	case records.KindText:
		s, _ := v.AsText()
		if s == emptyListMarker {
			return nil, false
		}
		items, err := listlit.Decode(s)
		if err != nil {
			return nil, false
		}
		return items, true
	default:
		return nil, false
	}
}

func containsSeparator(items []string) bool {
	for _, it := range items {
		if strings.Contains(it, castSeparator) {
			return true
		}
	}
	return false
}

// trimTrailingComma drops any trailing run of commas and spaces, the residue
// the scraper leaves between names ("Cillian Murphy, ").
func trimTrailingComma(s string) string {
	return strings.TrimRight(s, ", ")
}
