package builtin

import (
	"strings"

	"moviesclean/pkg/records"
)

// UnknownGenre is the primary genre of an entry without genres.
const UnknownGenre = "Unknown"

// Genres splits a comma-separated genre cell into trimmed, non-blank names.
// One layer of surrounding double quotes is removed first.
func Genres(v records.Value) []string {
	out := []string{}
	if l, ok := v.AsList(); ok {
		for _, g := range l {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
			}
		}
		return out
	}

	s, ok := v.AsText()
	if !ok || strings.TrimSpace(s) == "" {
		return out
	}
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)

	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// PrimaryGenre returns the first genre, or UnknownGenre when there is none.
func PrimaryGenre(genres []string) string {
	if len(genres) == 0 {
		return UnknownGenre
	}
	return genres[0]
}
