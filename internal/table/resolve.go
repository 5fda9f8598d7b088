package table

import "strings"

// Normalize canonicalizes a column name for matching: case folded, trimmed,
// internal whitespace runs collapsed to one space, NBSP mapped to an
// ordinary space, zero-width characters and byte-order marks stripped.
// Real-world export headers carry all of these.
func Normalize(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0': // non-breaking space
			return ' '
		case '\u200b', '\u200c', '\u200d', '\ufeff': // zero-width joiners, BOM
			return -1
		}
		return r
	}, name)
	return strings.ToLower(strings.Join(strings.Fields(mapped), " "))
}

// Resolve returns the first column whose normalized form equals the
// normalized target, preserving the column's raw spelling for later exact
// lookups. The second return is false when no column matches.
func Resolve(columns []string, target string) (string, bool) {
	want := Normalize(target)
	for _, c := range columns {
		if Normalize(c) == want {
			return c, true
		}
	}
	return "", false
}

// ResolveAny tries each candidate spelling in order and returns the first
// column that resolves. Spellings later in the list are never consulted once
// an earlier one matches.
func ResolveAny(columns []string, spellings []string) (string, bool) {
	for _, s := range spellings {
		if c, ok := Resolve(columns, s); ok {
			return c, true
		}
	}
	return "", false
}
