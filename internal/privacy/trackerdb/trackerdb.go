// File: internal/privacy/trackerdb/trackerdb.go

// Package trackerdb holds the static tracker and partner knowledge bases as
// structured tables, separated from the matching logic so the data can be
// tested and extended independently.
package trackerdb

import "strings"

// Entry is one row of a knowledge-base table: a lowercase substring matcher
// plus the metadata attached to a match.
type Entry struct {
	Pattern  string // matched case-insensitively as a substring
	Name     string // canonical tracker/vendor name
	Category string // optional sub-classification
}

// Match returns the first entry whose pattern occurs in subject.
func Match(subject string, table []Entry) (Entry, bool) {
	s := strings.ToLower(subject)
	for _, e := range table {
		if strings.Contains(s, e.Pattern) {
			return e, true
		}
	}
	return Entry{}, false
}

// DistinctNames matches every subject against the table and returns the
// canonical names that matched, in table order, without duplicates.
func DistinctNames(subjects []string, table []Entry) []string {
	seen := make(map[string]bool)
	for _, subject := range subjects {
		if e, ok := Match(subject, table); ok {
			seen[e.Name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for _, e := range table {
		if seen[e.Name] {
			out = append(out, e.Name)
			seen[e.Name] = false
		}
	}
	return out
}

// CountMatches returns how many subjects match at least one entry.
func CountMatches(subjects []string, table []Entry) int {
	n := 0
	for _, subject := range subjects {
		if _, ok := Match(subject, table); ok {
			n++
		}
	}
	return n
}

// MatchName matches a cookie name or storage key against the table. A
// pattern matches the whole name, or acts as a prefix when it begins or
// ends with an underscore. Bare substring matching is too loose for short
// cookie names like "fr".
func MatchName(name string, table []Entry) (Entry, bool) {
	n := strings.ToLower(name)
	for _, e := range table {
		if n == e.Pattern {
			return e, true
		}
		if (strings.HasPrefix(e.Pattern, "_") || strings.HasSuffix(e.Pattern, "_")) &&
			strings.HasPrefix(n, e.Pattern) {
			return e, true
		}
	}
	return Entry{}, false
}

// CountNameMatches returns how many names match at least one entry under
// MatchName semantics.
func CountNameMatches(names []string, table []Entry) int {
	n := 0
	for _, name := range names {
		if _, ok := MatchName(name, table); ok {
			n++
		}
	}
	return n
}

// DistinctNameMatches returns the canonical names matched by any of the
// given cookie/storage names, in table order, without duplicates.
func DistinctNameMatches(names []string, table []Entry) []string {
	seen := make(map[string]bool)
	for _, name := range names {
		if e, ok := MatchName(name, table); ok {
			seen[e.Name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for _, e := range table {
		if seen[e.Name] {
			out = append(out, e.Name)
			seen[e.Name] = false
		}
	}
	return out
}
