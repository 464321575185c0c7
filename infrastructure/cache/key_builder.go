package cache

import (
	"sort"
	"strings"
)

// KeySeparator delimits the kind namespace from the serialized parameters
const KeySeparator = ":"

// BuildKey derives a deterministic key from a resource kind and a parameter
// set. Parameter names are sorted lexicographically so set-equal maps key
// identically regardless of insertion order; empty values are omitted so
// implicit defaults and explicit defaults collapse to the same key.
func BuildKey(kind string, params map[string]string) string {
	if len(params) == 0 {
		return kind
	}

	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return kind
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(kind)
	b.WriteString(KeySeparator)
	for i, name := range names {
		if i > 0 {
			b.WriteString("&")
		}
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(params[name])
	}
	return b.String()
}

// EntityKey derives the simpler kind:id key for single-entity lookups
func EntityKey(kind, id string) string {
	return kind + KeySeparator + id
}
