// Package dedup holds the in-memory natural-key index used to filter fetched
// records against what the store already has. A Set is loaded once per
// fetcher invocation and discarded at the end of it; it is never written
// back to the store.
package dedup

import "strings"

// sep keeps joined key parts unambiguous: no natural-key field contains a
// unit separator.
const sep = "\x1f"

// Key encodes a natural-key tuple as a single string.
func Key(parts ...string) string {
	return strings.Join(parts, sep)
}

type Set map[string]struct{}

func New(keys ...string) Set {
	s := make(Set, len(keys))
	for _, key := range keys {
		s.Add(key)
	}
	return s
}

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Set) Add(key string) {
	s[key] = struct{}{}
}

func (s Set) Len() int { return len(s) }
