package wordgen

import "sort"

// Set is an unordered collection of unique candidate passwords.
type Set map[string]struct{}

// NewSet returns a set holding words.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Add inserts w.
func (s Set) Add(w string) { s[w] = struct{}{} }

// Has reports whether w is a member.
func (s Set) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Len is the number of members.
func (s Set) Len() int { return len(s) }

// Union adds every member of other to s and returns s.
func (s Set) Union(other Set) Set {
	for w := range other {
		s[w] = struct{}{}
	}
	return s
}

// Slice returns the members in no particular order.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	return out
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := s.Slice()
	sort.Strings(out)
	return out
}
