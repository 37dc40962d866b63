package wordgen

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rand is the randomness the sampler needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomSource returns a source seeded from the clock.
func RandomSource() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}

// Sample picks up to n elements of words uniformly without replacement.
// words is never modified. When n <= 0 or len(words) <= n a copy of the
// whole input is returned.
func Sample(r Rand, words []string, n int) []string {
	pool := append([]string(nil), words...)
	if n <= 0 || len(pool) <= n {
		return pool
	}
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Mangler expands words into password-like variants.
// A Mangler is not safe for concurrent use.
type Mangler struct {
	rules Rules
	rand  Rand
	title cases.Caser
	upper cases.Caser
	lower cases.Caser
}

// NewMangler returns a Mangler applying rules. A nil r uses RandomSource.
func NewMangler(rules Rules, r Rand) *Mangler {
	if r == nil {
		r = RandomSource()
	}
	return &Mangler{
		rules: rules,
		rand:  r,
		title: cases.Title(language.Und),
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// Mangle returns a set seeded with every input word verbatim, enlarged with
// the expansions of a random sample of at most Rules.SampleCap words.
func (m *Mangler) Mangle(words []string) Set {
	out := NewSet(words...)

	for _, word := range Sample(m.rand, words, m.rules.SampleCap) {
		for _, v := range m.Variants(word) {
			m.expand(out, v)
		}
	}
	return out
}

// Variants returns the deduplicated base variants of word: unchanged,
// capitalized, upper-cased and leet-substituted. Transformations are never
// composed.
func (m *Mangler) Variants(word string) []string {
	candidates := [4]string{word, m.capitalize(word), m.upper.String(word), m.leet(word)}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (m *Mangler) expand(out Set, v string) {
	for _, year := range m.rules.Years {
		out.Add(v + year)
	}
	for i := m.rules.SuffixMin; i < m.rules.SuffixMax; i++ {
		out.Add(v + strconv.Itoa(i))
	}
	for _, sym := range m.rules.Symbols {
		out.Add(v + sym)
		out.Add(sym + v)
	}
}

// capitalize title-cases the first rune, which may expand ("ß" -> "Ss"), and
// lower-cases the rest.
func (m *Mangler) capitalize(word string) string {
	if word == "" {
		return word
	}
	_, size := utf8.DecodeRuneInString(word)
	return m.title.String(word[:size]) + m.lower.String(word[size:])
}

func (m *Mangler) leet(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if sub, ok := m.rules.Leet[r]; ok {
			b.WriteString(sub)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Mangle applies DefaultRules with a clock-seeded source.
func Mangle(words []string) Set {
	return NewMangler(DefaultRules(), nil).Mangle(words)
}
