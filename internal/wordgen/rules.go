// Package wordgen turns personal facts into candidate passwords.
//
// Generation runs in two stages. BuildBaseWords lowercases every fact and adds
// every ordered pair of facts concatenated together. A Mangler then expands a
// bounded random sample of those words with case variants, leet substitution,
// numeric and year suffixes, and symbol affixes.
//
// Nothing in this package performs I/O, logs, or reads ambient configuration.
// All tunables live in Rules and randomness is injected through Rand.
package wordgen

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// DefaultSampleCap is the number of words that receive full per-word mangling.
const DefaultSampleCap = 500

// Rules configures the mangling engine.
type Rules struct {
	Years     []string        // literal suffixes, never derived from a clock
	Symbols   []string        // each used once as suffix and once as prefix
	Leet      map[rune]string // letter -> substitute, applied char by char
	SuffixMin int             // inclusive
	SuffixMax int             // exclusive
	SampleCap int             // 0 = mangle every input word
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		Years:   []string{"1990", "1995", "1999", "2000", "2001", "2010", "2020", "2023", "2024"},
		Symbols: []string{"!", "@", "#", "$", "%", "&", "*", "?"},
		Leet: map[rune]string{
			'a': "@",
			'e': "3",
			'i': "1",
			'l': "1",
			'o': "0",
			's': "$",
		},
		SuffixMin: 0,
		SuffixMax: 1000,
		SampleCap: DefaultSampleCap,
	}
}

// Validate reports the first inconsistency in r.
func (r Rules) Validate() error {
	if r.SuffixMin < 0 {
		return fmt.Errorf("suffix range start must be >= 0, got %d", r.SuffixMin)
	}
	if r.SuffixMax < r.SuffixMin {
		return fmt.Errorf("suffix range end %d is below start %d", r.SuffixMax, r.SuffixMin)
	}
	if r.SampleCap < 0 {
		return fmt.Errorf("sample cap must be >= 0, got %d", r.SampleCap)
	}
	for k := range r.Leet {
		if !unicode.IsLetter(k) {
			return fmt.Errorf("leet key %q is not a letter", k)
		}
	}
	for _, s := range r.Symbols {
		if utf8.RuneCountInString(s) != 1 {
			return fmt.Errorf("symbol %q must be a single character", s)
		}
	}
	return nil
}

// ExpansionPerVariant is the number of candidates one variant can produce.
func (r Rules) ExpansionPerVariant() int {
	return len(r.Years) + (r.SuffixMax - r.SuffixMin) + 2*len(r.Symbols)
}

// Clone returns a deep copy so callers can override fields safely.
func (r Rules) Clone() Rules {
	out := r
	out.Years = append([]string(nil), r.Years...)
	out.Symbols = append([]string(nil), r.Symbols...)
	out.Leet = make(map[rune]string, len(r.Leet))
	for k, v := range r.Leet {
		out.Leet[k] = v
	}
	return out
}
