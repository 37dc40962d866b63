package wordgen

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ggsatyam/meowpass/internal/facts"
)

// BuildBaseWords returns every fact lowercased plus every ordered pair of
// distinct fact positions concatenated without a separator. Both "catdog" and
// "dogcat" are produced. An empty mapping yields an empty set.
func BuildBaseWords(f facts.Facts) Set {
	lower := cases.Lower(language.Und)

	flat := f.Flatten()
	keywords := make([]string, len(flat))
	for i, v := range flat {
		keywords[i] = lower.String(v)
	}

	out := make(Set, len(keywords)*len(keywords))
	for _, k := range keywords {
		out.Add(k)
	}
	for i, a := range keywords {
		for j, b := range keywords {
			if i == j {
				continue
			}
			out.Add(a + b)
		}
	}
	return out
}

// MaxBaseWords is the size bound F + F*(F-1) for F facts.
func MaxBaseWords(factCount int) int {
	return factCount + factCount*(factCount-1)
}
