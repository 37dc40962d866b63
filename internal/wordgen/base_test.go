package wordgen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ggsatyam/meowpass/internal/facts"
)

func TestBuildBaseWordsScenario(t *testing.T) {
	got := BuildBaseWords(facts.Facts{"pet": {"Fluffy"}, "year": {"1999"}})
	want := NewSet("fluffy", "1999", "fluffy1999", "1999fluffy")

	if diff := cmp.Diff(want.Sorted(), got.Sorted()); diff != "" {
		t.Fatalf("base words mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildBaseWordsContainsFactsAndPairs(t *testing.T) {
	f := facts.Facts{
		"names": {"Alice", "BOB"},
		"pets":  {"Cat", "dog"},
	}
	got := BuildBaseWords(f)

	lowered := []string{"alice", "bob", "cat", "dog"}
	for _, w := range lowered {
		assert.True(t, got.Has(w), "missing fact %q", w)
	}
	for i, a := range lowered {
		for j, b := range lowered {
			if i == j {
				continue
			}
			assert.True(t, got.Has(a+b), "missing pair %q", a+b)
		}
	}
	assert.False(t, got.Has("alicealice"), "a fact must not pair with itself")
	assert.LessOrEqual(t, got.Len(), MaxBaseWords(f.Count()))
	assert.Equal(t, 4+4*3, got.Len())
}

func TestBuildBaseWordsDuplicateFactsPair(t *testing.T) {
	got := BuildBaseWords(facts.Facts{"a": {"Max"}, "b": {"max"}})

	assert.Equal(t, NewSet("max", "maxmax").Sorted(), got.Sorted())
}

func TestBuildBaseWordsEmpty(t *testing.T) {
	assert.Equal(t, 0, BuildBaseWords(facts.Facts{}).Len())
	assert.Equal(t, 0, BuildBaseWords(facts.Facts{"pets": nil}).Len())
}

func TestBuildBaseWordsUnicodeLowercase(t *testing.T) {
	got := BuildBaseWords(facts.Facts{"city": {"ÖREBRO"}})
	assert.True(t, got.Has("örebro"))
}
