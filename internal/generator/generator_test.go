package generator

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/catvocab/internal/model"
)

func records(ws ...string) []model.WordRecord {
	out := make([]model.WordRecord, 0, len(ws))
	for _, w := range ws {
		out = append(out, model.WordRecord{Word: w, Definition: w})
	}
	return out
}

func wordsOf(recs []model.WordRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Word)
	}
	return out
}

func TestShuffleIsPermutation(t *testing.T) {
	in := records("a", "b", "c", "d", "e", "f")
	g := NewSeeded(42)
	out := wordsOf(g.Shuffle(in))
	sort.Strings(out)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, out)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, wordsOf(in), "input must not be modified")
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	in := records("a", "b", "c", "d", "e", "f", "g", "h")
	assert.Equal(t, wordsOf(NewSeeded(7).Shuffle(in)), wordsOf(NewSeeded(7).Shuffle(in)))
}

func TestRoundSize(t *testing.T) {
	in := records("a", "b", "c", "d")
	g := NewSeeded(1)
	assert.Len(t, g.Round(in, 2), 2)
	assert.Len(t, g.Round(in, 0), 4)
	assert.Len(t, g.Round(in, 10), 4)
	assert.Empty(t, g.Round(nil, 3))
}

func TestRoundWeightedDrawsWithoutReplacement(t *testing.T) {
	in := records("zzz", "abc", "def", "ghi")
	g := NewSeeded(3)
	out := wordsOf(g.RoundWeighted(in, 4, map[rune]struct{}{'z': {}}, 2))
	sort.Strings(out)
	assert.Equal(t, []string{"abc", "def", "ghi", "zzz"}, out)
}

func TestRoundWeightedFavorsWeakWords(t *testing.T) {
	in := records("qqqq", "abc", "def", "ghi", "jkl", "mno")
	weak := map[rune]struct{}{'q': {}}
	g := NewSeeded(11)
	hits := 0
	for i := 0; i < 200; i++ {
		if g.RoundWeighted(in, 1, weak, 5)[0].Word == "qqqq" {
			hits++
		}
	}
	// qqqq weighs 21 against 5 for the rest.
	assert.Greater(t, hits, 120)
}

func TestRoundWeightedWithoutWeakSet(t *testing.T) {
	in := records("a", "b", "c")
	assert.Len(t, NewSeeded(1).RoundWeighted(in, 2, nil, 3), 2)
}
