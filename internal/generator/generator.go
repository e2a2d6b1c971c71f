// Package generator orders word records for cards and drill rounds.
package generator

import (
	"math/rand"
	"time"
	"unicode"

	"github.com/verte-zerg/catvocab/internal/model"
)

// Generator produces randomized word orders.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a Fisher-Yates shuffled copy of records.
func (g *Generator) Shuffle(records []model.WordRecord) []model.WordRecord {
	out := make([]model.WordRecord, len(records))
	copy(out, records)
	for i := len(out) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Round returns count shuffled records, or all of them when count <= 0 or
// exceeds the list.
func (g *Generator) Round(records []model.WordRecord, count int) []model.WordRecord {
	out := g.Shuffle(records)
	if count <= 0 || count >= len(out) {
		return out
	}
	return out[:count]
}

// RoundWeighted draws count records without replacement, biased toward words
// containing runes from weakSet. Each weak rune adds factor to a word's weight.
func (g *Generator) RoundWeighted(records []model.WordRecord, count int, weakSet map[rune]struct{}, factor float64) []model.WordRecord {
	if len(weakSet) == 0 || factor <= 0 {
		return g.Round(records, count)
	}
	if count <= 0 || count > len(records) {
		count = len(records)
	}
	pool := make([]model.WordRecord, len(records))
	copy(pool, records)
	weights := make([]float64, len(pool))
	total := 0.0
	for i, rec := range pool {
		weakCount := 0
		for _, r := range rec.Word {
			if _, ok := weakSet[unicode.ToLower(r)]; ok {
				weakCount++
			}
		}
		weights[i] = 1.0 + float64(weakCount)*factor
		total += weights[i]
	}

	result := make([]model.WordRecord, 0, count)
	for len(result) < count {
		r := g.rnd.Float64() * total
		idx := len(pool) - 1
		acc := 0.0
		for j, w := range weights {
			acc += w
			if r < acc {
				idx = j
				break
			}
		}
		result = append(result, pool[idx])
		total -= weights[idx]
		last := len(pool) - 1
		pool[idx], weights[idx] = pool[last], weights[last]
		pool, weights = pool[:last], weights[:last]
	}
	return result
}
