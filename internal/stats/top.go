package stats

import (
	"sort"

	"github.com/verte-zerg/catvocab/internal/model"
)

// TopCharsByFrequency returns the n characters typed most often.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.CharAggregate, len(aggs))
	copy(items, aggs)
	total := func(a model.CharAggregate) int { return a.Correct + a.Rejected }
	sort.Slice(items, func(i, j int) bool {
		ti, tj := total(items[i]), total(items[j])
		if ti == tj {
			return items[i].Char < items[j].Char
		}
		return ti > tj
	})
	n = min(n, len(items))
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.Char)
	}
	return out
}
