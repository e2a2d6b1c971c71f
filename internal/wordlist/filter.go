// Package wordlist provides library search helpers.
package wordlist

import (
	"strings"

	"github.com/verte-zerg/catvocab/internal/model"
)

// Search returns the records whose word contains query ignoring case, or
// whose definition contains query verbatim. An empty query matches all.
func Search(records []model.WordRecord, query string) []model.WordRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]model.WordRecord(nil), records...)
	}
	lower := strings.ToLower(query)
	out := make([]model.WordRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Word), lower) || strings.Contains(rec.Definition, query) {
			out = append(out, rec)
		}
	}
	return out
}

// Find returns the record with exactly the given word.
func Find(records []model.WordRecord, word string) (model.WordRecord, bool) {
	for _, rec := range records {
		if rec.Word == word {
			return rec, true
		}
	}
	return model.WordRecord{}, false
}
