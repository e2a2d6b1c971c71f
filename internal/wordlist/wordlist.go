// Package wordlist loads the vocabulary feed.
package wordlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/catvocab/internal/model"
)

var validate = validator.New()

// LoadRecords reads a JSON array of word records from the provided file path.
func LoadRecords(path string) ([]model.WordRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return DecodeRecords(file)
}

// DecodeRecords decodes and validates a JSON word feed. Invalid records are
// skipped; an error is returned only when no record survives.
func DecodeRecords(r io.Reader) ([]model.WordRecord, error) {
	var raw []model.WordRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode word list: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}

	records := make([]model.WordRecord, 0, len(raw))
	var errs []error
	for i, rec := range raw {
		if err := validate.Struct(rec); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("word list has no valid records: %w", errors.Join(errs...))
	}
	return records, nil
}
