// Package notebook keeps the saved-words list as a JSON array under a single
// storage key. Entries are append-only and unique by exact word.
package notebook

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/catvocab/internal/model"
)

// StorageKey is the key the notebook is stored under.
const StorageKey = "myCatNotebook"

// KV is a single-key string store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Notebook reads and appends saved words.
type Notebook struct {
	kv  KV
	log *zap.Logger
}

// New returns a Notebook backed by kv.
func New(kv KV, log *zap.Logger) *Notebook {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notebook{kv: kv, log: log}
}

// List returns the saved words in insertion order. Unreadable stored data
// is treated as an empty notebook.
func (n *Notebook) List(ctx context.Context) ([]model.WordRecord, error) {
	raw, ok, err := n.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var words []model.WordRecord
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		n.log.Warn("notebook data is corrupt, starting empty", zap.Error(err))
		return nil, nil
	}
	return words, nil
}

// Contains reports whether word is already saved.
func (n *Notebook) Contains(ctx context.Context, word string) (bool, error) {
	words, err := n.List(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(words, word) >= 0, nil
}

// Add appends rec unless a record with the same word exists. It reports
// whether the record was added.
func (n *Notebook) Add(ctx context.Context, rec model.WordRecord) (bool, error) {
	if rec.Word == "" {
		return false, fmt.Errorf("word is empty")
	}
	words, err := n.List(ctx)
	if err != nil {
		return false, err
	}
	if indexOf(words, rec.Word) >= 0 {
		return false, nil
	}
	words = append(words, rec)
	data, err := json.Marshal(words)
	if err != nil {
		return false, fmt.Errorf("failed to encode notebook: %w", err)
	}
	if err := n.kv.Put(ctx, StorageKey, string(data)); err != nil {
		return false, fmt.Errorf("failed to write notebook: %w", err)
	}
	n.log.Info("word saved to notebook", zap.String("word", rec.Word), zap.Int("size", len(words)))
	return true, nil
}

func indexOf(words []model.WordRecord, word string) int {
	for i, w := range words {
		if w.Word == word {
			return i
		}
	}
	return -1
}
