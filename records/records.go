// Package records persists whole entity collections, one JSON array per slot.
//
// Reads fail soft: an absent, unreadable or malformed slot is an empty collection.
// Writes replace the slot and report failure to the caller.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zeptools/fichas/db/kvdb"
	"go.uber.org/zap"
)

type Key string

// Slot keys. These names are the storage format; do not rename.
const (
	KeyRecipes     Key = "fichas_tecnicas"
	KeyClients     Key = "clientes"
	KeyIngredients Key = "ingredientes"
	KeySteps       Key = "passos"
)

var Keys = []Key{KeyRecipes, KeyClients, KeyIngredients, KeySteps}

type Store struct {
	kv     kvdb.Client
	logger *zap.Logger
}

func NewStore(kv kvdb.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger.Named("records")}
}

// Collection is a typed handle on one slot
type Collection[T any] struct {
	store *Store
	key   Key
}

func For[T any](s *Store, key Key) Collection[T] {
	return Collection[T]{store: s, key: key}
}

func (c Collection[T]) Key() Key {
	return c.key
}

// GetAll never fails. Problems are logged and yield an empty slice.
func (c Collection[T]) GetAll(ctx context.Context) []T {
	raw, found, err := c.store.kv.Get(ctx, string(c.key))
	if err != nil {
		c.store.logger.Warn("read failed, using empty collection", zap.String("key", string(c.key)), zap.Error(err))
		return []T{}
	}
	if !found || raw == "" {
		return []T{}
	}
	var items []T
	if err = json.Unmarshal([]byte(raw), &items); err != nil {
		c.store.logger.Warn("malformed slot, using empty collection", zap.String("key", string(c.key)), zap.Error(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// SaveAll overwrites the slot with items
func (c Collection[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		c.store.logger.Error("serialize failed", zap.String("key", string(c.key)), zap.Error(err))
		return fmt.Errorf("records: serialize %s: %w", c.key, err)
	}
	if err = c.store.kv.Set(ctx, string(c.key), string(data)); err != nil {
		c.store.logger.Error("write failed", zap.String("key", string(c.key)), zap.Int("items", len(items)), zap.Error(err))
		return fmt.Errorf("records: write %s: %w", c.key, err)
	}
	c.store.logger.Debug("slot saved", zap.String("key", string(c.key)), zap.Int("items", len(items)), zap.Int("bytes", len(data)))
	return nil
}
