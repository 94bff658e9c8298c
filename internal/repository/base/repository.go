package base

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tanqtrail-arch/Absence/internal/store"
)

// Collection базовый репозиторий: одна JSON-коллекция под одним ключом хранилища
type Collection[T any] struct {
	store store.Store
	key   string
}

// NewCollection создаёт коллекцию поверх ключа key
func NewCollection[T any](st store.Store, key string) *Collection[T] {
	return &Collection[T]{store: st, key: key}
}

// Load читает все записи. found = false, если ключ ещё ни разу не записывался
func (c *Collection[T]) Load(ctx context.Context) (items []*T, found bool, err error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", c.key, err)
	}

	if raw == nil {
		return []*T{}, false, nil
	}

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", c.key, err)
	}

	if items == nil {
		items = []*T{}
	}

	return items, true, nil
}

// All читает все записи, отсутствующий ключ даёт пустую коллекцию
func (c *Collection[T]) All(ctx context.Context) ([]*T, error) {
	items, _, err := c.Load(ctx)
	return items, err
}

// Save перезаписывает коллекцию целиком
func (c *Collection[T]) Save(ctx context.Context, items []*T) error {
	if items == nil {
		items = []*T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}

	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}

	return nil
}
