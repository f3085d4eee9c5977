package repos

import (
	"context"

	"github.com/zeptools/fichas/orm"
)

type ownedModel interface {
	orm.Owned[string]
}

// ownedRepo adds owner-keyed queries for models that belong to a recipe
type ownedRepo[T ownedModel] struct {
	repo[T]
}

func (r ownedRepo[T]) byOwner(ctx context.Context, ownerID string) []T {
	out := make([]T, 0)
	for _, item := range r.all(ctx) {
		if item.GetOwnerID() == ownerID {
			out = append(out, item)
		}
	}
	return out
}

func (r ownedRepo[T]) deleteByOwner(ctx context.Context, ownerID string) (int, error) {
	n, err := r.removeWhere(ctx, func(item T) bool { return item.GetOwnerID() == ownerID })
	if n > 0 {
		r.logger.Debug("deleted by owner", zapOwner(ownerID), zapCount(n))
	}
	return n, err
}

// replaceOwned swaps all of ownerID's items for items in a single write.
// The new items go to the end of the slot.
func (r ownedRepo[T]) replaceOwned(ctx context.Context, ownerID string, items []T) error {
	c := r.load(ctx)
	c.RemoveWhere(func(item T) bool { return item.GetOwnerID() == ownerID })
	for _, item := range items {
		c.Put(item)
	}
	return r.save(ctx, c)
}
