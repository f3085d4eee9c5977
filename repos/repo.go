package repos

import (
	"context"

	"github.com/zeptools/fichas/orm"
	"github.com/zeptools/fichas/records"
	"go.uber.org/zap"
)

// repo is the shared read-modify-write core. Every mutation loads the whole
// slot, edits it as an ordered collection and saves it back.
type repo[T orm.Identifiable[string]] struct {
	coll    records.Collection[T]
	newID   func() string
	cascade CascadePolicy
	logger  *zap.Logger
}

func newRepo[T orm.Identifiable[string]](
	store *records.Store,
	key records.Key,
	newID func() string,
	cascade CascadePolicy,
	logger *zap.Logger,
) repo[T] {
	return repo[T]{
		coll:    records.For[T](store, key),
		newID:   newID,
		cascade: cascade,
		logger:  logger.With(zap.String("key", string(key))),
	}
}

func (r repo[T]) load(ctx context.Context) *orm.Collection[T, string] {
	return orm.NewCollection[T, string](r.coll.GetAll(ctx))
}

func (r repo[T]) save(ctx context.Context, c *orm.Collection[T, string]) error {
	return r.coll.SaveAll(ctx, c.Items())
}

func (r repo[T]) all(ctx context.Context) []T {
	return r.coll.GetAll(ctx)
}

func (r repo[T]) byID(ctx context.Context, id string) (*T, bool) {
	item, ok := r.load(ctx).Find(id)
	if !ok {
		return nil, false
	}
	return &item, true
}

func (r repo[T]) insert(ctx context.Context, item T) (*T, error) {
	c := r.load(ctx)
	c.Put(item)
	if err := r.save(ctx, c); err != nil {
		return nil, err
	}
	r.logger.Debug("created", zap.String("id", item.GetID()))
	return &item, nil
}

// modify applies fn to the stored item. false = no such id, nothing written.
func (r repo[T]) modify(ctx context.Context, id string, fn func(*T)) (*T, bool, error) {
	c := r.load(ctx)
	item, ok := c.Find(id)
	if !ok {
		return nil, false, nil
	}
	fn(&item)
	c.Put(item)
	if err := r.save(ctx, c); err != nil {
		return nil, true, err
	}
	return &item, true, nil
}

// remove deletes dependents first, then the item itself
func (r repo[T]) remove(ctx context.Context, id string) (bool, error) {
	if !r.load(ctx).Has(id) {
		return false, nil
	}
	if err := r.cascade.Run(ctx, r.coll.Key(), id); err != nil {
		return false, err
	}
	// reload, a dependent may share the slot
	c := r.load(ctx)
	if !c.Remove(id) {
		return false, nil
	}
	if err := r.save(ctx, c); err != nil {
		return false, err
	}
	r.logger.Debug("deleted", zap.String("id", id))
	return true, nil
}

func (r repo[T]) removeWhere(ctx context.Context, fn func(T) bool) (int, error) {
	c := r.load(ctx)
	n := c.RemoveWhere(fn)
	if n == 0 {
		return 0, nil
	}
	if err := r.save(ctx, c); err != nil {
		return 0, err
	}
	return n, nil
}
