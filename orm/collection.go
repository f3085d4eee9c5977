package orm

// Collection keeps models addressable by ID while preserving insertion order.
// Models are values. Find returns a copy, Put writes it back.
type Collection[M Identifiable[ID], ID comparable] struct {
	itemsMap   map[ID]M
	orderedIDs []ID
}

func NewEmptyCollection[
	M Identifiable[ID],
	ID comparable,
]() *Collection[M, ID] {
	return &Collection[M, ID]{
		itemsMap:   make(map[ID]M),
		orderedIDs: make([]ID, 0),
	}
}

// NewCollection builds an ordered collection.
// On duplicate IDs the later item wins but keeps the first position.
func NewCollection[
	M Identifiable[ID],
	ID comparable,
](items []M) *Collection[M, ID] {
	coll := &Collection[M, ID]{
		itemsMap:   make(map[ID]M, len(items)),
		orderedIDs: make([]ID, 0, len(items)),
	}
	for _, item := range items {
		coll.Put(item)
	}
	return coll
}

func (c *Collection[M, ID]) Len() int {
	return len(c.orderedIDs)
}

func (c *Collection[M, ID]) Has(id ID) bool {
	_, ok := c.itemsMap[id]
	return ok
}

func (c *Collection[M, ID]) Find(id ID) (M, bool) {
	m, ok := c.itemsMap[id]
	return m, ok
}

// Put appends a new model or replaces an existing one in place
func (c *Collection[M, ID]) Put(item M) {
	id := item.GetID()
	if _, already := c.itemsMap[id]; !already {
		c.orderedIDs = append(c.orderedIDs, id)
	}
	c.itemsMap[id] = item
}

// Remove reports whether the model was present
func (c *Collection[M, ID]) Remove(id ID) bool {
	if _, ok := c.itemsMap[id]; !ok {
		return false
	}
	delete(c.itemsMap, id)
	for i, oid := range c.orderedIDs {
		if oid == id {
			c.orderedIDs = append(c.orderedIDs[:i], c.orderedIDs[i+1:]...)
			break
		}
	}
	return true
}

// RemoveWhere drops every model matching fn and returns how many were dropped
func (c *Collection[M, ID]) RemoveWhere(fn func(M) bool) int {
	kept := c.orderedIDs[:0]
	removed := 0
	for _, id := range c.orderedIDs {
		if fn(c.itemsMap[id]) {
			delete(c.itemsMap, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.orderedIDs = kept
	return removed
}

func (c *Collection[M, ID]) IDs() []ID {
	return append([]ID(nil), c.orderedIDs...)
}

func (c *Collection[M, ID]) Items() []M {
	items := make([]M, 0, len(c.orderedIDs))
	for _, id := range c.orderedIDs {
		items = append(items, c.itemsMap[id])
	}
	return items
}

func (c *Collection[M, ID]) ForEach(fn func(M)) {
	for _, id := range c.orderedIDs {
		fn(c.itemsMap[id])
	}
}

func (c *Collection[M, ID]) Filter(fn func(M) bool) *Collection[M, ID] {
	filtered := &Collection[M, ID]{
		itemsMap:   make(map[ID]M),
		orderedIDs: make([]ID, 0),
	}
	for _, id := range c.orderedIDs {
		item := c.itemsMap[id]
		if fn(item) {
			filtered.itemsMap[id] = item
			filtered.orderedIDs = append(filtered.orderedIDs, id)
		}
	}
	return filtered
}

// CollectUniqueToSlice yields one value per model, skipping nils and duplicates.
// First-occurrence order is kept.
func CollectUniqueToSlice[
	M Identifiable[ID],
	ID comparable,
	V comparable,
](
	c *Collection[M, ID],
	yield func(M) *V,
) []V {
	sl := make([]V, 0, c.Len())
	seen := make(map[V]struct{}, c.Len())
	c.ForEach(func(m M) {
		vp := yield(m)
		if vp == nil {
			return
		}
		if _, exists := seen[*vp]; exists {
			return
		}
		seen[*vp] = struct{}{}
		sl = append(sl, *vp)
	})
	return sl
}
