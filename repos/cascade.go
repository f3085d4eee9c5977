package repos

import (
	"context"
	"fmt"

	"github.com/zeptools/fichas/records"
)

// Dependent describes one collection whose records belong to an owner.
// OwnerField is the JSON name of the foreign key, kept for diagnostics.
type Dependent struct {
	Key           records.Key
	OwnerField    string
	DeleteByOwner func(ctx context.Context, ownerID string) (int, error)
}

// CascadePolicy maps an owner collection to the collections deleted with it
type CascadePolicy map[records.Key][]Dependent

func (p CascadePolicy) Register(owner records.Key, deps ...Dependent) {
	p[owner] = append(p[owner], deps...)
}

func (p CascadePolicy) Dependents(owner records.Key) []Dependent {
	return p[owner]
}

// Run deletes every dependent of ownerID in registration order and stops at the first failure
func (p CascadePolicy) Run(ctx context.Context, owner records.Key, ownerID string) error {
	for _, d := range p[owner] {
		if _, err := d.DeleteByOwner(ctx, ownerID); err != nil {
			return fmt.Errorf("cascade %s -> %s (%s=%s): %w", owner, d.Key, d.OwnerField, ownerID, err)
		}
	}
	return nil
}

// OwnedBy builds the Dependent entry for an owned repository
func OwnedBy[T ownedModel](r ownedRepo[T], ownerField string) Dependent {
	return Dependent{
		Key:           r.coll.Key(),
		OwnerField:    ownerField,
		DeleteByOwner: r.deleteByOwner,
	}
}
