// Package repos exposes typed repositories over the record store.
// Referential rules live here: ids and timestamps are assigned on create,
// and deleting an owner runs the cascade policy before the owner is removed.
package repos

import (
	"time"

	"github.com/google/uuid"
	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/records"
	"go.uber.org/zap"
)

type Options struct {
	Clock  func() time.Time // default time.Now
	NewID  func() string    // default uuid v4
	Logger *zap.Logger
}

type Repos struct {
	Recipes     *Recipes
	Clients     *Clients
	Ingredients *Ingredients
	Steps       *Steps
	Cascade     CascadePolicy
}

// New wires the four repositories to store and registers
// recipes -> [ingredients, steps] in the cascade policy.
func New(store *records.Store, opts Options) *Repos {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger.Named("repos")
	cascade := CascadePolicy{}
	now := func() time.Time {
		// millisecond UTC, the precision the stored timestamps keep
		return opts.Clock().UTC().Truncate(time.Millisecond)
	}

	r := &Repos{
		Recipes:     &Recipes{repo: newRepo[models.Recipe](store, records.KeyRecipes, opts.NewID, cascade, logger), now: now},
		Clients:     &Clients{repo: newRepo[models.Client](store, records.KeyClients, opts.NewID, cascade, logger)},
		Ingredients: &Ingredients{ownedRepo: ownedRepo[models.Ingredient]{newRepo[models.Ingredient](store, records.KeyIngredients, opts.NewID, cascade, logger)}},
		Steps:       &Steps{ownedRepo: ownedRepo[models.Step]{newRepo[models.Step](store, records.KeySteps, opts.NewID, cascade, logger)}},
		Cascade:     cascade,
	}
	cascade.Register(records.KeyRecipes,
		OwnedBy(r.Ingredients.ownedRepo, "fichaId"),
		OwnedBy(r.Steps.ownedRepo, "fichaId"),
	)
	return r
}
