package repos

import (
	"context"
	"slices"
	"time"

	"github.com/zeptools/fichas/models"
)

type Recipes struct {
	repo repo[models.Recipe]
	now  func() time.Time
}

func (r *Recipes) GetAll(ctx context.Context) []models.Recipe {
	return r.repo.all(ctx)
}

func (r *Recipes) GetByID(ctx context.Context, id string) (*models.Recipe, bool) {
	return r.repo.byID(ctx, id)
}

// Create assigns id, createdAt and updatedAt; whatever the caller put there is dropped
func (r *Recipes) Create(ctx context.Context, rec models.Recipe) (*models.Recipe, error) {
	now := r.now()
	rec.ID = r.repo.newID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Utensils == nil {
		rec.Utensils = []string{}
	} else {
		rec.Utensils = slices.Clone(rec.Utensils)
	}
	return r.repo.insert(ctx, rec)
}

// Update merges patch and refreshes updatedAt
func (r *Recipes) Update(ctx context.Context, id string, patch models.RecipePatch) (*models.Recipe, bool, error) {
	return r.repo.modify(ctx, id, func(rec *models.Recipe) {
		patch.Apply(rec)
		if rec.Utensils == nil {
			rec.Utensils = []string{}
		}
		rec.UpdatedAt = r.now()
	})
}

// Delete removes the recipe after its ingredients and steps
func (r *Recipes) Delete(ctx context.Context, id string) (bool, error) {
	return r.repo.remove(ctx, id)
}
