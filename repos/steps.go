package repos

import (
	"context"

	"github.com/zeptools/fichas/models"
)

type Steps struct {
	ownedRepo[models.Step]
}

func (r *Steps) GetAll(ctx context.Context) []models.Step {
	return r.all(ctx)
}

func (r *Steps) GetByID(ctx context.Context, id string) (*models.Step, bool) {
	return r.byID(ctx, id)
}

// GetByOwnerID lists a recipe's steps in the order they are performed
func (r *Steps) GetByOwnerID(ctx context.Context, recipeID string) []models.Step {
	return r.byOwner(ctx, recipeID)
}

func (r *Steps) Create(ctx context.Context, s models.Step) (*models.Step, error) {
	s.ID = r.newID()
	return r.insert(ctx, s)
}

func (r *Steps) Update(ctx context.Context, id string, patch models.StepPatch) (*models.Step, bool, error) {
	return r.modify(ctx, id, patch.Apply)
}

func (r *Steps) Delete(ctx context.Context, id string) (bool, error) {
	return r.remove(ctx, id)
}

func (r *Steps) DeleteByOwnerID(ctx context.Context, recipeID string) (int, error) {
	return r.deleteByOwner(ctx, recipeID)
}

func (r *Steps) ReplaceForOwner(ctx context.Context, recipeID string, steps []models.Step) ([]models.Step, error) {
	out := make([]models.Step, len(steps))
	for i, s := range steps {
		s.ID = r.newID()
		s.RecipeID = recipeID
		out[i] = s
	}
	if err := r.replaceOwned(ctx, recipeID, out); err != nil {
		return nil, err
	}
	return out, nil
}
