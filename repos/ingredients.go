package repos

import (
	"context"

	"github.com/zeptools/fichas/models"
)

type Ingredients struct {
	ownedRepo[models.Ingredient]
}

func (r *Ingredients) GetAll(ctx context.Context) []models.Ingredient {
	return r.all(ctx)
}

func (r *Ingredients) GetByID(ctx context.Context, id string) (*models.Ingredient, bool) {
	return r.byID(ctx, id)
}

// GetByOwnerID lists a recipe's ingredients in insertion order
func (r *Ingredients) GetByOwnerID(ctx context.Context, recipeID string) []models.Ingredient {
	return r.byOwner(ctx, recipeID)
}

// Create does not check that RecipeID exists; the caller does
func (r *Ingredients) Create(ctx context.Context, in models.Ingredient) (*models.Ingredient, error) {
	in.ID = r.newID()
	return r.insert(ctx, in)
}

func (r *Ingredients) Update(ctx context.Context, id string, patch models.IngredientPatch) (*models.Ingredient, bool, error) {
	return r.modify(ctx, id, patch.Apply)
}

func (r *Ingredients) Delete(ctx context.Context, id string) (bool, error) {
	return r.remove(ctx, id)
}

func (r *Ingredients) DeleteByOwnerID(ctx context.Context, recipeID string) (int, error) {
	return r.deleteByOwner(ctx, recipeID)
}

// ReplaceForOwner drops the recipe's ingredients and stores ins in their place, with fresh ids
func (r *Ingredients) ReplaceForOwner(ctx context.Context, recipeID string, ins []models.Ingredient) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, len(ins))
	for i, in := range ins {
		in.ID = r.newID()
		in.RecipeID = recipeID
		out[i] = in
	}
	if err := r.replaceOwned(ctx, recipeID, out); err != nil {
		return nil, err
	}
	return out, nil
}
