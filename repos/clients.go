package repos

import (
	"context"

	"github.com/zeptools/fichas/models"
)

// Clients are independent. Deleting one leaves its recipes pointing at nothing.
type Clients struct {
	repo repo[models.Client]
}

func (r *Clients) GetAll(ctx context.Context) []models.Client {
	return r.repo.all(ctx)
}

func (r *Clients) GetByID(ctx context.Context, id string) (*models.Client, bool) {
	return r.repo.byID(ctx, id)
}

// Create ignores c.ID and assigns a fresh one
func (r *Clients) Create(ctx context.Context, c models.Client) (*models.Client, error) {
	c.ID = r.repo.newID()
	return r.repo.insert(ctx, c)
}

func (r *Clients) Update(ctx context.Context, id string, patch models.ClientPatch) (*models.Client, bool, error) {
	return r.repo.modify(ctx, id, patch.Apply)
}

func (r *Clients) Delete(ctx context.Context, id string) (bool, error) {
	return r.repo.remove(ctx, id)
}
