package sheets

import (
	"context"
	"strings"

	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/orm"
)

// Filter narrows the recipe list. Empty fields match everything.
type Filter struct {
	Query     string           // case-insensitive, over name, preparer and company
	ClientID  string           // exact
	SheetType models.SheetType // exact
}

type Listing struct {
	Recipe     models.Recipe `json:"ficha"`
	ClientName string        `json:"nomeCliente"`
}

func (f Filter) match(r models.Recipe) bool {
	if f.ClientID != "" && r.ClientID != f.ClientID {
		return false
	}
	if f.SheetType != "" && r.SheetType != f.SheetType {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.PreparedBy), q) ||
		strings.Contains(strings.ToLower(r.Company), q)
}

// Search lists matching recipes in storage order with their client names
func (s *Service) Search(ctx context.Context, f Filter) []Listing {
	recipes := orm.NewCollection[models.Recipe, string](s.repos.Recipes.GetAll(ctx)).Filter(f.match)
	clients := orm.ModelsToIDMap[models.Client, string](s.repos.Clients.GetAll(ctx))
	out := make([]Listing, 0, recipes.Len())
	recipes.ForEach(func(r models.Recipe) {
		name := models.MissingClientName
		if c, ok := clients[r.ClientID]; ok {
			name = c.Name
		}
		out = append(out, Listing{Recipe: r, ClientName: name})
	})
	return out
}

// SheetTypes lists the sheet types in use, in order of first appearance
func (s *Service) SheetTypes(ctx context.Context) []models.SheetType {
	recipes := orm.NewCollection[models.Recipe, string](s.repos.Recipes.GetAll(ctx))
	return orm.CollectUniqueToSlice(recipes, func(r models.Recipe) *models.SheetType {
		if r.SheetType == "" {
			return nil
		}
		return &r.SheetType
	})
}
