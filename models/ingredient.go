package models

type Ingredient struct {
	ID               string  `json:"id"`
	RecipeID         string  `json:"fichaId"`
	Name             string  `json:"ingrediente"`
	Quantity         float64 `json:"quantidade"`
	HouseholdMeasure string  `json:"medidaCaseira"` // e.g. "2 xícaras"
}

func (i Ingredient) GetID() string {
	return i.ID
}

func (i Ingredient) GetOwnerID() string {
	return i.RecipeID
}

type IngredientPatch struct {
	Name             *string  `json:"ingrediente,omitempty"`
	Quantity         *float64 `json:"quantidade,omitempty"`
	HouseholdMeasure *string  `json:"medidaCaseira,omitempty"`
}

func (p IngredientPatch) Apply(i *Ingredient) {
	setIf(&i.Name, p.Name)
	setIf(&i.Quantity, p.Quantity)
	setIf(&i.HouseholdMeasure, p.HouseholdMeasure)
}
