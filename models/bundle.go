package models

// Bundle is everything needed to view or print one recipe
type Bundle struct {
	Recipe      Recipe       `json:"ficha"`
	Client      Client       `json:"cliente"`
	Ingredients []Ingredient `json:"ingredientes"`
	Steps       []Step       `json:"passos"`
}
