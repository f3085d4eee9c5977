package models

import (
	"slices"
	"time"
)

type SheetType string

const (
	SheetTypeSubRecipe SheetType = "Subficha"
	SheetTypeMainDish  SheetType = "Prato principal"
)

var SheetTypes = []SheetType{SheetTypeSubRecipe, SheetTypeMainDish}

func (t SheetType) Valid() bool {
	return slices.Contains(SheetTypes, t)
}

// Recipe is a technical sheet (ficha técnica)
type Recipe struct {
	ID              string    `json:"id"`
	SheetType       SheetType `json:"tipoFicha"`
	Name            string    `json:"nomeReceita"`
	PreparationWt   float64   `json:"pesoPreparacao"` // grams
	PortionWt       float64   `json:"pesoPorcao"`     // grams
	Utensils        []string  `json:"utensilhosNecessarios"`
	ApprovedBy      string    `json:"aprovadoPor"`
	PreparationTime int       `json:"tempoPreparo"` // minutes
	Yield           int       `json:"rendimento"`   // portions
	PreparedBy      string    `json:"realizadoPor"`
	Company         string    `json:"empresa"`
	Photo           string    `json:"fotoProduto,omitempty"` // data URI
	ClientID        string    `json:"clienteId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (r Recipe) GetID() string {
	return r.ID
}

type RecipePatch struct {
	SheetType       *SheetType `json:"tipoFicha,omitempty"`
	Name            *string    `json:"nomeReceita,omitempty"`
	PreparationWt   *float64   `json:"pesoPreparacao,omitempty"`
	PortionWt       *float64   `json:"pesoPorcao,omitempty"`
	Utensils        *[]string  `json:"utensilhosNecessarios,omitempty"`
	ApprovedBy      *string    `json:"aprovadoPor,omitempty"`
	PreparationTime *int       `json:"tempoPreparo,omitempty"`
	Yield           *int       `json:"rendimento,omitempty"`
	PreparedBy      *string    `json:"realizadoPor,omitempty"`
	Company         *string    `json:"empresa,omitempty"`
	Photo           *string    `json:"fotoProduto,omitempty"`
	ClientID        *string    `json:"clienteId,omitempty"`
}

// Apply leaves ID and timestamps alone; the repository owns them
func (p RecipePatch) Apply(r *Recipe) {
	setIf(&r.SheetType, p.SheetType)
	setIf(&r.Name, p.Name)
	setIf(&r.PreparationWt, p.PreparationWt)
	setIf(&r.PortionWt, p.PortionWt)
	if p.Utensils != nil {
		r.Utensils = slices.Clone(*p.Utensils)
	}
	setIf(&r.ApprovedBy, p.ApprovedBy)
	setIf(&r.PreparationTime, p.PreparationTime)
	setIf(&r.Yield, p.Yield)
	setIf(&r.PreparedBy, p.PreparedBy)
	setIf(&r.Company, p.Company)
	setIf(&r.Photo, p.Photo)
	setIf(&r.ClientID, p.ClientID)
}

// PatchOf returns a patch that overwrites every user-editable field with r's values
func PatchOf(r Recipe) RecipePatch {
	utensils := slices.Clone(r.Utensils)
	return RecipePatch{
		SheetType:       &r.SheetType,
		Name:            &r.Name,
		PreparationWt:   &r.PreparationWt,
		PortionWt:       &r.PortionWt,
		Utensils:        &utensils,
		ApprovedBy:      &r.ApprovedBy,
		PreparationTime: &r.PreparationTime,
		Yield:           &r.Yield,
		PreparedBy:      &r.PreparedBy,
		Company:         &r.Company,
		Photo:           &r.Photo,
		ClientID:        &r.ClientID,
	}
}
