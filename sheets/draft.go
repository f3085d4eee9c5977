package sheets

import (
	"strings"

	"github.com/zeptools/fichas/models"
)

// Messages shown to the person filling the form
const (
	MsgSelectClient     = "Selecione um cliente."
	MsgIngredientFields = "Preencha todos os campos dos ingredientes."
	MsgStepText         = "Preencha todos os passos."
	MsgRecipeName       = "Informe o nome da receita."
	MsgSheetType        = "Tipo de ficha inválido."
)

// Draft is a recipe with its children as entered in the form. Ids are ignored.
type Draft struct {
	Recipe      models.Recipe       `json:"ficha"`
	Ingredients []models.Ingredient `json:"ingredientes"`
	Steps       []models.Step       `json:"passos"`
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func ingredientComplete(in models.Ingredient) bool {
	return strings.TrimSpace(in.Name) != "" && in.Quantity >= 0 && strings.TrimSpace(in.HouseholdMeasure) != ""
}

func stepComplete(s models.Step) bool {
	return strings.TrimSpace(s.Instruction) != ""
}

func validateRecipe(r models.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid(MsgRecipeName)
	}
	if !r.SheetType.Valid() {
		return invalid(MsgSheetType)
	}
	if r.ClientID == "" {
		return invalid(MsgSelectClient)
	}
	return nil
}

// Validate checks a draft for creation: every ingredient and step row must be complete
func (d Draft) Validate() error {
	if err := validateRecipe(d.Recipe); err != nil {
		return err
	}
	for _, in := range d.Ingredients {
		if !ingredientComplete(in) {
			return invalid(MsgIngredientFields)
		}
	}
	for _, s := range d.Steps {
		if !stepComplete(s) {
			return invalid(MsgStepText)
		}
	}
	return nil
}

// ParseUtensils splits a comma separated list, trimming entries and dropping empty ones
func ParseUtensils(s string) []string {
	return cleanUtensils(strings.Split(s, ","))
}

func cleanUtensils(list []string) []string {
	out := make([]string, 0, len(list))
	for _, u := range list {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func keep[T any](items []T, ok func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if ok(it) {
			out = append(out, it)
		}
	}
	return out
}
