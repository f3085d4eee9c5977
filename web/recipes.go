package web

import (
	"errors"
	"net/http"

	"github.com/zeptools/fichas/locks/keyonlylocks"
	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/pdfs"
	"github.com/zeptools/fichas/responses"
	"github.com/zeptools/fichas/sheets"
	"go.uber.org/zap"
)

// listRecipes filters with ?q=, ?cliente= and ?tipo=
func (a *API) listRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listings := a.Sheets.Search(r.Context(), sheets.Filter{
		Query:     q.Get("q"),
		ClientID:  q.Get("cliente"),
		SheetType: models.SheetType(q.Get("tipo")),
	})
	if listings == nil {
		listings = []sheets.Listing{}
	}
	responses.EncodeWriteJSON(w, http.StatusOK, listings)
}

func (a *API) getRecipe(w http.ResponseWriter, r *http.Request) {
	b, ok := a.Sheets.Bundle(r.Context(), r.PathValue("id"))
	if !ok {
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgRecipeNotFound)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, b)
}

func (a *API) createRecipe(w http.ResponseWriter, r *http.Request) {
	var d sheets.Draft
	if !a.decode(w, r, &d) {
		return
	}
	b, err := a.Sheets.Create(r.Context(), d)
	if err != nil {
		a.writeFailure(w, r, err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusCreated, b)
}

func (a *API) replaceRecipe(w http.ResponseWriter, r *http.Request) {
	var d sheets.Draft
	if !a.decode(w, r, &d) {
		return
	}
	b, ok, err := a.Sheets.Replace(r.Context(), r.PathValue("id"), d)
	switch {
	case err != nil:
		a.writeFailure(w, r, err)
	case !ok:
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgRecipeNotFound)
	default:
		responses.EncodeWriteJSON(w, http.StatusOK, b)
	}
}

// deleteRecipe also removes the recipe's ingredients and steps
func (a *API) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	ok, err := a.Sheets.Repos().Recipes.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err != nil:
		a.writeFailure(w, r, err)
	case !ok:
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgRecipeNotFound)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// downloadPDF renders one recipe at a time; a repeated click while rendering gets 409
func (a *API) downloadPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	release, ok := keyonlylocks.TryLock(&a.actionLocks, "pdf:"+id)
	if !ok {
		responses.WriteSimpleErrorJSON(w, http.StatusConflict, MsgPDFInProgress)
		return
	}
	defer release()
	res, err := a.Sheets.Render(r.Context(), id)
	switch {
	case errors.Is(err, sheets.ErrRecipeNotFound):
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgRecipeNotFound)
	case err != nil:
		// the pipeline already logged the cause
		responses.WriteSimpleErrorJSON(w, http.StatusInternalServerError, pdfs.UserMessage)
	default:
		a.Logger.Info("pdf downloaded", zap.String("file", res.Filename), zap.Int("pages", res.Pages))
		responses.WritePDFBytesWithFilename(w, res.Filename, res.PDF)
	}
}

func (a *API) sheetTypes(w http.ResponseWriter, r *http.Request) {
	types := a.Sheets.SheetTypes(r.Context())
	if types == nil {
		types = []models.SheetType{}
	}
	responses.EncodeWriteJSON(w, http.StatusOK, types)
}
