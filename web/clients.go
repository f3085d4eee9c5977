package web

import (
	"net/http"
	"strings"

	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/responses"
)

func (a *API) listClients(w http.ResponseWriter, r *http.Request) {
	responses.EncodeWriteJSON(w, http.StatusOK, a.Sheets.Repos().Clients.GetAll(r.Context()))
}

func (a *API) getClient(w http.ResponseWriter, r *http.Request) {
	c, ok := a.Sheets.Repos().Clients.GetByID(r.Context(), r.PathValue("id"))
	if !ok {
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgClientNotFound)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, c)
}

func (a *API) createClient(w http.ResponseWriter, r *http.Request) {
	var in models.Client
	if !a.decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, MsgClientName)
		return
	}
	c, err := a.Sheets.Repos().Clients.Create(r.Context(), in)
	if err != nil {
		a.writeFailure(w, r, err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusCreated, c)
}

func (a *API) patchClient(w http.ResponseWriter, r *http.Request) {
	var patch models.ClientPatch
	if !a.decode(w, r, &patch) {
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, MsgClientName)
		return
	}
	c, ok, err := a.Sheets.Repos().Clients.Update(r.Context(), r.PathValue("id"), patch)
	switch {
	case err != nil:
		a.writeFailure(w, r, err)
	case !ok:
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgClientNotFound)
	default:
		responses.EncodeWriteJSON(w, http.StatusOK, c)
	}
}

// deleteClient leaves the client's recipes in place; they show the missing-client placeholder
func (a *API) deleteClient(w http.ResponseWriter, r *http.Request) {
	ok, err := a.Sheets.Repos().Clients.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err != nil:
		a.writeFailure(w, r, err)
	case !ok:
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgClientNotFound)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
