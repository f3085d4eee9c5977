// Package web serves the recipe sheets over a JSON HTTP API.
package web

import (
	"errors"
	"net/http"
	"sync"

	"github.com/zeptools/fichas/requests"
	"github.com/zeptools/fichas/responses"
	"github.com/zeptools/fichas/routing"
	"github.com/zeptools/fichas/sheets"
	"go.uber.org/zap"
)

// Messages shown to the user. Internal error text never reaches a response.
const (
	MsgBadRequest       = "Requisição inválida."
	MsgClientNotFound   = "Cliente não encontrado."
	MsgRecipeNotFound   = "Ficha técnica não encontrada."
	MsgClientName       = "Informe o nome do cliente."
	MsgSaveFailed       = "Não foi possível salvar os dados."
	MsgInvalidImage     = "Envie um arquivo de imagem válido."
	MsgImageTooLarge    = "A imagem é grande demais."
	MsgImageReadFailure = "Não foi possível ler a imagem."
	MsgPDFInProgress    = "Este PDF já está sendo gerado. Aguarde um instante."
)

const (
	DefaultMaxJSONBytes   int64 = 32 << 20 // drafts carry base64 photos
	DefaultMaxUploadBytes int64 = 10 << 20
)

type API struct {
	Sheets         *sheets.Service
	Logger         *zap.Logger
	MaxJSONBytes   int64
	MaxUploadBytes int64

	actionLocks sync.Map // keyonlylocks keys of renders in progress
}

func NewAPI(s *sheets.Service, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		Sheets:         s,
		Logger:         logger.Named("api"),
		MaxJSONBytes:   DefaultMaxJSONBytes,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// Routes registers every endpoint under /api/. pdfWrappers guard the PDF download only.
func (a *API) Routes(router *routing.BaseRouter, pdfWrappers []routing.HandlerWrapper, wrappers ...routing.HandlerWrapper) {
	router.Group("/api/", func(api *routing.RouteGroup) {
		api.Group("clients", func(g *routing.RouteGroup) {
			g.HandleFunc("GET ", a.listClients)
			g.HandleFunc("POST ", a.createClient)
			g.HandleFunc("GET /{id}", a.getClient)
			g.HandleFunc("PATCH /{id}", a.patchClient)
			g.HandleFunc("DELETE /{id}", a.deleteClient)
		})
		api.Group("recipes", func(g *routing.RouteGroup) {
			g.HandleFunc("GET ", a.listRecipes)
			g.HandleFunc("POST ", a.createRecipe)
			g.HandleFunc("GET /{id}", a.getRecipe)
			g.HandleFunc("PUT /{id}", a.replaceRecipe)
			g.HandleFunc("DELETE /{id}", a.deleteRecipe)
			g.HandleFunc("GET /{id}/pdf", a.downloadPDF, pdfWrappers...)
		})
		api.HandleFunc("GET sheet-types", a.sheetTypes)
		api.HandleFunc("POST images", a.uploadImage)
	}, wrappers...)
}

// decode reads a JSON body, answering 400 itself on failure
func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := requests.DecodeJSON(w, r, a.MaxJSONBytes, v)
	if err == nil {
		return true
	}
	a.Logger.Debug("bad request body", zap.String("path", r.URL.Path), zap.Error(err))
	responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, MsgBadRequest)
	return false
}

// writeFailure maps a service error to a response
func (a *API) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *sheets.ValidationError
	switch {
	case errors.As(err, &verr):
		responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, sheets.ErrRecipeNotFound):
		responses.WriteSimpleErrorJSON(w, http.StatusNotFound, MsgRecipeNotFound)
	default:
		a.Logger.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		responses.WriteSimpleErrorJSON(w, http.StatusInternalServerError, MsgSaveFailed)
	}
}
