package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/fichas/db/kvdb/impls/memory"
	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/pdfs"
	"github.com/zeptools/fichas/pdfs/impls/fpdf"
	"github.com/zeptools/fichas/pdfs/impls/software"
	"github.com/zeptools/fichas/records"
	"github.com/zeptools/fichas/repos"
	"github.com/zeptools/fichas/routing"
	"github.com/zeptools/fichas/sheets"
	"go.uber.org/zap/zaptest"
)

const tinyPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type failingRasterizer struct{}

func (failingRasterizer) Materialize(context.Context, *pdfs.Document, pdfs.SurfaceOptions) (pdfs.Surface, error) {
	return nil, errors.New("chrome exploded at 0xdeadbeef")
}

func newTestRouter(t *testing.T, raster pdfs.Rasterizer) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	seq := 0
	r := repos.New(records.NewStore(memory.New(), logger), repos.Options{
		Clock:  func() time.Time { return fixedNow },
		NewID:  func() string { seq++; return fmt.Sprintf("id-%03d", seq) },
		Logger: logger,
	})
	if raster == nil {
		var err error
		raster, err = software.New(logger)
		require.NoError(t, err)
	}
	s := sheets.New(r, pdfs.NewPipeline(raster, fpdf.Factory, logger), sheets.Options{
		Clock:  func() time.Time { return fixedNow },
		Logger: logger,
	})
	router := routing.NewBaseRouter()
	NewAPI(s, logger).Routes(router, nil, routing.RecoverWrapper(logger))
	return router
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	assert.Equal(t, code, rec.Code)
	assert.Equal(t, map[string]any{"type": "error", "message": msg}, decodeBody[map[string]any](t, rec))
}

func sampleDraft(clientID string) sheets.Draft {
	return sheets.Draft{
		Recipe: models.Recipe{
			SheetType:       models.SheetTypeMainDish,
			Name:            "Bolo de Cenoura",
			PreparationWt:   1200,
			PortionWt:       80,
			Utensils:        []string{"Batedeira"},
			PreparationTime: 50,
			Yield:           15,
			PreparedBy:      "João",
			Company:         "Cozinha Central",
			ClientID:        clientID,
		},
		Ingredients: []models.Ingredient{{Name: "Cenoura", Quantity: 3, HouseholdMeasure: "unidades"}},
		Steps:       []models.Step{{Instruction: "Bata tudo."}, {Instruction: "Asse."}},
	}
}

func TestClientsCRUD(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/clients", models.Client{Name: " "})
	assertError(t, rec, http.StatusBadRequest, MsgClientName)

	rec = do(t, h, http.MethodPost, "/api/clients", models.Client{Name: "Acme", Email: "contato@acme.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	acme := decodeBody[models.Client](t, rec)
	assert.Equal(t, "id-001", acme.ID)

	rec = do(t, h, http.MethodPatch, "/api/clients/"+acme.ID, `{"telefone":"11 5555-0000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decodeBody[models.Client](t, rec)
	assert.Equal(t, "11 5555-0000", patched.Phone)
	assert.Equal(t, "contato@acme.com", patched.Email, "unpatched fields stay")

	rec = do(t, h, http.MethodGet, "/api/clients/"+acme.ID, nil)
	assert.Equal(t, patched, decodeBody[models.Client](t, rec))

	rec = do(t, h, http.MethodPatch, "/api/clients/nope", `{"telefone":"1"}`)
	assertError(t, rec, http.StatusNotFound, MsgClientNotFound)

	rec = do(t, h, http.MethodDelete, "/api/clients/"+acme.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/clients/"+acme.ID, nil)
	assertError(t, rec, http.StatusNotFound, MsgClientNotFound)
	rec = do(t, h, http.MethodGet, "/api/clients/"+acme.ID, nil)
	assertError(t, rec, http.StatusNotFound, MsgClientNotFound)
}

func TestBadJSON(t *testing.T) {
	h := newTestRouter(t, nil)
	assertError(t, do(t, h, http.MethodPost, "/api/clients", `{"nomeCliente":`), http.StatusBadRequest, MsgBadRequest)
	assertError(t, do(t, h, http.MethodPost, "/api/recipes", ""), http.StatusBadRequest, MsgBadRequest)
}

func TestRecipesFlow(t *testing.T) {
	h := newTestRouter(t, nil)
	acme := decodeBody[models.Client](t, do(t, h, http.MethodPost, "/api/clients", models.Client{Name: "Acme"}))

	invalid := sampleDraft("")
	assertError(t, do(t, h, http.MethodPost, "/api/recipes", invalid), http.StatusBadRequest, sheets.MsgSelectClient)

	rec := do(t, h, http.MethodPost, "/api/recipes", sampleDraft(acme.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Bundle](t, rec)
	assert.Equal(t, "Acme", created.Client.Name)
	require.Len(t, created.Steps, 2)
	id := created.Recipe.ID

	rec = do(t, h, http.MethodGet, "/api/recipes/"+id, nil)
	assert.Equal(t, created, decodeBody[models.Bundle](t, rec))

	sub := sampleDraft(acme.ID)
	sub.Recipe.Name = "Massa base"
	sub.Recipe.SheetType = models.SheetTypeSubRecipe
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/recipes", sub).Code)

	list := decodeBody[[]sheets.Listing](t, do(t, h, http.MethodGet, "/api/recipes?q=cenoura", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].ClientName)

	list = decodeBody[[]sheets.Listing](t, do(t, h, http.MethodGet, "/api/recipes?tipo=Subficha&cliente="+acme.ID, nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Massa base", list[0].Recipe.Name)

	assert.JSONEq(t, `[]`, do(t, h, http.MethodGet, "/api/recipes?q=zzz", nil).Body.String())
	assert.JSONEq(t, `["Prato principal","Subficha"]`, do(t, h, http.MethodGet, "/api/sheet-types", nil).Body.String())

	edit := sampleDraft(acme.ID)
	edit.Recipe.Name = "Bolo de Cenoura Fit"
	edit.Steps = []models.Step{{Instruction: "Só isso."}}
	rec = do(t, h, http.MethodPut, "/api/recipes/"+id, edit)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edited := decodeBody[models.Bundle](t, rec)
	assert.Equal(t, "Bolo de Cenoura Fit", edited.Recipe.Name)
	assert.Len(t, edited.Steps, 1)
	assertError(t, do(t, h, http.MethodPut, "/api/recipes/nope", edit), http.StatusNotFound, MsgRecipeNotFound)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/recipes/"+id, nil).Code)
	assertError(t, do(t, h, http.MethodGet, "/api/recipes/"+id, nil), http.StatusNotFound, MsgRecipeNotFound)
	assertError(t, do(t, h, http.MethodDelete, "/api/recipes/"+id, nil), http.StatusNotFound, MsgRecipeNotFound)
}

func TestRecipeOfDeletedClient(t *testing.T) {
	h := newTestRouter(t, nil)
	acme := decodeBody[models.Client](t, do(t, h, http.MethodPost, "/api/clients", models.Client{Name: "Acme"}))
	created := decodeBody[models.Bundle](t, do(t, h, http.MethodPost, "/api/recipes", sampleDraft(acme.ID)))
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/clients/"+acme.ID, nil).Code)

	b := decodeBody[models.Bundle](t, do(t, h, http.MethodGet, "/api/recipes/"+created.Recipe.ID, nil))
	assert.Equal(t, models.MissingClientName, b.Client.Name)
}

func TestDownloadPDF(t *testing.T) {
	h := newTestRouter(t, nil)
	acme := decodeBody[models.Client](t, do(t, h, http.MethodPost, "/api/clients", models.Client{Name: "Acme"}))
	created := decodeBody[models.Bundle](t, do(t, h, http.MethodPost, "/api/recipes", sampleDraft(acme.ID)))

	rec := do(t, h, http.MethodGet, "/api/recipes/"+created.Recipe.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	disp, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disp)
	assert.Equal(t, "ficha-tecnica-bolo-de-cenoura.pdf", params["filename"])
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	assertError(t, do(t, h, http.MethodGet, "/api/recipes/nope/pdf", nil), http.StatusNotFound, MsgRecipeNotFound)
}

func TestDownloadPDFFailureIsGeneric(t *testing.T) {
	h := newTestRouter(t, failingRasterizer{})
	acme := decodeBody[models.Client](t, do(t, h, http.MethodPost, "/api/clients", models.Client{Name: "Acme"}))
	created := decodeBody[models.Bundle](t, do(t, h, http.MethodPost, "/api/recipes", sampleDraft(acme.ID)))

	rec := do(t, h, http.MethodGet, "/api/recipes/"+created.Recipe.ID+"/pdf", nil)
	assertError(t, rec, http.StatusInternalServerError, pdfs.UserMessage)
	assert.NotContains(t, rec.Body.String(), "deadbeef")
}

func upload(t *testing.T, h http.Handler, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage(t *testing.T) {
	h := newTestRouter(t, nil)
	png, err := base64.StdEncoding.DecodeString(tinyPNGBase64)
	require.NoError(t, err)

	rec := upload(t, h, "file", "foto.png", png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "data:image/png;base64,"+tinyPNGBase64, got["dataUrl"])

	assertError(t, upload(t, h, "file", "notes.txt", []byte("just text")), http.StatusBadRequest, MsgInvalidImage)
	assertError(t, upload(t, h, "other", "foto.png", png), http.StatusBadRequest, MsgInvalidImage)
}

func TestUploadImageTooLarge(t *testing.T) {
	h := newTestRouter(t, nil)
	png, err := base64.StdEncoding.DecodeString(tinyPNGBase64)
	require.NoError(t, err)
	big := append(png, bytes.Repeat([]byte{0}, int(DefaultMaxUploadBytes))...)

	rec := upload(t, h, "file", "big.png", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), MsgImageTooLarge))
}

type blockingRasterizer struct {
	entered chan struct{}
	release chan struct{}
}

func (b blockingRasterizer) Materialize(ctx context.Context, _ *pdfs.Document, _ pdfs.SurfaceOptions) (pdfs.Surface, error) {
	close(b.entered)
	<-b.release
	return nil, errors.New("released")
}

func TestConcurrentDownloadOfSameRecipe(t *testing.T) {
	raster := blockingRasterizer{entered: make(chan struct{}), release: make(chan struct{})}
	h := newTestRouter(t, raster)
	acme := decodeBody[models.Client](t, do(t, h, http.MethodPost, "/api/clients", models.Client{Name: "Acme"}))
	created := decodeBody[models.Bundle](t, do(t, h, http.MethodPost, "/api/recipes", sampleDraft(acme.ID)))
	path := "/api/recipes/" + created.Recipe.ID + "/pdf"

	first := make(chan int, 1)
	go func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		first <- rec.Code
	}()
	<-raster.entered

	assertError(t, do(t, h, http.MethodGet, path, nil), http.StatusConflict, MsgPDFInProgress)
	close(raster.release)
	assert.Equal(t, http.StatusInternalServerError, <-first)
}
