package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/zeptools/fichas/datauri"
	"github.com/zeptools/fichas/responses"
	"go.uber.org/zap"
)

type imageUpload struct {
	DataURL string `json:"dataUrl"`
}

// uploadImage turns the multipart "file" field into a data URI the client stores in a photo field
func (a *API) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes+1<<20) // room for multipart framing
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responses.WriteSimpleErrorJSON(w, http.StatusRequestEntityTooLarge, MsgImageTooLarge)
			return
		}
		responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, MsgInvalidImage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, a.MaxUploadBytes+1))
	if err != nil {
		a.Logger.Warn("reading upload failed", zap.Error(err))
		responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, MsgImageReadFailure)
		return
	}
	if int64(len(data)) > a.MaxUploadBytes {
		responses.WriteSimpleErrorJSON(w, http.StatusRequestEntityTooLarge, MsgImageTooLarge)
		return
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, MsgInvalidImage)
		return
	}
	uri, err := datauri.EncodeBytes(data, "")
	if err != nil {
		a.Logger.Warn("encoding upload failed", zap.Error(err))
		responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, MsgImageReadFailure)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, imageUpload{DataURL: uri})
}
