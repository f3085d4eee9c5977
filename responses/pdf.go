package responses

import (
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// WritePDFBytesWithFilename sends PDFBytes as a file download
func WritePDFBytesWithFilename(w http.ResponseWriter, filename string, PDFBytes []byte) {
	WritePDFResponseHeaders(w, filename, "attachment", len(PDFBytes))
	if _, err := w.Write(PDFBytes); err != nil {
		zap.L().Error("writing pdf to response", zap.String("filename", filename), zap.Error(err))
	}
}

// WritePDFResponseHeaders write HTTP response headers for PDF response. i.e. headers are frozen.
// disposition is "inline" or "attachment"; size < 0 leaves Content-Length unset.
func WritePDFResponseHeaders(w http.ResponseWriter, filename, disposition string, size int) {
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
	if size >= 0 {
		h.Set("Content-Length", strconv.Itoa(size))
	}
	w.WriteHeader(http.StatusOK) // Response Header Sent & Frozen
}
