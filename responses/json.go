package responses

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// WriteJSONBytes Write Already Encoded JSON Bytes into the Response
func WriteJSONBytes(w http.ResponseWriter, HTTPStatusCode int, JSONBytes []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode) // Response Header Sent & Frozen
	if _, err := w.Write(JSONBytes); err != nil {
		zap.L().Error("writing json to response", zap.Error(err))
	}
}

// EncodeWriteJSON Encode & Write Payload as JSON Stream to the Response
func EncodeWriteJSON(w http.ResponseWriter, HTTPStatusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode) // Response Header Sent & Frozen
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("writing json stream to response", zap.Error(err))
	}
}

// WriteSimpleErrorJSON wraps msg into an error Message without app logic code.
// msg is shown to the user as is.
func WriteSimpleErrorJSON(w http.ResponseWriter, HTTPStatusCode int, msg string) {
	EncodeWriteJSON(w, HTTPStatusCode, Message{Type: TypeError, Message: msg})
}
