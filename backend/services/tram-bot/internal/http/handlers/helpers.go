package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"metrotram/backend/services/tram-bot/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// ErrorCode classifies a board failure for API clients. A missing marker
// matches both ErrExtraction and ErrDecode, so extraction is checked first.
func ErrorCode(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNetwork):
		return http.StatusBadGateway, "network_error"
	case errors.Is(err, models.ErrExtraction):
		return http.StatusBadGateway, "extraction_error"
	case errors.Is(err, models.ErrDecode):
		return http.StatusBadGateway, "decode_error"
	case errors.Is(err, models.ErrMalformedRecord):
		return http.StatusBadGateway, "malformed_record"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
