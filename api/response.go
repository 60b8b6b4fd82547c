package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

func WriteJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON")
	}
}

// WriteRawJSON writes an already-encoded upstream body without re-encoding it.
func WriteRawJSON(w http.ResponseWriter, body json.RawMessage, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("Error writing JSON body")
	}
}

func WriteError(w http.ResponseWriter, msg string, code int) {
	WriteJSON(w, ErrorResponse{Error: msg}, code)
}
