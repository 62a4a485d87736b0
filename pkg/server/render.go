package server

import (
	"encoding/json"
	"net/http"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// renderJSON writes v as the JSON response body with the given status
func renderJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.Encode(v)
}

// renderError writes an {"message": ...} body
func renderError(w http.ResponseWriter, message string, status int) {
	renderJSON(w, models.ErrorResponse{Message: message}, status)
}
