package handlers

import (
	"encoding/json"
	"net/http"

	"blogr/internal/views"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Error: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode json response")
	}
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "Not Found", views.NotFoundPage)
}

// ServerError renders the 500 page. It is also the panic fallback.
func (h *Handlers) ServerError(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusInternalServerError, "Error", views.ErrorPage)
}
