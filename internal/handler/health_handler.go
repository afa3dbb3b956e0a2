package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
	Posts  int    `json:"posts"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	stats, err := h.StatsService.Counts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("health check failed")
		writeError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, HealthResponse{Status: "ok", Users: stats.Users, Posts: stats.Posts}, http.StatusOK)
}
