package handlers

import (
	"errors"
	"net/http"
	"strings"

	"blogr/internal/models"
	"blogr/internal/service"
	"blogr/internal/views"

	"github.com/go-chi/chi/v5"
	g "github.com/maragudk/gomponents"
	"github.com/rs/zerolog/log"
)

// Index lists every post, or only those whose title contains the submitted
// search text. Query failures are logged and the page renders what it has.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	query := r.FormValue("search")
	searching := strings.TrimSpace(query) != ""

	var (
		posts []models.Post
		err   error
	)
	if searching {
		posts, err = h.PostService.Search(r.Context(), query)
	} else {
		posts, err = h.PostService.List(r.Context())
	}
	if err != nil {
		log.Error().Err(err).Str("search", query).Msg("failed to load posts")
	}

	data := views.IndexData{Posts: posts, Query: query, Searching: searching}
	h.render(w, r, http.StatusOK, "", func(p views.PageProps) g.Node {
		return views.IndexPage(p, data)
	})
}

func (h *Handlers) Blog(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))

	status, title := http.StatusOK, ""
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case err != nil:
		log.Error().Err(err).Str("slug", chi.URLParam(r, "slug")).Msg("failed to load post")
		status = http.StatusInternalServerError
	default:
		title = post.Title
	}

	h.render(w, r, status, title, func(p views.PageProps) g.Node {
		return views.BlogPage(p, post)
	})
}
