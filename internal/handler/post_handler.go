package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"blogr/internal/models"
	"blogr/internal/service"
	"blogr/internal/views"

	g "github.com/maragudk/gomponents"
	"github.com/rs/zerolog/log"
)

func (h *Handlers) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list posts")
		h.flash(r, flashError, "Could not load posts.")
	}

	h.render(w, r, http.StatusOK, "Posts", func(p views.PageProps) g.Node {
		return views.PostsPage(p, posts)
	})
}

func (h *Handlers) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderPostForm(w, r, http.StatusOK, "New Post", views.PostFormData{
		Action:      "/post/create",
		EditableURL: true,
	})
}

func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	form := parsePostForm(r)
	data := views.PostFormData{
		Action:      "/post/create",
		URL:         form.URL,
		Title:       form.Title,
		Info:        form.Info,
		Content:     form.Content,
		EditableURL: true,
	}

	if errs := models.ValidateForm(h.Validate, form); errs != nil {
		h.flashValidation(r, errs)
		h.renderPostForm(w, r, http.StatusUnprocessableEntity, "New Post", data)
		return
	}

	post, err := h.PostService.Create(r.Context(), FromContext(r.Context()).User, form)
	switch {
	case errors.Is(err, service.ErrSlugTaken):
		h.flash(r, flashError, fmt.Sprintf("A post with url %s already exists.", service.NormalizeSlug(form.URL)))
		h.renderPostForm(w, r, http.StatusConflict, "New Post", data)
		return
	case err != nil:
		log.Error().Err(err).Str("url", form.URL).Msg("failed to create post")
		h.flash(r, flashError, "Could not save the post, please try again.")
		h.renderPostForm(w, r, http.StatusInternalServerError, "New Post", data)
		return
	}

	log.Info().Int64("post_id", post.ID).Str("url", post.URL).Msg("post created")
	h.flash(r, flashSuccess, "Post created.")
	h.redirect(w, r, "/post/posts")
}

func (h *Handlers) UpdateForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	h.renderPostForm(w, r, http.StatusOK, "Edit Post", updateFormData(post, models.PostUpdateForm{
		Title:   post.Title,
		Info:    post.Info,
		Content: post.Content,
	}))
}

// Update changes title, info and content of an existing post. The url stays.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	form := parsePostUpdateForm(r)
	if errs := models.ValidateForm(h.Validate, form); errs != nil {
		h.flashValidation(r, errs)
		h.renderPostForm(w, r, http.StatusUnprocessableEntity, "Edit Post", updateFormData(post, form))
		return
	}

	err := h.PostService.Update(r.Context(), post, form)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		log.Error().Err(err).Int64("post_id", post.ID).Msg("failed to update post")
		h.flash(r, flashError, "Could not update the post, please try again.")
		h.renderPostForm(w, r, http.StatusInternalServerError, "Edit Post", updateFormData(post, form))
		return
	}

	h.flash(r, flashSuccess, "Post updated.")
	h.redirect(w, r, "/post/posts")
}

// Delete removes the loaded post. Success and failure both land on the
// listing; only the flash differs.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	if err := h.PostService.Delete(r.Context(), post); err != nil {
		log.Error().Err(err).Int64("post_id", post.ID).Msg("failed to delete post")
		h.flash(r, flashError, "Could not delete the post.")
	} else {
		log.Info().Int64("post_id", post.ID).Msg("post deleted")
		h.flash(r, flashSuccess, "Post deleted.")
	}

	h.redirect(w, r, "/post/posts")
}

func (h *Handlers) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		h.NotFound(w, r)
		return nil, false
	}

	post, err := h.PostService.GetByID(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
		return nil, false
	case err != nil:
		log.Error().Err(err).Int64("post_id", id).Msg("failed to load post")
		h.ServerError(w, r)
		return nil, false
	}
	return post, true
}

func updateFormData(post *models.Post, form models.PostUpdateForm) views.PostFormData {
	return views.PostFormData{
		Action:  fmt.Sprintf("/post/update/%d", post.ID),
		URL:     post.URL,
		Title:   form.Title,
		Info:    form.Info,
		Content: form.Content,
	}
}

func (h *Handlers) renderPostForm(w http.ResponseWriter, r *http.Request, status int, heading string, data views.PostFormData) {
	data.Heading = heading
	data.CKEditorPkg = h.Cfg.CKEditorPkg
	h.render(w, r, status, heading, func(p views.PageProps) g.Node {
		return views.PostFormPage(p, data)
	})
}
