package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"blogr/internal/models"

	"github.com/go-chi/chi/v5"
)

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

func parseRegisterForm(r *http.Request) models.RegisterForm {
	return models.RegisterForm{
		Username: formValue(r, "username"),
		Email:    formValue(r, "email"),
		Password: r.PostFormValue("password"),
	}
}

func parseLoginForm(r *http.Request) models.LoginForm {
	return models.LoginForm{
		Email:    formValue(r, "email"),
		Password: r.PostFormValue("password"),
	}
}

func parsePostForm(r *http.Request) models.PostForm {
	return models.PostForm{
		URL:     formValue(r, "url"),
		Title:   formValue(r, "title"),
		Info:    formValue(r, "info"),
		Content: r.PostFormValue("content"),
	}
}

func parsePostUpdateForm(r *http.Request) models.PostUpdateForm {
	return models.PostUpdateForm{
		Title:   formValue(r, "title"),
		Info:    formValue(r, "info"),
		Content: r.PostFormValue("content"),
	}
}

// parseProfileForm reads the optionally multipart profile form. The returned
// closer releases the uploaded file, if any.
func parseProfileForm(w http.ResponseWriter, r *http.Request, maxUpload int64) (models.ProfileForm, func(), error) {
	noop := func() {}

	if maxUpload > 0 {
		// leave room for the other fields and multipart framing
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1<<20)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return models.ProfileForm{}, noop, fmt.Errorf("parse profile form: %w", err)
	}

	form := models.ProfileForm{
		Username: formValue(r, "username"),
		Password: r.PostFormValue("password"),
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, noop, nil
	}
	if err != nil {
		return form, noop, fmt.Errorf("read photo: %w", err)
	}
	if header.Filename == "" || header.Size == 0 {
		file.Close()
		return form, noop, nil
	}

	form.Photo = &models.PhotoUpload{Filename: header.Filename, Size: header.Size, File: file}
	return form, func() { closeFile(file) }, nil
}

func closeFile(f multipart.File) {
	_ = f.Close()
}

// idParam reads a positive integer route parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
