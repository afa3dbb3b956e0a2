package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"blogr/internal/models"
	"blogr/internal/service"
	"blogr/internal/views"

	g "github.com/maragudk/gomponents"
	"github.com/rs/zerolog/log"
)

func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, http.StatusOK, models.RegisterForm{})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	form := parseRegisterForm(r)

	if errs := models.ValidateForm(h.Validate, form); errs != nil {
		h.flashValidation(r, errs)
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	user, err := h.AuthService.Register(r.Context(), form)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		h.flash(r, flashError, fmt.Sprintf("User with email %s already exists.", form.Email))
		h.renderRegister(w, r, http.StatusConflict, form)
		return
	case err != nil:
		log.Error().Err(err).Str("email", form.Email).Msg("registration failed")
		h.flash(r, flashError, "Could not create the account, please try again.")
		h.renderRegister(w, r, http.StatusInternalServerError, form)
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("user registered")
	h.flash(r, flashSuccess, "Registration successful, you can log in now.")
	h.redirect(w, r, "/auth/login")
}

func (h *Handlers) renderRegister(w http.ResponseWriter, r *http.Request, status int, form models.RegisterForm) {
	h.render(w, r, status, "Register", func(p views.PageProps) g.Node {
		return views.RegisterPage(p, form)
	})
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, "")
}

// Login starts a fresh session for the user. A wrong password and an
// unknown email get the same answer.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	form := parseLoginForm(r)

	if errs := models.ValidateForm(h.Validate, form); errs != nil {
		h.flashValidation(r, errs)
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form.Email)
		return
	}

	user, err := h.AuthService.Login(r.Context(), form)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.flash(r, flashError, "Incorrect email or password.")
		h.renderLogin(w, r, http.StatusUnauthorized, form.Email)
		return
	case err != nil:
		log.Error().Err(err).Msg("login failed")
		h.flash(r, flashError, "Could not log in, please try again.")
		h.renderLogin(w, r, http.StatusInternalServerError, form.Email)
		return
	}

	rc := FromContext(r.Context())
	rc.Session.Clear()
	rc.Session.Renew()
	rc.Session.SetUserID(user.ID)
	rc.User = user

	h.flash(r, flashSuccess, fmt.Sprintf("Welcome, %s!", user.Username))
	h.redirect(w, r, "/post/posts")
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string) {
	h.render(w, r, status, "Log In", func(p views.PageProps) g.Node {
		return views.LoginPage(p, email)
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	rc := FromContext(r.Context())
	rc.Session.Destroy()
	rc.User = nil
	h.redirect(w, r, "/")
}

// Profile and UpdateProfile load the user named in the path. Any logged-in
// user may edit any profile.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadProfileUser(w, r)
	if !ok {
		return
	}
	h.renderProfile(w, r, http.StatusOK, user)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadProfileUser(w, r)
	if !ok {
		return
	}

	form, release, err := parseProfileForm(w, r, h.Cfg.Media.MaxUploadSize)
	defer release()
	if err != nil {
		log.Warn().Err(err).Msg("bad profile form")
		h.flash(r, flashError, "Could not read the submitted form.")
		h.renderProfile(w, r, http.StatusBadRequest, user)
		return
	}

	if errs := models.ValidateForm(h.Validate, form); errs != nil {
		h.flashValidation(r, errs)
		h.renderProfile(w, r, http.StatusUnprocessableEntity, user)
		return
	}

	updated, err := h.UserService.UpdateProfile(r.Context(), user, form)
	switch {
	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidPhoto),
		errors.Is(err, service.ErrPhotoTooLarge):
		h.flash(r, flashError, capitalize(err.Error())+".")
		h.renderProfile(w, r, http.StatusUnprocessableEntity, user)
		return
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		log.Error().Err(err).Int64("user_id", user.ID).Msg("profile update failed")
		h.flash(r, flashError, "Could not update the profile, please try again.")
		h.renderProfile(w, r, http.StatusInternalServerError, user)
		return
	}

	if rc := FromContext(r.Context()); rc.User != nil && rc.User.ID == updated.ID {
		rc.User = updated
	}

	h.flash(r, flashSuccess, "Profile updated.")
	h.redirect(w, r, fmt.Sprintf("/auth/profile/%d", updated.ID))
}

func (h *Handlers) loadProfileUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		h.NotFound(w, r)
		return nil, false
	}

	user, err := h.AuthService.CurrentUser(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
		return nil, false
	case err != nil:
		log.Error().Err(err).Int64("user_id", id).Msg("failed to load profile")
		h.ServerError(w, r)
		return nil, false
	}
	return user, true
}

func (h *Handlers) renderProfile(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	h.render(w, r, status, "Profile", func(p views.PageProps) g.Node {
		return views.ProfilePage(p, user)
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
