package handlers

import (
	"net/http"

	"blogr/internal/config"
	"blogr/internal/models"
	"blogr/internal/service"
	"blogr/internal/session"
	"blogr/internal/views"

	"github.com/go-playground/validator/v10"
	g "github.com/maragudk/gomponents"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	AuthService  service.AuthService
	UserService  service.UserService
	PostService  service.PostService
	StatsService service.StatsService
	Sessions     *session.Manager
	Cfg          *config.Config
	Validate     *validator.Validate
}

func NewHandlers(services *service.Service, sessions *session.Manager, cfg *config.Config) *Handlers {
	return &Handlers{
		AuthService:  services.Auth,
		UserService:  services.User,
		PostService:  services.Post,
		StatsService: services.Stats,
		Sessions:     sessions,
		Cfg:          cfg,
		Validate:     models.NewValidator(),
	}
}

// page builds a view from the request's common page properties.
type page func(views.PageProps) g.Node

// render saves the session (consuming pending flashes) and writes the page.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, title string, build page) {
	rc := FromContext(r.Context())

	props := views.PageProps{Title: title, User: rc.User}
	if rc.Session != nil {
		props.Flashes = rc.Session.PopFlashes()
	}
	h.saveSession(w, r, rc)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := build(props).Render(w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render page")
	}
}

// redirect saves the session and answers with 303 See Other.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, url string) {
	h.saveSession(w, r, FromContext(r.Context()))
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *Handlers) flash(r *http.Request, category, message string) {
	if rc := FromContext(r.Context()); rc.Session != nil {
		rc.Session.AddFlash(category, message)
	}
}

func (h *Handlers) saveSession(w http.ResponseWriter, r *http.Request, rc *RequestContext) {
	if rc.Session == nil {
		return
	}
	if err := h.Sessions.Save(r.Context(), w, rc.Session); err != nil {
		log.Error().Err(err).Msg("failed to save session")
	}
}

func (h *Handlers) flashValidation(r *http.Request, errs models.ValidationErrors) {
	for _, fe := range errs {
		h.flash(r, flashError, fe.Message())
	}
}

const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)
