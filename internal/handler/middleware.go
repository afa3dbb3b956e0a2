package handlers

import (
	"context"
	"net/http"

	"blogr/internal/models"
	"blogr/internal/session"

	"github.com/rs/zerolog/log"
)

// RequestContext is the request-scoped session and the user it resolves to.
// User is nil for anonymous visitors.
type RequestContext struct {
	Session *session.Session
	User    *models.User
}

type ctxKey struct{}

// FromContext never returns nil; outside LoadCurrentUser it yields an empty
// context with no session.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(ctxKey{}).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{}
}

func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// LoadCurrentUser resolves the session and its user before any page handler
// runs. Failures are logged and leave the visitor anonymous.
func (h *Handlers) LoadCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.Sessions.Load(r)
		if err != nil {
			log.Error().Err(err).Msg("failed to load session")
		}

		rc := &RequestContext{Session: sess}
		if userID := sess.UserID(); userID != 0 {
			user, err := h.AuthService.CurrentUser(r.Context(), userID)
			if err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Msg("failed to resolve current user")
			} else {
				rc.User = user
			}
		}

		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}

type Access int

const (
	Unauthorized Access = iota
	Authorized
)

func authorize(rc *RequestContext) Access {
	if rc.User == nil {
		return Unauthorized
	}
	return Authorized
}

// RequireLogin sends anonymous visitors to the login page.
func (h *Handlers) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authorize(FromContext(r.Context())) == Unauthorized {
			h.flash(r, flashInfo, "Please log in to access this page.")
			h.redirect(w, r, "/auth/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}
