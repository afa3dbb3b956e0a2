package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"blogr/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager ties a Store to the session cookie. The cookie holds only an
// HS256-signed token carrying the session id; everything else lives in the
// Store.
type Manager struct {
	store      Store
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(store Store, cfg config.Session, secretKey string) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(secretKey),
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
	}
}

// Load returns the request's session. A missing, forged or expired cookie
// yields a fresh anonymous session. The error reports a Store failure; the
// returned session is usable even then.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return m.fresh(), nil
	}

	id, err := m.parseToken(cookie.Value)
	if err != nil {
		return m.fresh(), nil
	}

	data, err := m.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return m.fresh(), nil
	}
	if err != nil {
		return m.fresh(), fmt.Errorf("load session: %w", err)
	}

	return &Session{id: id, data: *data}, nil
}

// Save persists a modified session and writes its cookie. It must run before
// the response header is written. Untouched sessions are left alone, so
// anonymous visitors never get a cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if !s.dirty {
		return nil
	}

	if s.destroyed {
		if !s.isNew {
			if err := m.store.Delete(ctx, s.id); err != nil {
				return err
			}
		}
		m.expireCookie(w)
		s.dirty = false
		return nil
	}

	if s.renew {
		if !s.isNew {
			if err := m.store.Delete(ctx, s.id); err != nil {
				return err
			}
		}
		s.id = uuid.NewString()
		s.renew = false
	}

	if err := m.store.Set(ctx, s.id, &s.data, m.ttl); err != nil {
		return err
	}

	token, err := m.signToken(s.id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	s.isNew = false
	s.dirty = false
	return nil
}

func (m *Manager) fresh() *Session {
	return &Session{id: uuid.NewString(), isNew: true}
}

func (m *Manager) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) signToken(id string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (m *Manager) parseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.ID, nil
}
