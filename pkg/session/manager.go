package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/homemade/pickleshop/pkg/config"
	"github.com/homemade/pickleshop/pkg/logger"
)

const idBytes = 32

type ctxKey struct{}

// Manager binds a Session to every request through a cookie.
type Manager struct {
	store  Store
	cookie string
	ttl    time.Duration
	secure bool
	logg   *logger.Logger
	newID  func() (string, error)
}

func NewManager(store Store, cfg config.SessionConfig, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		return nil, fmt.Errorf("session cookie name is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store:  store,
		cookie: cfg.CookieName,
		ttl:    cfg.TTL,
		secure: cfg.SecureCookie,
		logg:   logg,
		newID:  generateID,
	}, nil
}

// Middleware loads or creates the session, exposes it through the request
// context, and persists it after the handler returns when it changed.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess, err := m.load(ctx, r)
		if err != nil {
			m.logg.Error(ctx, "session.create.failed", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     m.cookie,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})

		ctx = m.logg.WithSessionID(ctx, sess.ID)
		ctx = context.WithValue(ctx, ctxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))

		if !sess.Dirty() {
			return
		}
		if err := m.store.Save(ctx, sess, m.ttl); err != nil {
			m.logg.Warn(ctx, "session.save.failed", err)
		}
	})
}

func (m *Manager) load(ctx context.Context, r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(m.cookie); err == nil && cookie.Value != "" {
		sess, err := m.store.Load(ctx, cookie.Value)
		switch {
		case err == nil:
			return sess, nil
		case errors.Is(err, ErrNotFound):
		default:
			m.logg.Warn(ctx, "session.load.failed", err)
		}
	}
	id, err := m.newID()
	if err != nil {
		return nil, err
	}
	return newSession(id), nil
}

// FromContext returns the request's session. Outside the middleware it returns
// a throwaway session so handlers never deal with nil.
func FromContext(ctx context.Context) *Session {
	if ctx != nil {
		if sess, ok := ctx.Value(ctxKey{}).(*Session); ok {
			return sess
		}
	}
	return newSession("")
}

// WithSession attaches sess to ctx; tests use it to bypass the middleware.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

func generateID() (string, error) {
	bytes := make([]byte, idBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
