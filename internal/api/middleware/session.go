package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

const sessionKey = "session"

// Session is the per-request view of the caller's session. Mutations are
// buffered and committed just before the response is written.
type Session struct {
	id        string
	issuedAt  time.Time
	data      map[string]string
	fresh     bool
	dirty     bool
	destroyed bool
}

// Get returns the value stored under key, if any.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Set stores a value and marks the session for persistence.
func (s *Session) Set(key, value string) {
	s.data[key] = value
	s.dirty = true
	s.destroyed = false
}

// Destroy removes the session and its cookie when the response commits.
func (s *Session) Destroy() {
	s.destroyed = true
	s.dirty = false
}

// Empty reports whether the session carries no data.
func (s *Session) Empty() bool { return len(s.data) == 0 }

// SessionFrom returns the session attached by SessionMiddleware, or nil.
func SessionFrom(c echo.Context) *Session {
	s, _ := c.Get(sessionKey).(*Session)
	return s
}

// SessionConfig configures the cookie session stage.
type SessionConfig struct {
	Store ports.SessionStore
	// Secret signs the session id carried in the cookie (HMAC-SHA256).
	Secret     string
	CookieName string
	TTL        time.Duration
	// Secure marks the cookie HTTPS-only; set in production.
	Secure bool
	Logger zerolog.Logger
}

// SessionMiddleware attaches a session to every request. The cookie carries
// only a signed opaque id; the data lives in the session store. Store
// failures degrade to an empty session (fail-soft) instead of failing the
// request. The id is rotated whenever a commit happens more than half the
// TTL after it was issued.
func SessionMiddleware(cfg SessionConfig) echo.MiddlewareFunc {
	secret := []byte(cfg.Secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := loadSession(c, cfg, secret)
			c.Set(sessionKey, sess)

			c.Response().Before(func() {
				commitSession(c, cfg, secret, sess)
			})

			return next(c)
		}
	}
}

func loadSession(c echo.Context, cfg SessionConfig, secret []byte) *Session {
	fresh := &Session{fresh: true, data: map[string]string{}, issuedAt: time.Now()}

	cookie, err := c.Cookie(cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return fresh
	}
	id, ok := verifySessionID(cookie.Value, secret)
	if !ok {
		// Tampered or foreign cookie; start over.
		return fresh
	}

	record, err := cfg.Store.Get(c.Request().Context(), id)
	if err != nil {
		metrics.SessionStoreFailures.WithLabelValues("get").Inc()
		cfg.Logger.Error().Err(err).
			Str("request_id", RequestIDFrom(c)).
			Msg("session store get failed, using empty session")
		return fresh
	}
	if record == nil {
		return fresh
	}

	data := record.Data
	if data == nil {
		data = map[string]string{}
	}
	return &Session{id: id, issuedAt: record.IssuedAt, data: data}
}

func commitSession(c echo.Context, cfg SessionConfig, secret []byte, sess *Session) {
	ctx := c.Request().Context()

	if sess.destroyed {
		if sess.id != "" {
			if err := cfg.Store.Destroy(ctx, sess.id); err != nil {
				metrics.SessionStoreFailures.WithLabelValues("destroy").Inc()
				cfg.Logger.Error().Err(err).Msg("session store destroy failed")
			}
		}
		expireCookie(c, cfg)
		return
	}

	renewalDue := !sess.fresh && time.Since(sess.issuedAt) > cfg.TTL/2
	if !sess.dirty && !renewalDue {
		return
	}
	if sess.Empty() {
		return
	}

	// Rolling renewal rotates the id so a long-lived cookie never keeps
	// the same session identifier for more than half the TTL.
	if sess.fresh || renewalDue {
		if sess.id != "" {
			if err := cfg.Store.Destroy(ctx, sess.id); err != nil {
				metrics.SessionStoreFailures.WithLabelValues("destroy").Inc()
				cfg.Logger.Error().Err(err).Msg("session store destroy failed during rotation")
			}
		}
		sess.id = uuid.NewString()
		sess.issuedAt = time.Now()
	}

	record := &ports.SessionRecord{Data: sess.data, IssuedAt: sess.issuedAt}
	if err := cfg.Store.Set(ctx, sess.id, record, cfg.TTL); err != nil {
		metrics.SessionStoreFailures.WithLabelValues("set").Inc()
		cfg.Logger.Error().Err(err).Msg("session store set failed")
		return
	}

	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    signSessionID(sess.id, secret),
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireCookie(c echo.Context, cfg SessionConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// signSessionID produces "<id>.<base64url(hmac)>".
func signSessionID(id string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verifySessionID(value string, secret []byte) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))
	if !hmac.Equal(mac.Sum(nil), want) {
		return "", false
	}
	return id, true
}
