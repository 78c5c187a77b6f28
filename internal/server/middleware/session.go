// Package middleware provides HTTP middleware for session identity.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the current session ID.
const sessionIDKey ContextKey = "sessionID"

// DefaultCookieName names the session cookie.
const DefaultCookieName = "smart_ats_session"

// SessionStore is the subset of the session store the middleware needs.
type SessionStore interface {
	Create() uuid.UUID
	Exists(id uuid.UUID) bool
}

// TokenService signs and verifies session cookie values. ValidateToken
// reports the token's expiry, or the zero time when it has none.
type TokenService interface {
	GenerateToken(sessionID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (uuid.UUID, time.Time, error)
}

// DefaultRenewAfter is how old a token gets before an active session is
// issued a fresh one.
const DefaultRenewAfter = time.Minute

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration

	// RenewAfter is how long after issue a token is replaced on the next
	// request. Zero means DefaultRenewAfter.
	RenewAfter time.Duration
}

// Sessions resolves the session for each request from its signed cookie.
// A missing, invalid, or expired token, or one naming a session the store no
// longer holds, starts a fresh session and sets a new cookie.
//
// With a MaxAge set, a live session's token is re-issued once it is older
// than RenewAfter, so the cookie expires after MaxAge of inactivity like the
// session it names, not MaxAge after the first visit.
func Sessions(store SessionStore, tokens TokenService, cookie CookieConfig, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	if cookie.RenewAfter <= 0 {
		cookie.RenewAfter = DefaultRenewAfter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, expiresAt, ok := sessionFromCookie(r, store, tokens, cookie.Name); ok {
				if cookie.needsRenewal(expiresAt) {
					if err := issueCookie(w, tokens, cookie, id); err != nil {
						// The current token is still good; try again next request.
						logger.WithError(err).WithField("session_id", id).Warn("Failed to renew session token")
					}
				}
				next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
				return
			}

			id := store.Create()
			if err := issueCookie(w, tokens, cookie, id); err != nil {
				logger.WithError(err).Error("Failed to issue session token")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			logger.WithField("session_id", id).Debug("Started session")
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

func (c CookieConfig) needsRenewal(expiresAt time.Time) bool {
	if c.MaxAge <= 0 || expiresAt.IsZero() {
		return false
	}
	return time.Until(expiresAt) < c.MaxAge-c.RenewAfter
}

func issueCookie(w http.ResponseWriter, tokens TokenService, cookie CookieConfig, id uuid.UUID) error {
	token, err := tokens.GenerateToken(id)
	if err != nil {
		return err
	}

	c := &http.Cookie{
		Name:     cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cookie.MaxAge > 0 {
		c.MaxAge = int(cookie.MaxAge.Seconds())
	}
	http.SetCookie(w, c)
	return nil
}

func sessionFromCookie(r *http.Request, store SessionStore, tokens TokenService, name string) (uuid.UUID, time.Time, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return uuid.Nil, time.Time{}, false
	}
	id, expiresAt, err := tokens.ValidateToken(c.Value)
	if err != nil {
		return uuid.Nil, time.Time{}, false
	}
	if !store.Exists(id) {
		return uuid.Nil, time.Time{}, false
	}
	return id, expiresAt, true
}

// WithSessionID returns a context carrying the session ID.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID extracts the current session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}
