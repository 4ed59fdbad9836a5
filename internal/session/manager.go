// ABOUTME: Session lifecycle manager with JWT-signed cookies over DB-backed rows
// ABOUTME: Tampered or expired cookies fall back to a fresh anonymous session

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/listkeep/listkeep/internal/store"
)

// CookieName is the name of the session cookie.
const CookieName = "listkeep_session"

// ErrNoSession is returned by Load when the request carries no usable session.
var ErrNoSession = errors.New("no session")

// Manager creates, loads, and persists browser sessions. The cookie value is
// an HS256 JWT whose subject is the session row id, so a forged cookie fails
// signature verification before the database is ever consulted.
type Manager struct {
	store    store.Store
	secret   []byte
	duration time.Duration
	logger   *slog.Logger
}

// NewManager creates a session manager.
func NewManager(st store.Store, secret []byte, duration time.Duration) *Manager {
	return &Manager{
		store:    st,
		secret:   secret,
		duration: duration,
		logger:   slog.Default().With("component", "session"),
	}
}

// Load retrieves the session referenced by the request's cookie. Returns
// ErrNoSession when the cookie is absent, fails verification, or references
// an expired or deleted row.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	id, err := m.verifyCookie(cookie.Value)
	if err != nil {
		m.logger.Debug("rejected session cookie", "error", err)
		return nil, ErrNoSession
	}

	row, err := m.store.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	return &Session{row: row}, nil
}

// New creates a fresh session row and sets its cookie on the response.
func (m *Manager) New(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	now := time.Now()
	row := &store.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
	}

	if err := m.store.CreateSession(ctx, row); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	signed, err := m.signCookie(row.ID, row.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("signing session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  row.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return &Session{row: row}, nil
}

// Persist writes the session back to the store if it was mutated.
func (m *Manager) Persist(ctx context.Context, sess *Session) error {
	if sess == nil || !sess.dirty {
		return nil
	}
	if err := m.store.UpdateSession(ctx, sess.row); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	sess.dirty = false
	return nil
}

// Destroy deletes the session row and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess != nil {
		if err := m.store.DeleteSession(ctx, sess.ID()); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return nil
}

// signCookie wraps a session id in an HS256 JWT.
func (m *Manager) signCookie(sessionID string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// verifyCookie validates the cookie JWT and extracts the session id from the
// "sub" claim.
func (m *Manager) verifyCookie(value string) (string, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parsing session cookie: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid session cookie")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing sub claim")
	}
	return sub, nil
}
