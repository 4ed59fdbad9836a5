// ABOUTME: Web UI server for listkeep task lists
// ABOUTME: Provides session middleware, CSRF protection, and route registration

package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/listkeep/listkeep/internal/authz"
	"github.com/listkeep/listkeep/internal/identity"
	"github.com/listkeep/listkeep/internal/lifecycle"
	"github.com/listkeep/listkeep/internal/session"
	"github.com/listkeep/listkeep/internal/store"
)

// CSRFCookieName is the name of the CSRF token cookie.
const CSRFCookieName = "listkeep_csrf"

// Server handles the web UI routes.
type Server struct {
	service  *lifecycle.Service
	sessions *session.Manager
	resolver *identity.Resolver
	logger   *slog.Logger
}

// New creates a web server.
func New(service *lifecycle.Service, sessions *session.Manager) *Server {
	return &Server{
		service:  service,
		sessions: sessions,
		resolver: identity.NewResolver(),
		logger:   slog.Default().With("component", "web"),
	}
}

// RegisterRoutes registers all web routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.withSession(s.handleHome))
	mux.HandleFunc("POST /{$}", s.withSession(s.handleHomeAddTask))

	mux.HandleFunc("GET /register", s.withSession(s.handleRegisterPage))
	mux.HandleFunc("POST /register", s.withSession(s.handleRegister))
	mux.HandleFunc("GET /login", s.withSession(s.handleLoginPage))
	mux.HandleFunc("POST /login", s.withSession(s.handleLogin))
	mux.HandleFunc("POST /logout", s.withSession(s.handleLogout))

	mux.HandleFunc("GET /lists/new", s.withSession(s.handleNewListPage))
	mux.HandleFunc("POST /lists/new", s.withSession(s.handleNewList))
	mux.HandleFunc("GET /lists/{id}", s.withSession(s.handleListView))
	mux.HandleFunc("POST /lists/{id}/tasks", s.withSession(s.handleListAddTask))
	mux.HandleFunc("GET /lists/{id}/rename", s.withSession(s.handleRenamePage))
	mux.HandleFunc("POST /lists/{id}/rename", s.withSession(s.handleRename))

	mux.HandleFunc("POST /tasks/{id}/toggle", s.withSession(s.handleToggleTask))
	mux.HandleFunc("POST /tasks/{id}/delete", s.withSession(s.handleDeleteTask))

	s.logger.Info("web routes registered")
}

// sessionHandler is a handler with the request's session attached.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession loads (or creates) the browser session, resolves the actor into
// the request context, and persists any session mutation after the handler
// runs. Token minting on first visit is the only mutation the resolver makes.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := s.sessions.Load(ctx, r)
		if errors.Is(err, session.ErrNoSession) {
			sess, err = s.sessions.New(ctx, w, r)
		}
		if err != nil {
			s.logger.Error("failed to establish session", "error", err)
			http.Error(w, "An error occurred", http.StatusInternalServerError)
			return
		}

		actor, err := s.resolver.Resolve(sess)
		if err != nil {
			s.logger.Error("failed to resolve actor", "error", err)
			http.Error(w, "An error occurred", http.StatusInternalServerError)
			return
		}

		r = r.WithContext(identity.WithActor(ctx, actor))
		next(w, r, sess)

		if err := s.sessions.Persist(r.Context(), sess); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to persist session", "error", err)
		}
	}
}

// renderFailure maps a lifecycle error onto the response taxonomy: NotFound
// for unresolvable ids, Forbidden for guard denials and unresolved actors,
// 500 for everything else. No partial mutation has happened by the time an
// error reaches here.
func (s *Server) renderFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, authz.ErrUnauthorized):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
	}
}

// ensureCSRFToken generates a CSRF token cookie if not present.
func (s *Server) ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(CSRFCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token, err := generateSecureToken(32)
	if err != nil {
		s.logger.Error("failed to generate CSRF token", "error", err)
		token = "" // Will fail validation, but won't crash
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	return token
}

// validateCSRF checks the CSRF token from the form against the cookie.
func (s *Server) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	formToken := r.FormValue("csrf_token")
	return formToken != "" && formToken == cookie.Value
}

// generateSecureToken generates a cryptographically secure random token.
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
