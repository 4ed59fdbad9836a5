// ABOUTME: HTTP handlers for list and task routes plus register/login/logout
// ABOUTME: Each mutation resolves the actor, defers to the lifecycle service, redirects on success

package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/listkeep/listkeep/internal/forms"
	"github.com/listkeep/listkeep/internal/identity"
	"github.com/listkeep/listkeep/internal/lifecycle"
	"github.com/listkeep/listkeep/internal/session"
	"github.com/listkeep/listkeep/internal/store"
)

// parseID extracts a numeric path id. Returns false after writing a 404.
func (s *Server) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// handleHome shows the actor's task lists: the lazily created default list
// for anonymous visitors, the list overview for authenticated users.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	actor := identity.FromContext(r.Context())
	csrfToken := s.ensureCSRFToken(w, r)

	if actor.Kind() == identity.KindAuthenticated {
		lists, err := s.service.Lists(r.Context(), actor)
		if err != nil {
			s.renderFailure(w, err)
			return
		}
		s.renderIndex(w, lists, csrfToken)
		return
	}

	list, err := s.service.EnsureDefaultList(r.Context(), actor)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	tasks, err := s.service.Tasks(r.Context(), list.ID)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	s.renderEditList(w, editListData{
		Title:     list.Name,
		List:      list,
		Tasks:     tasks,
		Action:    "/",
		CSRFToken: csrfToken,
	})
}

// handleHomeAddTask appends a task to the anonymous actor's default list.
func (s *Server) handleHomeAddTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	actor := identity.FromContext(r.Context())
	if actor.Kind() == identity.KindAuthenticated {
		// Authenticated users add tasks on their list pages.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	list, err := s.service.EnsureDefaultList(r.Context(), actor)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	form, errs := forms.ParseTask(r.PostForm)
	if errs.Any() {
		tasks, err := s.service.Tasks(r.Context(), list.ID)
		if err != nil {
			s.renderFailure(w, err)
			return
		}
		s.renderEditList(w, editListData{
			Title:     list.Name,
			List:      list,
			Tasks:     tasks,
			Action:    "/",
			Errors:    errs,
			TaskName:  form.Name,
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}

	if _, err := s.service.AddTask(r.Context(), actor, list.ID, form.Name); err != nil {
		s.renderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleListView shows a list's tasks to its owner.
func (s *Server) handleListView(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	listID, ok := s.parseID(w, r)
	if !ok {
		return
	}

	actor := identity.FromContext(r.Context())
	list, tasks, err := s.service.ViewList(r.Context(), actor, listID)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	path := "/lists/" + strconv.FormatInt(list.ID, 10)
	s.renderEditList(w, editListData{
		Title:     list.Name,
		List:      list,
		Tasks:     tasks,
		Action:    path + "/tasks",
		CanRename: actor.Kind() == identity.KindAuthenticated,
		CSRFToken: s.ensureCSRFToken(w, r),
	})
}

// handleListAddTask appends a task to an explicitly addressed list.
func (s *Server) handleListAddTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	listID, ok := s.parseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	actor := identity.FromContext(r.Context())
	form, errs := forms.ParseTask(r.PostForm)
	if errs.Any() {
		list, tasks, err := s.service.ViewList(r.Context(), actor, listID)
		if err != nil {
			s.renderFailure(w, err)
			return
		}
		path := "/lists/" + strconv.FormatInt(list.ID, 10)
		s.renderEditList(w, editListData{
			Title:     list.Name,
			List:      list,
			Tasks:     tasks,
			Action:    path + "/tasks",
			CanRename: actor.Kind() == identity.KindAuthenticated,
			Errors:    errs,
			TaskName:  form.Name,
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}

	if _, err := s.service.AddTask(r.Context(), actor, listID, form.Name); err != nil {
		s.renderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/lists/"+strconv.FormatInt(listID, 10), http.StatusSeeOther)
}

// handleToggleTask flips a task's done flag and returns to where the task lives.
func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	taskID, ok := s.parseID(w, r)
	if !ok {
		return
	}

	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	actor := identity.FromContext(r.Context())
	task, err := s.service.ToggleTask(r.Context(), actor, taskID)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	http.Redirect(w, r, s.listReturnPath(actor, task.ListID), http.StatusSeeOther)
}

// handleDeleteTask removes a task and returns to its list.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	taskID, ok := s.parseID(w, r)
	if !ok {
		return
	}

	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	actor := identity.FromContext(r.Context())
	listID, err := s.service.DeleteTask(r.Context(), actor, taskID)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	http.Redirect(w, r, s.listReturnPath(actor, listID), http.StatusSeeOther)
}

// listReturnPath is where task mutations land: anonymous actors live on the
// home page, authenticated ones on the list page.
func (s *Server) listReturnPath(actor identity.Actor, listID int64) string {
	if actor.Kind() == identity.KindAuthenticated {
		return "/lists/" + strconv.FormatInt(listID, 10)
	}
	return "/"
}

// handleNewListPage renders the create-list form.
func (s *Server) handleNewListPage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	actor := identity.FromContext(r.Context())
	if actor.Kind() != identity.KindAuthenticated {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	s.renderListForm(w, listFormData{
		Title:     "New list",
		Heading:   "Create a list",
		Action:    "/lists/new",
		CSRFToken: s.ensureCSRFToken(w, r),
	})
}

// handleNewList creates a named list for an authenticated user.
func (s *Server) handleNewList(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	actor := identity.FromContext(r.Context())
	form, errs := forms.ParseList(r.PostForm)
	if errs.Any() {
		s.renderListForm(w, listFormData{
			Title:     "New list",
			Heading:   "Create a list",
			Action:    "/lists/new",
			Name:      form.Name,
			Errors:    errs,
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}

	list, err := s.service.CreateList(r.Context(), actor, form.Name)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/lists/"+strconv.FormatInt(list.ID, 10), http.StatusSeeOther)
}

// handleRenamePage renders the rename form for a list the actor owns.
func (s *Server) handleRenamePage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	listID, ok := s.parseID(w, r)
	if !ok {
		return
	}

	actor := identity.FromContext(r.Context())
	if actor.Kind() != identity.KindAuthenticated {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	list, _, err := s.service.ViewList(r.Context(), actor, listID)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	path := "/lists/" + strconv.FormatInt(list.ID, 10)
	s.renderListForm(w, listFormData{
		Title:     "Rename list",
		Heading:   "Rename " + list.Name,
		Action:    path + "/rename",
		Name:      list.Name,
		CSRFToken: s.ensureCSRFToken(w, r),
	})
}

// handleRename updates a list's name.
func (s *Server) handleRename(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	listID, ok := s.parseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	actor := identity.FromContext(r.Context())
	form, errs := forms.ParseList(r.PostForm)
	if errs.Any() {
		path := "/lists/" + strconv.FormatInt(listID, 10)
		s.renderListForm(w, listFormData{
			Title:     "Rename list",
			Heading:   "Rename list",
			Action:    path + "/rename",
			Name:      form.Name,
			Errors:    errs,
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}

	if err := s.service.RenameList(r.Context(), actor, listID, form.Name); err != nil {
		s.renderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/lists/"+strconv.FormatInt(listID, 10), http.StatusSeeOther)
}

// handleRegisterPage renders the registration form.
func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	actor := identity.FromContext(r.Context())
	if actor.Kind() == identity.KindAuthenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.renderRegisterPage(w, registerData{
		Title:     "Register",
		CSRFToken: s.ensureCSRFToken(w, r),
	})
}

// handleRegister creates an account and adopts the anonymous list, if any.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	form, errs := forms.ParseRegister(r.PostForm)
	if errs.Any() {
		s.renderRegisterPage(w, registerData{
			Title:     "Register",
			Form:      form,
			Errors:    errs,
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}

	actor := identity.FromContext(r.Context())
	account, err := s.service.Register(r.Context(), actor, form.DisplayName, form.Email, form.Password)
	if errors.Is(err, store.ErrEmailExists) {
		s.renderRegisterPage(w, registerData{
			Title:     "Register",
			Form:      form,
			Message:   "You've already registered with this e-mail, log in instead",
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	sess.Authenticate(account.ID)
	s.logger.Info("registration successful", "account_id", account.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLoginPage renders the login form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	actor := identity.FromContext(r.Context())
	if actor.Kind() == identity.KindAuthenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.renderLoginPage(w, loginData{
		Title:     "Login",
		CSRFToken: s.ensureCSRFToken(w, r),
	})
}

// handleLogin verifies credentials and marks the session authenticated.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !s.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	form, errs := forms.ParseLogin(r.PostForm)
	if errs.Any() {
		s.renderLoginPage(w, loginData{
			Title:     "Login",
			Email:     form.Email,
			Errors:    errs,
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}

	actor := identity.FromContext(r.Context())
	account, err := s.service.Login(r.Context(), actor, form.Email, form.Password)
	if errors.Is(err, lifecycle.ErrBadCredentials) {
		s.renderLoginPage(w, loginData{
			Title:     "Login",
			Email:     form.Email,
			Message:   "Invalid email or password",
			CSRFToken: s.ensureCSRFToken(w, r),
		})
		return
	}
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	sess.Authenticate(account.ID)
	s.logger.Info("login successful", "account_id", account.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout destroys the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err == nil {
		if !s.validateCSRF(r) {
			s.logger.Warn("logout request with invalid CSRF token")
		}
	}

	if err := s.sessions.Destroy(r.Context(), w, sess); err != nil {
		s.logger.Error("failed to destroy session", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
