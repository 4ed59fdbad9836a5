// ABOUTME: Template rendering functions for the list UI
// ABOUTME: Loads templates from the embedded filesystem and renders them

package web

import (
	"html/template"
	"net/http"

	"github.com/listkeep/listkeep/internal/forms"
	"github.com/listkeep/listkeep/internal/store"
)

// Template data types
type indexData struct {
	Title     string
	Lists     []*store.List
	CSRFToken string
}

type editListData struct {
	Title     string
	List      *store.List
	Tasks     []*store.Task
	Action    string // add-task form target
	CanRename bool
	Errors    forms.Errors
	TaskName  string
	CSRFToken string
}

type listFormData struct {
	Title     string
	Heading   string
	Action    string
	Name      string
	Errors    forms.Errors
	CSRFToken string
}

type registerData struct {
	Title     string
	Form      forms.RegisterForm
	Errors    forms.Errors
	Message   string
	CSRFToken string
}

type loginData struct {
	Title     string
	Email     string
	Errors    forms.Errors
	Message   string
	CSRFToken string
}

// renderIndex renders the list overview for an authenticated user.
func (s *Server) renderIndex(w http.ResponseWriter, lists []*store.List, csrfToken string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/index.html"))

	data := indexData{
		Title:     "Your lists",
		Lists:     lists,
		CSRFToken: csrfToken,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.Error("failed to render index", "error", err)
	}
}

// renderEditList renders a single list with its tasks and the add-task form.
func (s *Server) renderEditList(w http.ResponseWriter, data editListData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/edit_list.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.Error("failed to render list", "error", err)
	}
}

// renderListForm renders the create-list / rename-list form.
func (s *Server) renderListForm(w http.ResponseWriter, data listFormData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/list_form.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.Error("failed to render list form", "error", err)
	}
}

// renderRegisterPage renders the registration page.
func (s *Server) renderRegisterPage(w http.ResponseWriter, data registerData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/register.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.Error("failed to render register page", "error", err)
	}
}

// renderLoginPage renders the login page.
func (s *Server) renderLoginPage(w http.ResponseWriter, data loginData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/login.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.Error("failed to render login page", "error", err)
	}
}
