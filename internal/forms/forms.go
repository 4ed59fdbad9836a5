// ABOUTME: Typed form parsing and validation for the web surface
// ABOUTME: Returns validated values or field-level error maps, never partial data

package forms

import (
	"net/url"
	"regexp"
	"strings"
)

// Field length cap shared by names and emails.
const maxFieldLength = 200

// minPasswordLength is the registration password floor.
const minPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Errors maps field names to human-readable validation messages.
type Errors map[string]string

// Any reports whether any field failed validation.
func (e Errors) Any() bool { return len(e) > 0 }

// TaskForm is a validated add-task submission.
type TaskForm struct {
	Name string
}

// ParseTask validates an add-task form.
func ParseTask(values url.Values) (TaskForm, Errors) {
	errs := Errors{}
	name := strings.TrimSpace(values.Get("task_name"))
	requireText(errs, "task_name", name, "Task name")
	return TaskForm{Name: name}, errs
}

// ListForm is a validated create-list or rename-list submission.
type ListForm struct {
	Name string
}

// ParseList validates a list name form.
func ParseList(values url.Values) (ListForm, Errors) {
	errs := Errors{}
	name := strings.TrimSpace(values.Get("list_name"))
	requireText(errs, "list_name", name, "List name")
	return ListForm{Name: name}, errs
}

// RegisterForm is a validated registration submission.
type RegisterForm struct {
	DisplayName string
	Email       string
	Password    string
}

// ParseRegister validates a registration form.
func ParseRegister(values url.Values) (RegisterForm, Errors) {
	errs := Errors{}

	name := strings.TrimSpace(values.Get("display_name"))
	requireText(errs, "display_name", name, "Name")

	email := normalizeEmail(values.Get("email"))
	validateEmail(errs, email)

	password := values.Get("password")
	if len(password) < minPasswordLength {
		errs["password"] = "Password must be at least 8 characters"
	}

	return RegisterForm{DisplayName: name, Email: email, Password: password}, errs
}

// LoginForm is a validated login submission.
type LoginForm struct {
	Email    string
	Password string
}

// ParseLogin validates a login form.
func ParseLogin(values url.Values) (LoginForm, Errors) {
	errs := Errors{}

	email := normalizeEmail(values.Get("email"))
	validateEmail(errs, email)

	password := values.Get("password")
	if password == "" {
		errs["password"] = "Password is required"
	}

	return LoginForm{Email: email, Password: password}, errs
}

func requireText(errs Errors, field, value, label string) {
	switch {
	case value == "":
		errs[field] = label + " is required"
	case len(value) > maxFieldLength:
		errs[field] = label + " is too long"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(errs Errors, email string) {
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case len(email) > maxFieldLength || !emailRegex.MatchString(email):
		errs["email"] = "Email address is not valid"
	}
}
