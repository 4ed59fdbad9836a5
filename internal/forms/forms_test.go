// ABOUTME: Tests for form parsing and validation
// ABOUTME: Covers required fields, trimming, length caps, and email normalization

package forms

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTask(t *testing.T) {
	form, errs := ParseTask(url.Values{"task_name": {"  buy milk  "}})
	assert.False(t, errs.Any())
	assert.Equal(t, "buy milk", form.Name)

	_, errs = ParseTask(url.Values{"task_name": {"   "}})
	assert.True(t, errs.Any())
	assert.Contains(t, errs["task_name"], "required")

	_, errs = ParseTask(url.Values{"task_name": {strings.Repeat("x", 201)}})
	assert.Contains(t, errs["task_name"], "too long")
}

func TestParseList(t *testing.T) {
	form, errs := ParseList(url.Values{"list_name": {"Groceries"}})
	assert.False(t, errs.Any())
	assert.Equal(t, "Groceries", form.Name)

	_, errs = ParseList(url.Values{})
	assert.True(t, errs.Any())
}

func TestParseRegister(t *testing.T) {
	form, errs := ParseRegister(url.Values{
		"display_name": {"Ada"},
		"email":        {"  Ada@Example.COM "},
		"password":     {"password123"},
	})
	assert.False(t, errs.Any())
	assert.Equal(t, "Ada", form.DisplayName)
	assert.Equal(t, "ada@example.com", form.Email)
}

func TestParseRegisterRejectsInvalid(t *testing.T) {
	_, errs := ParseRegister(url.Values{
		"display_name": {""},
		"email":        {"not-an-email"},
		"password":     {"short"},
	})
	assert.Len(t, errs, 3)
	assert.Contains(t, errs["display_name"], "required")
	assert.Contains(t, errs["email"], "not valid")
	assert.Contains(t, errs["password"], "at least 8")
}

func TestParseLogin(t *testing.T) {
	form, errs := ParseLogin(url.Values{"email": {"User@Example.com"}, "password": {"secretpw"}})
	assert.False(t, errs.Any())
	assert.Equal(t, "user@example.com", form.Email)
	assert.Equal(t, "secretpw", form.Password)

	_, errs = ParseLogin(url.Values{"email": {""}, "password": {""}})
	assert.Len(t, errs, 2)
}
