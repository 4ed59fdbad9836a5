// ABOUTME: End-to-end HTTP tests for the web surface
// ABOUTME: Exercises anonymous flows, registration, login, CSRF, and access denials

package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listkeep/listkeep/internal/lifecycle"
	"github.com/listkeep/listkeep/internal/session"
	"github.com/listkeep/listkeep/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions := session.NewManager(st, []byte("test-secret"), time.Hour)
	service := lifecycle.NewService(st)
	server := New(service, sessions)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// testClient is one browser: a cookie jar shared across requests.
type testClient struct {
	t  *testing.T
	ts *httptest.Server
	c  *http.Client
}

func newTestClient(t *testing.T, ts *httptest.Server) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, ts: ts, c: &http.Client{Jar: jar}}
}

func (tc *testClient) get(path string) (*http.Response, string) {
	tc.t.Helper()
	resp, err := tc.c.Get(tc.ts.URL + path)
	require.NoError(tc.t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(tc.t, err)
	require.NoError(tc.t, resp.Body.Close())
	return resp, string(body)
}

// csrfToken reads the CSRF double-submit cookie out of the jar.
func (tc *testClient) csrfToken() string {
	tc.t.Helper()
	u, err := url.Parse(tc.ts.URL)
	require.NoError(tc.t, err)
	for _, c := range tc.c.Jar.Cookies(u) {
		if c.Name == CSRFCookieName {
			return c.Value
		}
	}
	return ""
}

func (tc *testClient) postForm(path string, values url.Values) (*http.Response, string) {
	tc.t.Helper()
	if values.Get("csrf_token") == "" {
		values.Set("csrf_token", tc.csrfToken())
	}
	resp, err := tc.c.PostForm(tc.ts.URL+path, values)
	require.NoError(tc.t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(tc.t, err)
	require.NoError(tc.t, resp.Body.Close())
	return resp, string(body)
}

func TestAnonymousHomeCreatesDefaultList(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)

	resp, body := tc.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "My list")
	assert.Contains(t, body, "No tasks yet")
	assert.NotEmpty(t, tc.csrfToken())
}

func TestAnonymousAddToggleDeleteTask(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)

	tc.get("/") // establish session + default list

	resp, body := tc.postForm("/", url.Values{"task_name": {"buy milk"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode) // redirect followed back to /
	assert.Contains(t, body, "buy milk")

	resp, body = tc.postForm("/tasks/1/toggle", url.Values{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `class="done"`)

	resp, body = tc.postForm("/tasks/1/delete", url.Values{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "buy milk")
}

func TestAddTaskValidation(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)

	tc.get("/")
	resp, body := tc.postForm("/", url.Values{"task_name": {"   "}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Task name is required")
}

func TestPostWithoutCSRFRejected(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)

	tc.get("/")
	resp, err := tc.c.PostForm(ts.URL+"/", url.Values{
		"task_name":  {"buy milk"},
		"csrf_token": {"wrong-token"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStrangerCannotTouchAnotherList(t *testing.T) {
	ts := newTestServer(t)

	owner := newTestClient(t, ts)
	owner.get("/") // creates list id 1

	stranger := newTestClient(t, ts)
	stranger.get("/") // own session, own default list

	resp, _ := stranger.get("/lists/1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = stranger.postForm("/lists/1/tasks", url.Values{"task_name": {"sneaky"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUnknownIDsReturn404(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)
	tc.get("/")

	resp, _ := tc.get("/lists/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = tc.postForm("/tasks/999/toggle", url.Values{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = tc.get("/lists/banana")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterAdoptsAnonymousList(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)

	tc.get("/")
	tc.postForm("/", url.Values{"task_name": {"buy milk"}})

	resp, body := tc.postForm("/register", url.Values{
		"display_name": {"Ada"},
		"email":        {"ada@example.com"},
		"password":     {"password123"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// Now authenticated: home is the lists overview, carrying the adopted list.
	assert.Contains(t, body, "Your lists")
	assert.Contains(t, body, "My list")

	_, body = tc.get("/lists/1")
	assert.Contains(t, body, "buy milk")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	first := newTestClient(t, ts)
	first.get("/register")
	first.postForm("/register", url.Values{
		"display_name": {"Ada"},
		"email":        {"ada@example.com"},
		"password":     {"password123"},
	})

	second := newTestClient(t, ts)
	second.get("/register")
	resp, body := second.postForm("/register", url.Values{
		"display_name": {"Imposter"},
		"email":        {"ada@example.com"},
		"password":     {"password456"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "already registered")
}

func TestLoginAndLogout(t *testing.T) {
	ts := newTestServer(t)

	register := newTestClient(t, ts)
	register.get("/register")
	register.postForm("/register", url.Values{
		"display_name": {"Ada"},
		"email":        {"ada@example.com"},
		"password":     {"password123"},
	})

	tc := newTestClient(t, ts)
	tc.get("/login")

	resp, body := tc.postForm("/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"wrongpassword"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password")

	resp, body = tc.postForm("/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your lists")

	resp, body = tc.postForm("/logout", url.Values{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// Back to an anonymous session with a fresh default list.
	assert.Contains(t, body, "My list")
}

func TestAuthenticatedCreateAndRenameList(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)

	tc.get("/register")
	tc.postForm("/register", url.Values{
		"display_name": {"Ada"},
		"email":        {"ada@example.com"},
		"password":     {"password123"},
	})

	resp, body := tc.postForm("/lists/new", url.Values{"list_name": {"Groceries"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Groceries")

	resp, body = tc.postForm("/lists/1/rename", url.Values{"list_name": {"Errands"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Errands")
}

func TestAnonymousCannotCreateNamedList(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)
	tc.get("/")

	resp, _ := tc.get("/lists/new")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = tc.postForm("/lists/new", url.Values{"list_name": {"Groceries"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAnonymousCannotRename(t *testing.T) {
	ts := newTestServer(t)
	tc := newTestClient(t, ts)
	tc.get("/") // default list id 1

	resp, _ := tc.postForm("/lists/1/rename", url.Values{"list_name": {"Renamed"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
