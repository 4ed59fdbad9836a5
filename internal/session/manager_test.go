// ABOUTME: Tests for the session manager and its JWT cookies
// ABOUTME: Covers create/load round-trip, tampering, persistence, and destroy

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listkeep/listkeep/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewManager(st, []byte("test-secret"), time.Hour), st
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestNewAndLoad(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	created, err := m.New(ctx, rec, req)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.NotEqual(t, created.ID(), cookie.Value, "cookie must carry a signed token, not the raw id")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	loaded, err := m.Load(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID(), loaded.ID())
}

func TestLoadNoCookie(t *testing.T) {
	m, _ := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Load(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadTamperedCookie(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	_, err := m.New(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	cookie := sessionCookie(t, rec)
	cookie.Value += "tampered"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, err = m.Load(ctx, req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadWrongSecret(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	_, err := m.New(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	other := NewManager(st, []byte("different-secret"), time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))
	_, err = other.Load(ctx, req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestPersistWritesMutations(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := m.New(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	// Clean session: Persist is a no-op.
	require.NoError(t, m.Persist(ctx, sess))

	sess.SetActorToken("abc123XYZ0")
	sess.Authenticate(42)
	require.NoError(t, m.Persist(ctx, sess))

	row, err := st.GetSession(ctx, sess.ID())
	require.NoError(t, err)
	assert.Equal(t, "abc123XYZ0", row.ActorToken)
	require.NotNil(t, row.AccountID)
	assert.Equal(t, int64(42), *row.AccountID)
}

func TestDestroy(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := m.New(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec, sess))

	_, err = st.GetSession(ctx, sess.ID())
	assert.ErrorIs(t, err, store.ErrNotFound)

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestSessionIdentityKeys(t *testing.T) {
	row := &store.Session{ID: "sess-1"}
	sess := &Session{row: row}

	_, ok := sess.AccountID()
	assert.False(t, ok)
	assert.Empty(t, sess.ActorToken())

	sess.SetActorToken("abc123XYZ0")
	assert.Equal(t, "abc123XYZ0", sess.ActorToken())

	sess.Authenticate(42)
	id, ok := sess.AccountID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	// The token survives authentication; resolution just stops using it.
	assert.Equal(t, "abc123XYZ0", sess.ActorToken())
}
