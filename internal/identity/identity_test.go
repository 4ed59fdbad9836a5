// ABOUTME: Tests for actor/owner tagged unions and token minting
// ABOUTME: Covers constructors, zero values, context round-trip, and resolver behavior

package identity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorVariants(t *testing.T) {
	anon := Anonymous("abc123XYZ0")
	assert.Equal(t, KindAnonymous, anon.Kind())
	assert.Equal(t, "abc123XYZ0", anon.Token())
	assert.True(t, anon.Resolved())

	auth := Authenticated(42)
	assert.Equal(t, KindAuthenticated, auth.Kind())
	assert.Equal(t, int64(42), auth.UserID())
	assert.True(t, auth.Resolved())

	var zero Actor
	assert.Equal(t, KindUnknown, zero.Kind())
	assert.False(t, zero.Resolved())
}

func TestActorOwner(t *testing.T) {
	owner := Anonymous("abc123XYZ0").Owner()
	assert.Equal(t, OwnerAnonymous, owner.Kind())
	assert.Equal(t, "abc123XYZ0", owner.Token())

	owner = Authenticated(42).Owner()
	assert.Equal(t, OwnerAccount, owner.Kind())
	assert.Equal(t, int64(42), owner.AccountID())

	var zero Actor
	assert.Equal(t, OwnerUnknown, zero.Owner().Kind())
}

func TestActorStringRedactsToken(t *testing.T) {
	s := Anonymous("abc123XYZ0").String()
	assert.NotContains(t, s, "abc123XYZ0")
	assert.Contains(t, s, "abc1")

	assert.Equal(t, "account(42)", Authenticated(42).String())
	assert.Equal(t, "unresolved", Actor{}.String())
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		assert.Len(t, token, TokenLength)
		for _, r := range token {
			assert.True(t, strings.ContainsRune(tokenAlphabet, r), "unexpected rune %q", r)
		}
		assert.False(t, seen[token], "token repeated: %s", token)
		seen[token] = true
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	// Absent actor resolves to the zero value.
	assert.False(t, FromContext(ctx).Resolved())

	actor := Anonymous("abc123XYZ0")
	ctx = WithActor(ctx, actor)
	assert.Equal(t, actor, FromContext(ctx))
}

// fakeSession implements Session in memory.
type fakeSession struct {
	token     string
	accountID *int64
}

func (f *fakeSession) AccountID() (int64, bool) {
	if f.accountID == nil {
		return 0, false
	}
	return *f.accountID, true
}
func (f *fakeSession) ActorToken() string         { return f.token }
func (f *fakeSession) SetActorToken(token string) { f.token = token }

func TestResolverNilSession(t *testing.T) {
	r := NewResolver()
	actor, err := r.Resolve(nil)
	require.NoError(t, err)
	assert.False(t, actor.Resolved())
}

func TestResolverMintsTokenOnce(t *testing.T) {
	r := NewResolver()
	sess := &fakeSession{}

	first, err := r.Resolve(sess)
	require.NoError(t, err)
	require.Equal(t, KindAnonymous, first.Kind())
	assert.Len(t, first.Token(), TokenLength)
	assert.Equal(t, first.Token(), sess.ActorToken())

	// Resolving again yields the same token, not a new one.
	second, err := r.Resolve(sess)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolverAccountMarkerWins(t *testing.T) {
	r := NewResolver()
	id := int64(42)
	sess := &fakeSession{token: "abc123XYZ0", accountID: &id}

	actor, err := r.Resolve(sess)
	require.NoError(t, err)
	assert.Equal(t, KindAuthenticated, actor.Kind())
	assert.Equal(t, int64(42), actor.UserID())
	// The stale anonymous token stays on the session but is not the identity.
	assert.Equal(t, "abc123XYZ0", sess.ActorToken())
}
