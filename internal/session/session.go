// ABOUTME: Browser session state holding the two identity keys
// ABOUTME: Wraps a store row and tracks whether it needs writing back

package session

import (
	"github.com/listkeep/listkeep/internal/store"
)

// Session is the mutable per-request view of a browser session. It implements
// identity.Session so the resolver can mint tokens into it.
type Session struct {
	row   *store.Session
	dirty bool
}

// ID returns the session row id.
func (s *Session) ID() string { return s.row.ID }

// AccountID returns the authenticated account id, if the session holds one.
func (s *Session) AccountID() (int64, bool) {
	if s.row.AccountID == nil {
		return 0, false
	}
	return *s.row.AccountID, true
}

// ActorToken returns the anonymous actor token, empty if none was minted yet.
func (s *Session) ActorToken() string { return s.row.ActorToken }

// SetActorToken stores a freshly minted anonymous token.
func (s *Session) SetActorToken(token string) {
	s.row.ActorToken = token
	s.dirty = true
}

// Authenticate marks the session as belonging to a registered account.
// The anonymous token is kept on the row so the registration flow can still
// find the list it needs to transfer, but identity resolution prefers the
// account marker from here on; the token never authorizes anything again.
func (s *Session) Authenticate(accountID int64) {
	s.row.AccountID = &accountID
	s.dirty = true
}
