// ABOUTME: Actor and OwnerRef tagged unions for the two identity kinds
// ABOUTME: Anonymous session tokens and authenticated account ids share one ownership model

package identity

import "fmt"

// Kind discriminates the Actor union.
type Kind int

const (
	// KindUnknown marks an unresolved actor (malformed or absent session state).
	KindUnknown Kind = iota
	// KindAnonymous is a visitor tracked by an opaque session token.
	KindAnonymous
	// KindAuthenticated is a registered user identified by account id.
	KindAuthenticated
)

// Actor is the resolved identity making a request. Exactly one variant is set;
// the zero value is unresolved and never passes the access guard.
type Actor struct {
	kind   Kind
	token  string
	userID int64
}

// Anonymous returns an actor identified by an opaque session token.
func Anonymous(token string) Actor {
	return Actor{kind: KindAnonymous, token: token}
}

// Authenticated returns an actor identified by a registered account id.
func Authenticated(userID int64) Actor {
	return Actor{kind: KindAuthenticated, userID: userID}
}

// Kind returns the actor's variant tag.
func (a Actor) Kind() Kind { return a.kind }

// Token returns the anonymous session token, empty for other kinds.
func (a Actor) Token() string { return a.token }

// UserID returns the account id, zero for other kinds.
func (a Actor) UserID() int64 { return a.userID }

// Resolved reports whether the actor carries a usable identity.
func (a Actor) Resolved() bool { return a.kind != KindUnknown }

// Owner converts the actor into the owner reference it would stamp on a new list.
func (a Actor) Owner() OwnerRef {
	switch a.kind {
	case KindAnonymous:
		return AnonymousOwner(a.token)
	case KindAuthenticated:
		return AccountOwner(a.userID)
	default:
		return OwnerRef{}
	}
}

// String renders the actor for logs without leaking the full session token.
func (a Actor) String() string {
	switch a.kind {
	case KindAnonymous:
		tok := a.token
		if len(tok) > 4 {
			tok = tok[:4] + "…"
		}
		return "anonymous(" + tok + ")"
	case KindAuthenticated:
		return fmt.Sprintf("account(%d)", a.userID)
	default:
		return "unresolved"
	}
}

// OwnerKind discriminates the OwnerRef union.
type OwnerKind int

const (
	// OwnerUnknown is the zero value; lists never persist it.
	OwnerUnknown OwnerKind = iota
	// OwnerAnonymous means the list is owned by an anonymous session token.
	OwnerAnonymous
	// OwnerAccount means the list is owned by a registered account.
	OwnerAccount
)

// OwnerRef is the polymorphic owner key stored on a list: an anonymous token or
// an account id, never both. Comparisons go through the access guard; raw field
// equality across kinds is meaningless.
type OwnerRef struct {
	kind      OwnerKind
	token     string
	accountID int64
}

// AnonymousOwner returns an owner reference in token form.
func AnonymousOwner(token string) OwnerRef {
	return OwnerRef{kind: OwnerAnonymous, token: token}
}

// AccountOwner returns an owner reference in account-id form.
func AccountOwner(id int64) OwnerRef {
	return OwnerRef{kind: OwnerAccount, accountID: id}
}

// Kind returns the owner's variant tag.
func (o OwnerRef) Kind() OwnerKind { return o.kind }

// Token returns the anonymous token, empty for account owners.
func (o OwnerRef) Token() string { return o.token }

// AccountID returns the account id, zero for anonymous owners.
func (o OwnerRef) AccountID() int64 { return o.accountID }
