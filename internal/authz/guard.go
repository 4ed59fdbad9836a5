// ABOUTME: Access guard deciding whether an actor may act on an owned resource
// ABOUTME: Single choke point reconciling the two identity kinds; pure function of its inputs

package authz

import (
	"errors"

	"github.com/listkeep/listkeep/internal/identity"
)

// ErrForbidden is returned when the guard denies an actor access to a resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when no actor identity could be resolved for an
// endpoint that requires one. Distinct from ErrForbidden: the request carried
// no usable identity at all rather than the wrong one.
var ErrUnauthorized = errors.New("unauthorized")

// Decision is the guard's verdict.
type Decision int

const (
	// Deny means the actor is not the resource owner.
	Deny Decision = iota
	// Allow means the actor is the resource owner.
	Allow
	// Unauthorized means no actor identity was resolved. Callers decide whether
	// that is fatal (explicit resource-id endpoints) or irrelevant (the
	// create-on-first-visit flow is self-scoped and never consults the guard).
	Unauthorized
)

// Authorize compares an actor against a resource's recorded owner. The rule:
// authenticated actors match account owners by id, anonymous actors match
// token owners by token, and any kind mismatch is a denial. No endpoint may
// compare identities itself; every ownership check routes through here.
func Authorize(actor identity.Actor, owner identity.OwnerRef) Decision {
	if !actor.Resolved() {
		return Unauthorized
	}

	switch {
	case actor.Kind() == identity.KindAuthenticated && owner.Kind() == identity.OwnerAccount:
		if actor.UserID() == owner.AccountID() {
			return Allow
		}
	case actor.Kind() == identity.KindAnonymous && owner.Kind() == identity.OwnerAnonymous:
		if actor.Token() == owner.Token() {
			return Allow
		}
	}
	return Deny
}

// Check is Authorize mapped onto the error taxonomy: nil on Allow,
// ErrForbidden on Deny, ErrUnauthorized when the actor is unresolved.
func Check(actor identity.Actor, owner identity.OwnerRef) error {
	switch Authorize(actor, owner) {
	case Allow:
		return nil
	case Unauthorized:
		return ErrUnauthorized
	default:
		return ErrForbidden
	}
}
