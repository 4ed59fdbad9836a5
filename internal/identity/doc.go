// Package identity models the two identity tiers of the task-list service.
//
// An Actor is either Anonymous (an opaque session token minted on first visit)
// or Authenticated (a registered account id). An OwnerRef is the matching
// polymorphic owner key recorded on a list. Both are tagged unions: the kind
// is explicit, and cross-kind comparison is the access guard's job (package
// authz), never raw equality on a shared field.
//
// The Resolver makes actor resolution total. Every request gets exactly one
// variant, with token minting as the single permitted side effect.
package identity
