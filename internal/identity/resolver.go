// ABOUTME: Resolves incoming session state into a single Actor value
// ABOUTME: Total resolution: authenticated marker wins, else existing or freshly minted token

package identity

import (
	"fmt"
	"log/slog"
)

// Session is the minimal view of browser-session state the resolver needs:
// two logical keys, the authenticated account marker and the anonymous token.
type Session interface {
	// AccountID returns the authenticated account id, if the session holds one.
	AccountID() (int64, bool)
	// ActorToken returns the anonymous token, empty if none was minted yet.
	ActorToken() string
	// SetActorToken stores a freshly minted token for future requests.
	SetActorToken(token string)
}

// Resolver turns session state into an Actor. Resolution is total: every
// well-formed session yields a variant, so call sites branch on the kind
// instead of probing for missing attributes.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{logger: slog.Default().With("component", "identity")}
}

// Resolve produces the actor for a request. The only side effect is minting a
// token into the session on an anonymous actor's first visit; once a token
// exists, resolution is idempotent for the session's lifetime.
func (r *Resolver) Resolve(sess Session) (Actor, error) {
	if sess == nil {
		return Actor{}, nil
	}

	if id, ok := sess.AccountID(); ok {
		return Authenticated(id), nil
	}

	if tok := sess.ActorToken(); tok != "" {
		return Anonymous(tok), nil
	}

	tok, err := NewToken()
	if err != nil {
		return Actor{}, fmt.Errorf("minting actor token: %w", err)
	}
	sess.SetActorToken(tok)
	r.logger.Debug("minted anonymous actor token")
	return Anonymous(tok), nil
}
