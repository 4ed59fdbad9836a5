// ABOUTME: Context propagation for the resolved actor identity
// ABOUTME: Provides WithActor/FromContext for carrying the actor through handlers

package identity

import "context"

// actorContextKey is the key type for storing an Actor in context.Context.
type actorContextKey struct{}

// WithActor returns a new context with the actor attached.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// FromContext retrieves the actor from the context. The zero (unresolved)
// actor is returned when none is present.
func FromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorContextKey{}).(Actor)
	return actor
}
