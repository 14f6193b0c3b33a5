package services

import "context"

// Actor identifies who performs an operation. Handlers attach it to the
// request context; services read it for audit entries and ownership.
type Actor struct {
	UserID    uint
	Role      string
	IP        string
	UserAgent string
}

type actorKey struct{}

// WithActor returns a context carrying the actor
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor of the context, if any
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// actorID returns the acting user id, or nil for anonymous/background work.
func actorID(ctx context.Context) *uint {
	actor, ok := ActorFrom(ctx)
	if !ok || actor.UserID == 0 {
		return nil
	}
	id := actor.UserID
	return &id
}
