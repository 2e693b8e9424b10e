// Package ctxutil stores request-scoped values: the acting principal,
// request provenance, and the request id.
package ctxutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	requestIDKey ctxKey = "request_id"
	metaKey      ctxKey = "request_meta"
)

// WithActor stores the acting principal in the context.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the actor from the context. Returns false for
// anonymous requests.
func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	if !ok || actor.ID == uuid.Nil {
		return domain.Actor{}, false
	}
	return actor, true
}

// WithRequestMeta stores request provenance (IP, user agent).
func WithRequestMeta(ctx context.Context, meta domain.RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey, meta)
}

// RequestMetaFromCtx extracts request provenance; zero value if absent.
func RequestMetaFromCtx(ctx context.Context) domain.RequestMeta {
	meta, _ := ctx.Value(metaKey).(domain.RequestMeta)
	return meta
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID; empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
