package api

import (
	"context"

	"github.com/rpupo63/tagblog/services"
)

type keyType string

const (
	sessionKey   keyType = "session"
	requestIDKey keyType = "requestID"
)

// ctxWithSession adds the signed-in session to the context
func ctxWithSession(ctx context.Context, s services.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// ctxGetSession returns the signed-in session, if any
func ctxGetSession(ctx context.Context) (services.Session, bool) {
	s, ok := ctx.Value(sessionKey).(services.Session)
	return s, ok
}

func ctxWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ctxGetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
