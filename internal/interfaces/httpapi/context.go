package httpapi

import (
	"context"

	"github.com/riskibarqy/sleeper-league-viewer/internal/view"
)

type contextKey string

const sessionContextKey contextKey = "viewer_session"

type session struct {
	ID   string
	Root *view.Root
}

func withSession(ctx context.Context, s session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func sessionFromContext(ctx context.Context) (session, bool) {
	s, ok := ctx.Value(sessionContextKey).(session)
	return s, ok && s.Root != nil
}
