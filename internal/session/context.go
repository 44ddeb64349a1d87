package session

import (
	"context"

	"storefront/internal/apiclient"
)

type contextKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok && s.ID != ""
}

// TokenSource feeds the REST client from the session bound to the request
// context, so outgoing calls carry the same token the guard inspected.
func (m *Manager) TokenSource() apiclient.TokenSource {
	return apiclient.TokenSourceFunc(func(ctx context.Context) string {
		s, ok := FromContext(ctx)
		if !ok {
			return ""
		}
		tok, err := m.Token(ctx, s)
		if err != nil {
			return ""
		}
		return tok
	})
}
