package context

import "context"

// ClientContext identifies the authenticated API client for a request.
type ClientContext struct {
	ClientID string
	// SessionID is the chat session the request operates on, when known.
	SessionID string
}

type clientContextKey struct{}

// WithClient adds ClientContext to context.
func WithClient(ctx context.Context, client *ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

// GetClient returns ClientContext from context or nil.
func GetClient(ctx context.Context) *ClientContext {
	if v, ok := ctx.Value(clientContextKey{}).(*ClientContext); ok {
		return v
	}
	return nil
}

// GetClientID returns the client ID from context or empty string.
func GetClientID(ctx context.Context) string {
	if c := GetClient(ctx); c != nil {
		return c.ClientID
	}
	return ""
}
