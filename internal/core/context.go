package core

import "context"

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyApiKeyID contextKey = "api_key_id"
)

// WithUserID attaches the authenticated caller to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// UserIDFrom returns the authenticated caller, if any.
func UserIDFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}

func WithApiKeyRef(ctx context.Context, ref string) context.Context {
	return context.WithValue(ctx, ContextKeyApiKeyID, ref)
}

func ApiKeyRefFrom(ctx context.Context) (string, bool) {
	ref, ok := ctx.Value(ContextKeyApiKeyID).(string)
	return ref, ok && ref != ""
}
