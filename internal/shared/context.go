package shared

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "bluebook.user_id"

// ContextWithUserID stores the authenticated user's ID on the context.
func ContextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the authenticated user's ID, or uuid.Nil when the
// request carried no identity.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
