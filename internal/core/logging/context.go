package logging

import "context"

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	itemKeyKey contextKey = "item"
)

// WithUserID adds the user whose items are being processed to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithItem adds a working-set key such as "task-12" to the context.
func WithItem(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, itemKeyKey, key)
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not present.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// GetItem retrieves the item key from the context.
// Returns empty string if not present.
func GetItem(ctx context.Context) string {
	if key, ok := ctx.Value(itemKeyKey).(string); ok {
		return key
	}
	return ""
}
