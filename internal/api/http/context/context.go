package context

import (
	"context"
)

// ctxKey is the private type used for context values set by this package.
type ctxKey int

// userIDKey is the context key under which the authenticated user ID is stored.
const userIDKey ctxKey = iota

// Manager represents an HTTP request context manager for user ID operations.
// It provides methods to set and retrieve user IDs from the request context.
type Manager struct{}

// NewManager creates a new HTTP context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext stores the user ID in the request context.
//
// Parameters:
//   - ctx: The request context
//   - userID: The numeric user ID to set in the context
//
// Returns a new context carrying the user ID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the user ID from the request context.
//
// Parameters:
//   - ctx: The request context
//
// Returns the numeric user ID and a boolean indicating if it was found.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
