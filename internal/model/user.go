package model

import (
	"context"
	"time"
)

// Provider identifies how a user authenticates.
type Provider string

const (
	// ProviderLocal is email/username plus password authentication.
	ProviderLocal Provider = "local"
	// ProviderGoogle is Google ID-token authentication.
	ProviderGoogle Provider = "google"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByIdentifier(ctx context.Context, identifier string) (User, error)
	UpdateGoogleIdentity(ctx context.Context, id int64, googleID, name string) (User, error)
	Delete(ctx context.Context, id int64) error
}

// User represents a stored account. Exactly one of PasswordHash and
// GoogleID is set, matching Provider.
type User struct {
	ID           int64
	Email        string
	Username     string
	Name         string
	PasswordHash *string
	GoogleID     *string
	Provider     Provider
	CreatedAt    time.Time
}

// UserInfo is the user payload returned to clients.
type UserInfo struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Session is the result of a successful authentication.
type Session struct {
	Token string
	User  UserInfo
}

// RegisterParams contains parameters to register a local user.
type RegisterParams struct {
	Email    string
	Username string
	Password string
	Name     string
}
