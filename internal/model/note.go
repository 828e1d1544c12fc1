package model

import (
	"context"
	"time"
)

// NoteStore defines persistence operations for notes and their shares.
type NoteStore interface {
	Create(ctx context.Context, note Note) (Note, error)
	GetByID(ctx context.Context, id int64) (Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]OwnedNote, error)
	ListSharedWith(ctx context.Context, granteeID int64) ([]SharedNote, error)
	Update(ctx context.Context, params UpdateNoteParams) (Note, error)
	Delete(ctx context.Context, id int64) error
	UpsertShare(ctx context.Context, share Share) error
	GetShare(ctx context.Context, noteID, granteeID int64) (Share, error)
	DeleteShare(ctx context.Context, noteID, granteeID int64) error
	ListShares(ctx context.Context, noteID int64) ([]ShareInfo, error)
}

// Note represents a stored note.
type Note struct {
	ID        int64
	OwnerID   int64
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Share grants one non-owner access to one note. At most one share
// exists per (note, grantee) pair.
type Share struct {
	NoteID    int64
	GranteeID int64
	CanEdit   bool
	CreatedAt time.Time
}

// OwnedNote is a note listed for its owner, with the usernames it is
// shared with.
type OwnedNote struct {
	Note
	SharedWith []string
}

// SharedNote is a note listed for a grantee, with the owner's username
// and the granted permission.
type SharedNote struct {
	Note
	OwnerName string
	CanEdit   bool
}

// ShareInfo describes one share of a note.
type ShareInfo struct {
	Username string
	CanEdit  bool
}

// CreateNoteParams contains parameters to create a note.
type CreateNoteParams struct {
	UserID  int64
	Title   string
	Content string
	Tags    []string
}

// UpdateNoteParams contains a partial note update. Nil fields are left
// unchanged.
type UpdateNoteParams struct {
	ID      int64
	Title   *string
	Content *string
	Tags    *[]string
}

// NoteView is the exhaustive note payload exposed to clients.
type NoteView struct {
	ID         int64
	Title      string
	Content    string
	Tags       []string
	UpdatedAt  time.Time
	OwnerName  string
	Shared     bool
	CanEdit    bool
	SharedWith []string
}
