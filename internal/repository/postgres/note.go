package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AyanMustafa/Anevo/internal/model"
)

var _ model.NoteStore = (*NoteRepository)(nil)

type NoteRepository struct {
	db *Connection
}

func NewNoteRepository(db *Connection) *NoteRepository {
	return &NoteRepository{
		db: db,
	}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(encoded), nil
}

// decodeTags restores a tag list from its stored form. Malformed data
// yields an empty list, never an error.
func decodeTags(encoded string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(encoded), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func (r *NoteRepository) Create(ctx context.Context, note model.Note) (model.Note, error) {
	encodedTags, err := encodeTags(note.Tags)
	if err != nil {
		return model.Note{}, err
	}

	query := `INSERT INTO notes (owner_id, title, content, tags)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, owner_id, title, content, tags, created_at, updated_at`

	var savedNote model.Note
	var storedTags string
	err = r.db.QueryRow(ctx, query,
		note.OwnerID, note.Title, note.Content, encodedTags,
	).Scan(
		&savedNote.ID, &savedNote.OwnerID, &savedNote.Title, &savedNote.Content,
		&storedTags, &savedNote.CreatedAt, &savedNote.UpdatedAt,
	)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to create note: %w", err)
	}
	savedNote.Tags = decodeTags(storedTags)

	return savedNote, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64) (model.Note, error) {
	var note model.Note
	var storedTags string
	query := `SELECT id, owner_id, title, content, tags, created_at, updated_at
			  FROM notes WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&note.ID, &note.OwnerID, &note.Title, &note.Content,
		&storedTags, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Note{}, model.ErrNotFound
		}
		return model.Note{}, fmt.Errorf("failed to get note by id: %w", err)
	}
	note.Tags = decodeTags(storedTags)

	return note, nil
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.OwnedNote, error) {
	query := `
		SELECT n.id, n.owner_id, n.title, n.content, n.tags, n.created_at, n.updated_at,
		       COALESCE(ARRAY_AGG(u.username ORDER BY u.username) FILTER (WHERE u.username IS NOT NULL), '{}')
		FROM notes n
		LEFT JOIN note_shares s ON s.note_id = n.id
		LEFT JOIN users u ON u.id = s.grantee_id
		WHERE n.owner_id = $1
		GROUP BY n.id
		ORDER BY n.updated_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes by owner: %w", err)
	}
	defer rows.Close()

	var notes []model.OwnedNote
	for rows.Next() {
		var note model.OwnedNote
		var storedTags string
		err := rows.Scan(
			&note.ID, &note.OwnerID, &note.Title, &note.Content,
			&storedTags, &note.CreatedAt, &note.UpdatedAt, &note.SharedWith,
		)
		if err != nil {
			return nil, err
		}
		note.Tags = decodeTags(storedTags)
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *NoteRepository) ListSharedWith(ctx context.Context, granteeID int64) ([]model.SharedNote, error) {
	query := `
		SELECT n.id, n.owner_id, n.title, n.content, n.tags, n.created_at, n.updated_at,
		       u.username, s.can_edit
		FROM note_shares s
		JOIN notes n ON n.id = s.note_id
		JOIN users u ON u.id = n.owner_id
		WHERE s.grantee_id = $1
		ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query, granteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes shared with user: %w", err)
	}
	defer rows.Close()

	var notes []model.SharedNote
	for rows.Next() {
		var note model.SharedNote
		var storedTags string
		err := rows.Scan(
			&note.ID, &note.OwnerID, &note.Title, &note.Content,
			&storedTags, &note.CreatedAt, &note.UpdatedAt,
			&note.OwnerName, &note.CanEdit,
		)
		if err != nil {
			return nil, err
		}
		note.Tags = decodeTags(storedTags)
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// Update applies a partial update in a single statement. Nil params
// leave the stored column unchanged; updated_at always refreshes.
func (r *NoteRepository) Update(ctx context.Context, params model.UpdateNoteParams) (model.Note, error) {
	var encodedTags *string
	if params.Tags != nil {
		encoded, err := encodeTags(*params.Tags)
		if err != nil {
			return model.Note{}, err
		}
		encodedTags = &encoded
	}

	query := `UPDATE notes
			  SET title = COALESCE($2, title),
			      content = COALESCE($3, content),
			      tags = COALESCE($4, tags),
			      updated_at = NOW()
			  WHERE id = $1
			  RETURNING id, owner_id, title, content, tags, created_at, updated_at`

	var note model.Note
	var storedTags string
	err := r.db.QueryRow(ctx, query,
		params.ID, params.Title, params.Content, encodedTags,
	).Scan(
		&note.ID, &note.OwnerID, &note.Title, &note.Content,
		&storedTags, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Note{}, model.ErrNotFound
		}
		return model.Note{}, fmt.Errorf("failed to update note: %w", err)
	}
	note.Tags = decodeTags(storedTags)

	return note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM notes WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpsertShare inserts a share or, if one already exists for the
// (note, grantee) pair, overwrites its permission in place.
func (r *NoteRepository) UpsertShare(ctx context.Context, share model.Share) error {
	query := `INSERT INTO note_shares (note_id, grantee_id, can_edit)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (note_id, grantee_id) DO UPDATE SET can_edit = EXCLUDED.can_edit`

	if _, err := r.db.Exec(ctx, query, share.NoteID, share.GranteeID, share.CanEdit); err != nil {
		return fmt.Errorf("failed to upsert share: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetShare(ctx context.Context, noteID, granteeID int64) (model.Share, error) {
	var share model.Share
	query := `SELECT note_id, grantee_id, can_edit, created_at
			  FROM note_shares WHERE note_id = $1 AND grantee_id = $2`

	err := r.db.QueryRow(ctx, query, noteID, granteeID).Scan(
		&share.NoteID, &share.GranteeID, &share.CanEdit, &share.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Share{}, model.ErrNotFound
		}
		return model.Share{}, fmt.Errorf("failed to get share: %w", err)
	}

	return share, nil
}

func (r *NoteRepository) DeleteShare(ctx context.Context, noteID, granteeID int64) error {
	const query = `DELETE FROM note_shares WHERE note_id = $1 AND grantee_id = $2`
	cmd, err := r.db.Exec(ctx, query, noteID, granteeID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) ListShares(ctx context.Context, noteID int64) ([]model.ShareInfo, error) {
	query := `
		SELECT u.username, s.can_edit
		FROM note_shares s
		JOIN users u ON u.id = s.grantee_id
		WHERE s.note_id = $1
		ORDER BY u.username`

	rows, err := r.db.Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []model.ShareInfo
	for rows.Next() {
		var share model.ShareInfo
		if err := rows.Scan(&share.Username, &share.CanEdit); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shares, nil
}
