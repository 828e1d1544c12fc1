package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AyanMustafa/Anevo/internal/logger"
	"github.com/AyanMustafa/Anevo/internal/model"
)

type Note struct {
	noteStore model.NoteStore
	userStore model.UserStore
	logger    *logger.Logger
}

func NewNote(
	noteStore model.NoteStore,
	userStore model.UserStore,
	logger *logger.Logger,
) *Note {
	return &Note{
		noteStore: noteStore,
		userStore: userStore,
		logger:    logger,
	}
}

func (s *Note) ListOwned(ctx context.Context, userID int64) ([]model.NoteView, error) {
	owner, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	notes, err := s.noteStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes by owner: %w", err)
	}

	views := make([]model.NoteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, model.NoteView{
			ID:         note.ID,
			Title:      note.Title,
			Content:    note.Content,
			Tags:       note.Tags,
			UpdatedAt:  note.UpdatedAt,
			OwnerName:  owner.Username,
			Shared:     false,
			CanEdit:    true,
			SharedWith: note.SharedWith,
		})
	}

	return views, nil
}

func (s *Note) ListShared(ctx context.Context, userID int64) ([]model.NoteView, error) {
	notes, err := s.noteStore.ListSharedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes shared with user: %w", err)
	}

	views := make([]model.NoteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, model.NoteView{
			ID:         note.ID,
			Title:      note.Title,
			Content:    note.Content,
			Tags:       note.Tags,
			UpdatedAt:  note.UpdatedAt,
			OwnerName:  note.OwnerName,
			Shared:     true,
			CanEdit:    note.CanEdit,
			SharedWith: []string{},
		})
	}

	return views, nil
}

func (s *Note) Create(ctx context.Context, params model.CreateNoteParams) (model.NoteView, error) {
	s.logger.Debug("Note service: creating note",
		"user_id", params.UserID)

	owner, err := s.userStore.GetByID(ctx, params.UserID)
	if err != nil {
		return model.NoteView{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	note, err := s.noteStore.Create(ctx, model.Note{
		OwnerID: params.UserID,
		Title:   params.Title,
		Content: params.Content,
		Tags:    params.Tags,
	})
	if err != nil {
		s.logger.Error("Note service: failed to create note",
			"user_id", params.UserID,
			"error", err.Error())
		return model.NoteView{}, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Info("Note service: note created",
		"note_id", note.ID,
		"user_id", params.UserID)

	return model.NoteView{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		Tags:       note.Tags,
		UpdatedAt:  note.UpdatedAt,
		OwnerName:  owner.Username,
		Shared:     false,
		CanEdit:    true,
		SharedWith: []string{},
	}, nil
}

func (s *Note) Get(ctx context.Context, userID, noteID int64) (model.NoteView, error) {
	note, err := s.noteStore.GetByID(ctx, noteID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NoteView{}, model.NewErrNoteNotFound()
	}
	if err != nil {
		return model.NoteView{}, fmt.Errorf("failed to get note by id: %w", err)
	}

	return s.buildView(ctx, userID, note)
}

func (s *Note) Update(ctx context.Context, userID int64, params model.UpdateNoteParams) (model.NoteView, error) {
	s.logger.Debug("Note service: updating note",
		"note_id", params.ID,
		"user_id", userID)

	note, err := s.noteStore.GetByID(ctx, params.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NoteView{}, model.NewErrEditForbidden()
	}
	if err != nil {
		return model.NoteView{}, fmt.Errorf("failed to get note by id: %w", err)
	}

	if note.OwnerID != userID {
		share, err := s.noteStore.GetShare(ctx, params.ID, userID)
		if errors.Is(err, model.ErrNotFound) {
			return model.NoteView{}, model.NewErrEditForbidden()
		}
		if err != nil {
			return model.NoteView{}, fmt.Errorf("failed to get share: %w", err)
		}
		if !share.CanEdit {
			return model.NoteView{}, model.NewErrEditForbidden()
		}
	}

	updated, err := s.noteStore.Update(ctx, params)
	if err != nil {
		s.logger.Error("Note service: failed to update note",
			"note_id", params.ID,
			"error", err.Error())
		return model.NoteView{}, fmt.Errorf("failed to update note: %w", err)
	}

	s.logger.Info("Note service: note updated",
		"note_id", updated.ID,
		"user_id", userID)

	return s.buildView(ctx, userID, updated)
}

func (s *Note) Delete(ctx context.Context, userID, noteID int64) error {
	s.logger.Debug("Note service: deleting note",
		"note_id", noteID,
		"user_id", userID)

	note, err := s.noteStore.GetByID(ctx, noteID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrNoteNotOwned()
	}
	if err != nil {
		return fmt.Errorf("failed to get note by id: %w", err)
	}
	if note.OwnerID != userID {
		return model.NewErrNoteNotOwned()
	}

	if err := s.noteStore.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.logger.Info("Note service: note deleted",
		"note_id", noteID,
		"user_id", userID)

	return nil
}

func (s *Note) Share(ctx context.Context, userID, noteID int64, granteeUsername string, canEdit bool) error {
	s.logger.Debug("Note service: sharing note",
		"note_id", noteID,
		"user_id", userID,
		"grantee", granteeUsername)

	note, err := s.noteStore.GetByID(ctx, noteID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrNoteNotOwned()
	}
	if err != nil {
		return fmt.Errorf("failed to get note by id: %w", err)
	}
	if note.OwnerID != userID {
		return model.NewErrNoteNotOwned()
	}

	grantee, err := s.userStore.GetByUsername(ctx, granteeUsername)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrUserNotFound(granteeUsername)
	}
	if err != nil {
		return fmt.Errorf("failed to get user by username: %w", err)
	}

	if grantee.ID == userID {
		return model.NewErrSelfShare()
	}

	err = s.noteStore.UpsertShare(ctx, model.Share{
		NoteID:    noteID,
		GranteeID: grantee.ID,
		CanEdit:   canEdit,
	})
	if err != nil {
		s.logger.Error("Note service: failed to upsert share",
			"note_id", noteID,
			"grantee_id", grantee.ID,
			"error", err.Error())
		return fmt.Errorf("failed to upsert share: %w", err)
	}

	s.logger.Info("Note service: note shared",
		"note_id", noteID,
		"grantee_id", grantee.ID,
		"can_edit", canEdit)

	return nil
}

func (s *Note) Unshare(ctx context.Context, userID, noteID int64, granteeUsername string) error {
	s.logger.Debug("Note service: unsharing note",
		"note_id", noteID,
		"user_id", userID,
		"grantee", granteeUsername)

	note, err := s.noteStore.GetByID(ctx, noteID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrNoteNotOwned()
	}
	if err != nil {
		return fmt.Errorf("failed to get note by id: %w", err)
	}
	if note.OwnerID != userID {
		return model.NewErrNoteNotOwned()
	}

	grantee, err := s.userStore.GetByUsername(ctx, granteeUsername)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrUserNotFound(granteeUsername)
	}
	if err != nil {
		return fmt.Errorf("failed to get user by username: %w", err)
	}

	err = s.noteStore.DeleteShare(ctx, noteID, grantee.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrShareNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}

	s.logger.Info("Note service: note unshared",
		"note_id", noteID,
		"grantee_id", grantee.ID)

	return nil
}

func (s *Note) ListShares(ctx context.Context, userID, noteID int64) ([]model.ShareInfo, error) {
	note, err := s.noteStore.GetByID(ctx, noteID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.NewErrNoteNotOwned()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note by id: %w", err)
	}
	if note.OwnerID != userID {
		return nil, model.NewErrNoteNotOwned()
	}

	shares, err := s.noteStore.ListShares(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	return shares, nil
}

// buildView renders a note for one viewer. The owner sees the grantee
// list; a grantee sees the owner's name and their own permission. A
// viewer with no share on the note gets NotFound, same as a missing
// note.
func (s *Note) buildView(ctx context.Context, userID int64, note model.Note) (model.NoteView, error) {
	view := model.NoteView{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		Tags:       note.Tags,
		UpdatedAt:  note.UpdatedAt,
		SharedWith: []string{},
	}

	if note.OwnerID == userID {
		owner, err := s.userStore.GetByID(ctx, userID)
		if err != nil {
			return model.NoteView{}, fmt.Errorf("failed to get user by id: %w", err)
		}

		shares, err := s.noteStore.ListShares(ctx, note.ID)
		if err != nil {
			return model.NoteView{}, fmt.Errorf("failed to list shares: %w", err)
		}

		usernames := make([]string, 0, len(shares))
		for _, share := range shares {
			usernames = append(usernames, share.Username)
		}

		view.OwnerName = owner.Username
		view.CanEdit = true
		view.SharedWith = usernames
		return view, nil
	}

	share, err := s.noteStore.GetShare(ctx, note.ID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NoteView{}, model.NewErrNoteNotFound()
	}
	if err != nil {
		return model.NoteView{}, fmt.Errorf("failed to get share: %w", err)
	}

	owner, err := s.userStore.GetByID(ctx, note.OwnerID)
	if err != nil {
		return model.NoteView{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	view.OwnerName = owner.Username
	view.Shared = true
	view.CanEdit = share.CanEdit
	return view, nil
}
