package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AyanMustafa/Anevo/internal/logger"
	"github.com/AyanMustafa/Anevo/internal/model"
)

// NoteService defines business operations for notes and sharing.
type NoteService interface {
	ListOwned(ctx context.Context, userID int64) ([]model.NoteView, error)
	ListShared(ctx context.Context, userID int64) ([]model.NoteView, error)
	Create(ctx context.Context, params model.CreateNoteParams) (model.NoteView, error)
	Get(ctx context.Context, userID, noteID int64) (model.NoteView, error)
	Update(ctx context.Context, userID int64, params model.UpdateNoteParams) (model.NoteView, error)
	Delete(ctx context.Context, userID, noteID int64) error
	Share(ctx context.Context, userID, noteID int64, granteeUsername string, canEdit bool) error
	Unshare(ctx context.Context, userID, noteID int64, granteeUsername string) error
	ListShares(ctx context.Context, userID, noteID int64) ([]model.ShareInfo, error)
}

// Note handles HTTP endpoints for notes.
type Note struct {
	noteService    NoteService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewNote creates a new Note handler.
func NewNote(noteService NoteService, contextManager model.ContextManager, logger *logger.Logger) *Note {
	return &Note{
		noteService:    noteService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type createNoteRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// updateNoteRequest carries a partial update. Absent fields stay
// unchanged.
type updateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

type shareNoteRequest struct {
	Username string `json:"username" binding:"required"`
	CanEdit  bool   `json:"can_edit"`
}

type noteResponse struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	LastEdited string   `json:"lastEdited"`
	Owner      string   `json:"owner"`
	IsShared   bool     `json:"isShared"`
	CanEdit    bool     `json:"canEdit"`
	SharedWith []string `json:"sharedWith"`
}

type shareInfoResponse struct {
	Username string `json:"username"`
	CanEdit  bool   `json:"can_edit"`
}

func newNoteResponse(view model.NoteView) noteResponse {
	return noteResponse{
		ID:         view.ID,
		Title:      view.Title,
		Content:    view.Content,
		Tags:       view.Tags,
		LastEdited: view.UpdatedAt.Format(time.RFC3339),
		Owner:      view.OwnerName,
		IsShared:   view.Shared,
		CanEdit:    view.CanEdit,
		SharedWith: view.SharedWith,
	}
}

func newNoteResponses(views []model.NoteView) []noteResponse {
	responses := make([]noteResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, newNoteResponse(view))
	}
	return responses
}

// List returns every note owned by the authenticated user.
func (h *Note) List(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	views, err := h.noteService.ListOwned(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Note handler: list notes failed",
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newNoteResponses(views))
}

// ListShared returns every note shared with the authenticated user.
func (h *Note) ListShared(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	views, err := h.noteService.ListShared(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Note handler: list shared notes failed",
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newNoteResponses(views))
}

// Create stores a new note owned by the authenticated user.
func (h *Note) Create(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrInvalidRequestBody())
		return
	}

	h.logger.Debug("Note handler: processing create note request",
		"user_id", userID)

	view, err := h.noteService.Create(c.Request.Context(), model.CreateNoteParams{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		h.logger.Error("Note handler: create note failed",
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Note handler: create note completed",
		"note_id", view.ID,
		"user_id", userID)

	c.JSON(http.StatusCreated, newNoteResponse(view))
}

// Get returns one note visible to the authenticated user.
func (h *Note) Get(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	noteID, err := parseNoteID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	view, err := h.noteService.Get(c.Request.Context(), userID, noteID)
	if err != nil {
		h.logger.Error("Note handler: get note failed",
			"note_id", noteID,
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newNoteResponse(view))
}

// Update applies a partial update to a note the user may edit.
func (h *Note) Update(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	noteID, err := parseNoteID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrInvalidRequestBody())
		return
	}

	h.logger.Debug("Note handler: processing update note request",
		"note_id", noteID,
		"user_id", userID)

	view, err := h.noteService.Update(c.Request.Context(), userID, model.UpdateNoteParams{
		ID:      noteID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		h.logger.Error("Note handler: update note failed",
			"note_id", noteID,
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Note handler: update note completed",
		"note_id", noteID,
		"user_id", userID)

	c.JSON(http.StatusOK, newNoteResponse(view))
}

// Delete removes a note. Only the owner may delete.
func (h *Note) Delete(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	noteID, err := parseNoteID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	h.logger.Debug("Note handler: processing delete note request",
		"note_id", noteID,
		"user_id", userID)

	if err := h.noteService.Delete(c.Request.Context(), userID, noteID); err != nil {
		h.logger.Error("Note handler: delete note failed",
			"note_id", noteID,
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Note handler: delete note completed",
		"note_id", noteID,
		"user_id", userID)

	c.Status(http.StatusNoContent)
}

// Share grants another user access to a note owned by the caller.
func (h *Note) Share(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	noteID, err := parseNoteID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var req shareNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrInvalidRequestBody())
		return
	}

	h.logger.Debug("Note handler: processing share note request",
		"note_id", noteID,
		"user_id", userID,
		"grantee", req.Username)

	if err := h.noteService.Share(c.Request.Context(), userID, noteID, req.Username, req.CanEdit); err != nil {
		h.logger.Error("Note handler: share note failed",
			"note_id", noteID,
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Note handler: share note completed",
		"note_id", noteID,
		"user_id", userID,
		"grantee", req.Username)

	c.Status(http.StatusNoContent)
}

// Unshare revokes a previously granted share.
func (h *Note) Unshare(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	noteID, err := parseNoteID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	granteeUsername := c.Param("username")

	h.logger.Debug("Note handler: processing unshare note request",
		"note_id", noteID,
		"user_id", userID,
		"grantee", granteeUsername)

	if err := h.noteService.Unshare(c.Request.Context(), userID, noteID, granteeUsername); err != nil {
		h.logger.Error("Note handler: unshare note failed",
			"note_id", noteID,
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Note handler: unshare note completed",
		"note_id", noteID,
		"user_id", userID,
		"grantee", granteeUsername)

	c.Status(http.StatusNoContent)
}

// ListShares returns who a note is shared with. Owner only.
func (h *Note) ListShares(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	noteID, err := parseNoteID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	shares, err := h.noteService.ListShares(c.Request.Context(), userID, noteID)
	if err != nil {
		h.logger.Error("Note handler: list shares failed",
			"note_id", noteID,
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	responses := make([]shareInfoResponse, 0, len(shares))
	for _, share := range shares {
		responses = append(responses, shareInfoResponse{Username: share.Username, CanEdit: share.CanEdit})
	}

	c.JSON(http.StatusOK, responses)
}

func (h *Note) extractUserIDFromContext(c *gin.Context) (int64, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		return 0, model.NewErrMissingAuthorizationToken()
	}
	return userID, nil
}

func parseNoteID(c *gin.Context) (int64, error) {
	noteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, model.NewErrInvalidNoteID()
	}
	return noteID, nil
}
