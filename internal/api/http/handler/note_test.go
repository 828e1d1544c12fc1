package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/AyanMustafa/Anevo/internal/api/http/context"
	"github.com/AyanMustafa/Anevo/internal/model"
	"github.com/AyanMustafa/Anevo/internal/testutil"
)

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) ListOwned(ctx context.Context, userID int64) ([]model.NoteView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.NoteView), args.Error(1)
}

func (m *MockNoteService) ListShared(ctx context.Context, userID int64) ([]model.NoteView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.NoteView), args.Error(1)
}

func (m *MockNoteService) Create(ctx context.Context, params model.CreateNoteParams) (model.NoteView, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.NoteView), args.Error(1)
}

func (m *MockNoteService) Get(ctx context.Context, userID, noteID int64) (model.NoteView, error) {
	args := m.Called(ctx, userID, noteID)
	return args.Get(0).(model.NoteView), args.Error(1)
}

func (m *MockNoteService) Update(ctx context.Context, userID int64, params model.UpdateNoteParams) (model.NoteView, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).(model.NoteView), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, userID, noteID int64) error {
	args := m.Called(ctx, userID, noteID)
	return args.Error(0)
}

func (m *MockNoteService) Share(ctx context.Context, userID, noteID int64, granteeUsername string, canEdit bool) error {
	args := m.Called(ctx, userID, noteID, granteeUsername, canEdit)
	return args.Error(0)
}

func (m *MockNoteService) Unshare(ctx context.Context, userID, noteID int64, granteeUsername string) error {
	args := m.Called(ctx, userID, noteID, granteeUsername)
	return args.Error(0)
}

func (m *MockNoteService) ListShares(ctx context.Context, userID, noteID int64) ([]model.ShareInfo, error) {
	args := m.Called(ctx, userID, noteID)
	return args.Get(0).([]model.ShareInfo), args.Error(1)
}

// authedRequest builds a request whose context already carries the
// given user id, standing in for the authenticate middleware.
func authedRequest(cm model.ContextManager, userID int64, method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(cm.SetUserIDToContext(req.Context(), userID))
}

func TestNote_List_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	updatedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	views := []model.NoteView{
		{ID: 1, Title: "groceries", Tags: []string{"home"}, UpdatedAt: updatedAt, OwnerName: "jane", CanEdit: true, SharedWith: []string{"bob"}},
		{ID: 2, Title: "ideas", Tags: []string{}, UpdatedAt: updatedAt, OwnerName: "jane", CanEdit: true, SharedWith: []string{}},
	}
	svc.On("ListOwned", mock.Anything, int64(7)).Return(views, nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.GET("/notes", h.List)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodGet, "/notes", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "groceries", resp[0].Title)
	assert.Equal(t, "jane", resp[0].Owner)
	assert.False(t, resp[0].IsShared)
	assert.Equal(t, []string{"bob"}, resp[0].SharedWith)
	assert.Equal(t, "2026-03-14T09:26:53Z", resp[0].LastEdited)
}

func TestNote_ListShared_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	views := []model.NoteView{
		{ID: 3, Title: "plan", Tags: []string{}, UpdatedAt: time.Now(), OwnerName: "bob", Shared: true, CanEdit: false, SharedWith: []string{}},
	}
	svc.On("ListShared", mock.Anything, int64(7)).Return(views, nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.GET("/notes/shared", h.ListShared)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodGet, "/notes/shared", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "bob", resp[0].Owner)
	assert.True(t, resp[0].IsShared)
	assert.False(t, resp[0].CanEdit)
}

func TestNote_Create_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	view := model.NoteView{
		ID:         10,
		Title:      "groceries",
		Content:    "milk",
		Tags:       []string{"home", "errands"},
		UpdatedAt:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		OwnerName:  "jane",
		CanEdit:    true,
		SharedWith: []string{},
	}
	svc.On("Create", mock.Anything, model.CreateNoteParams{
		UserID:  7,
		Title:   "groceries",
		Content: "milk",
		Tags:    []string{"home", "errands"},
	}).Return(view, nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.POST("/notes", h.Create)

	body := `{"title":"groceries","content":"milk","tags":["home","errands"]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodPost, "/notes", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, []string{"home", "errands"}, resp.Tags)
	assert.Equal(t, "2026-03-14T09:26:53Z", resp.LastEdited)
	assert.Equal(t, []string{}, resp.SharedWith)
	svc.AssertExpectations(t)
}

func TestNote_Create_MissingTitle(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.POST("/notes", h.Create)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodPost, "/notes", strings.NewReader(`{"content":"milk"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeErrorResponse(t, rec).Detail)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNote_Get_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	view := model.NoteView{ID: 10, Title: "plan", Tags: []string{}, UpdatedAt: time.Now(), OwnerName: "bob", Shared: true, CanEdit: true, SharedWith: []string{}}
	svc.On("Get", mock.Anything, int64(7), int64(10)).Return(view, nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.GET("/notes/:id", h.Get)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodGet, "/notes/10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.True(t, resp.IsShared)
	svc.AssertExpectations(t)
}

func TestNote_Get_InvalidID(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.GET("/notes/:id", h.Get)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodGet, "/notes/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid note id", decodeErrorResponse(t, rec).Detail)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestNote_Get_NotFound(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Get", mock.Anything, int64(7), int64(99)).
		Return(model.NoteView{}, model.NewErrNoteNotFound())

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.GET("/notes/:id", h.Get)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodGet, "/notes/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found", decodeErrorResponse(t, rec).Detail)
}

func TestNote_Update_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	view := model.NoteView{ID: 10, Title: "renamed", Tags: []string{}, UpdatedAt: time.Now(), OwnerName: "jane", CanEdit: true, SharedWith: []string{}}
	svc.On("Update", mock.Anything, int64(7), mock.MatchedBy(func(params model.UpdateNoteParams) bool {
		return params.ID == 10 && params.Title != nil && *params.Title == "renamed" && params.Content == nil && params.Tags == nil
	})).Return(view, nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.PATCH("/notes/:id", h.Update)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodPatch, "/notes/10", strings.NewReader(`{"title":"renamed"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "renamed", resp.Title)
	svc.AssertExpectations(t)
}

func TestNote_Update_Forbidden(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Update", mock.Anything, int64(7), mock.AnythingOfType("model.UpdateNoteParams")).
		Return(model.NoteView{}, model.NewErrEditForbidden())

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.PATCH("/notes/:id", h.Update)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodPatch, "/notes/10", strings.NewReader(`{"title":"x"}`)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You don't have permission to edit this note", decodeErrorResponse(t, rec).Detail)
}

func TestNote_Delete_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Delete", mock.Anything, int64(7), int64(10)).Return(nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.DELETE("/notes/:id", h.Delete)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodDelete, "/notes/10", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestNote_Delete_NotOwned(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Delete", mock.Anything, int64(7), int64(10)).Return(model.NewErrNoteNotOwned())

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.DELETE("/notes/:id", h.Delete)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodDelete, "/notes/10", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found or you don't own it", decodeErrorResponse(t, rec).Detail)
}

func TestNote_Share_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Share", mock.Anything, int64(7), int64(10), "bob", true).Return(nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.POST("/notes/:id/share", h.Share)

	body := `{"username":"bob","can_edit":true}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodPost, "/notes/10/share", strings.NewReader(body)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestNote_Share_SelfShare(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Share", mock.Anything, int64(7), int64(10), "jane", false).
		Return(model.NewErrSelfShare())

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.POST("/notes/:id/share", h.Share)

	body := `{"username":"jane"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodPost, "/notes/10/share", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You cannot share a note with yourself", decodeErrorResponse(t, rec).Detail)
}

func TestNote_Share_GranteeNotFound(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Share", mock.Anything, int64(7), int64(10), "ghost", false).
		Return(model.NewErrUserNotFound("ghost"))

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.POST("/notes/:id/share", h.Share)

	body := `{"username":"ghost"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodPost, "/notes/10/share", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User 'ghost' not found in the system", decodeErrorResponse(t, rec).Detail)
}

func TestNote_Unshare_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Unshare", mock.Anything, int64(7), int64(10), "bob").Return(nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.DELETE("/notes/:id/share/:username", h.Unshare)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodDelete, "/notes/10/share/bob", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestNote_Unshare_ShareNotFound(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	svc.On("Unshare", mock.Anything, int64(7), int64(10), "bob").
		Return(model.NewErrShareNotFound())

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.DELETE("/notes/:id/share/:username", h.Unshare)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodDelete, "/notes/10/share/bob", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "This note is not shared with that user", decodeErrorResponse(t, rec).Detail)
}

func TestNote_ListShares_Success(t *testing.T) {
	t.Parallel()

	svc := &MockNoteService{}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()

	shares := []model.ShareInfo{
		{Username: "bob", CanEdit: true},
		{Username: "carol", CanEdit: false},
	}
	svc.On("ListShares", mock.Anything, int64(7), int64(10)).Return(shares, nil)

	h := NewNote(svc, cm, lg)

	router := gin.New()
	router.GET("/notes/:id/shares", h.ListShares)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(cm, 7, http.MethodGet, "/notes/10/shares", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []shareInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "bob", resp[0].Username)
	assert.True(t, resp[0].CanEdit)
	assert.Equal(t, "carol", resp[1].Username)
	assert.False(t, resp[1].CanEdit)
}
