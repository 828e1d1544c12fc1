package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyanMustafa/Anevo/internal/logger"
	"github.com/AyanMustafa/Anevo/internal/model"
)

// AuthService defines account and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.Session, error)
	Login(ctx context.Context, identifier, password string) (model.Session, error)
	LoginWithGoogle(ctx context.Context, idToken string) (model.Session, error)
	Me(ctx context.Context, userID int64) (model.UserInfo, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

// Auth handles HTTP endpoints for authentication and account lifecycle.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type googleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// tokenResponse is the session payload returned by every login flow.
type tokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        model.UserInfo `json:"user"`
}

func newTokenResponse(session model.Session) tokenResponse {
	return tokenResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		User:        session.User,
	}
}

// Register creates a local account and returns a session token.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrInvalidRequestBody())
		return
	}

	h.logger.Debug("Auth handler: processing register request",
		"email", req.Email,
		"username", req.Username)

	session, err := h.authService.Register(c.Request.Context(), model.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.logger.Error("Auth handler: register failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: register completed",
		"user_id", session.User.ID)

	c.JSON(http.StatusCreated, newTokenResponse(session))
}

// Login authenticates by email or username plus password.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrInvalidRequestBody())
		return
	}

	h.logger.Debug("Auth handler: processing login request",
		"identifier", req.Identifier)

	session, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"identifier", req.Identifier,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: login completed",
		"user_id", session.User.ID)

	c.JSON(http.StatusOK, newTokenResponse(session))
}

// Google authenticates with a Google ID token, provisioning the account
// on first login.
func (h *Auth) Google(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrInvalidRequestBody())
		return
	}

	h.logger.Debug("Auth handler: processing google login request")

	session, err := h.authService.LoginWithGoogle(c.Request.Context(), req.Token)
	if err != nil {
		h.logger.Error("Auth handler: google login failed",
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: google login completed",
		"user_id", session.User.ID)

	c.JSON(http.StatusOK, newTokenResponse(session))
}

// Me returns the authenticated user's profile.
func (h *Auth) Me(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	info, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Auth handler: me failed",
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// DeleteMe removes the authenticated account with all its notes and
// shares.
func (h *Auth) DeleteMe(c *gin.Context) {
	userID, err := h.extractUserIDFromContext(c)
	if err != nil {
		handleError(c, err)
		return
	}

	h.logger.Debug("Auth handler: processing account delete request",
		"user_id", userID)

	if err := h.authService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.logger.Error("Auth handler: account delete failed",
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: account delete completed",
		"user_id", userID)

	c.Status(http.StatusNoContent)
}

func (h *Auth) extractUserIDFromContext(c *gin.Context) (int64, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		return 0, model.NewErrMissingAuthorizationToken()
	}
	return userID, nil
}
