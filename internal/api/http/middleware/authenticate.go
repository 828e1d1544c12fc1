package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AyanMustafa/Anevo/internal/logger"
	"github.com/AyanMustafa/Anevo/internal/model"
)

// TokenParser resolves user IDs from bearer tokens.
type TokenParser interface {
	ParseAccessToken(token string) (int64, error)
}

// errorResponse is the JSON body sent on rejected requests.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Authenticate validates bearer tokens and injects the user ID into the
// request context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, validates the token and stores
// the resolved user ID in the request context. Requests without a valid
// bearer token are rejected with 401.
func (m *Authenticate) Handle(c *gin.Context) {
	var tokenString string
	if header := c.GetHeader("Authorization"); header != "" {
		tokenString = strings.TrimPrefix(header, "Bearer ")
	}

	userID, err := m.authenticateUser(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected request",
			"path", c.Request.URL.Path,
			"error", err.Error())

		detail := "Unauthorized"
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			detail = apiErr.Message
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: detail})
		return
	}

	ctx := m.contextManager.SetUserIDToContext(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (m *Authenticate) authenticateUser(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, model.NewErrMissingAuthorizationToken()
	}

	userID, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil {
		return 0, model.NewErrInvalidAuthorizationToken()
	}

	if userID == 0 {
		return 0, model.NewErrInvalidAuthorizationToken()
	}

	return userID, nil
}
