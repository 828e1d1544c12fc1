package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyanMustafa/Anevo/internal/model"
)

// ErrorResponse is the JSON body sent for any failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// handleError maps an error to its HTTP status and writes the response.
// Unrecognized errors become 500 with a generic message.
func handleError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	detail := "Internal server error"

	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		statusCode, detail = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, model.ErrUnauthorized):
		statusCode, detail = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, model.ErrForbidden):
		statusCode, detail = http.StatusForbidden, "Forbidden"
	case errors.Is(err, model.ErrNotFound):
		statusCode, detail = http.StatusNotFound, "Not found"
	case errors.Is(err, model.ErrConflict):
		statusCode, detail = http.StatusConflict, "Conflict"
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		detail = apiErr.Message
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Detail: detail})
}
