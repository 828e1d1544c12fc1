package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request_id"

// requestIDHeader is the header the ID is read from and echoed to.
const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a unique ID so log lines from one
// request can be correlated. An inbound X-Request-ID is kept as is.
type RequestID struct{}

// NewRequestID creates a new RequestID middleware.
func NewRequestID() *RequestID {
	return &RequestID{}
}

// Handle assigns the request ID and echoes it in the response header.
func (r *RequestID) Handle(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	c.Set(requestIDKey, id)
	c.Writer.Header().Set(requestIDHeader, id)
	c.Next()
}
