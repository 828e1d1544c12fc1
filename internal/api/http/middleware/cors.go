package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS applies the permissive cross-origin policy the web client relies
// on: any origin, credentials allowed.
type CORS struct{}

// NewCORS creates a new CORS middleware.
func NewCORS() *CORS {
	return &CORS{}
}

// Handle sets the CORS response headers and short-circuits preflight
// requests.
func (m *CORS) Handle(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin == "" {
		c.Next()
		return
	}

	header := c.Writer.Header()
	header.Set("Access-Control-Allow-Origin", origin)
	header.Set("Access-Control-Allow-Credentials", "true")
	header.Add("Vary", "Origin")

	if c.Request.Method == http.MethodOptions {
		header.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}
