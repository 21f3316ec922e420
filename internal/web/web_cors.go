package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, HEAD, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// CORSMiddleware adds cross-origin headers to every response, including 404s
// and errors. It never rejects a request and never touches status or body.
// Headers are set before the handler runs so they are in place by the time
// anything is written.
func CORSMiddleware(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)

		allowHeaders := corsAllowHeaders
		if c.Request.Method == http.MethodOptions {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				allowHeaders = requested
			}
		}
		h.Set("Access-Control-Allow-Headers", allowHeaders)

		if allowOrigin != "*" {
			h.Add("Vary", "Origin")
		}
		c.Next()
	}
}

// preflight answers OPTIONS requests; the CORS headers come from the middleware
func (s *WebServer) preflight(c *gin.Context) {
	c.Header("Allow", corsAllowMethods)
	c.Status(http.StatusNoContent)
}
