package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// notFound writes the plain 404 response used for unknown paths
func (s *WebServer) notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
}

// methodNotAllowed writes a 405 for known resources hit with an unsupported method
func (s *WebServer) methodNotAllowed(c *gin.Context) {
	c.Header("Allow", corsAllowMethods)
	c.String(http.StatusMethodNotAllowed, "405 method not allowed")
}
