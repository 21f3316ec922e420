package web

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// staticFallback serves every path without a registered route from the asset
// root. It is installed as the NoRoute handler, so global middleware (CORS,
// security headers, access log) applies to its responses as well.
func (s *WebServer) staticFallback(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		s.preflight(c)
		return
	}

	name, err := cleanAssetPath(c.Request.URL.Path)
	if err != nil {
		if errors.Is(err, ErrInvalidPath) {
			s.Log.Debugf("[WEB]: Refused asset path from %s: %v", c.ClientIP(), err)
		}
		s.notFound(c)
		return
	}

	f, info, err := s.assets.open(name)
	if err != nil {
		if errors.Is(err, ErrInvalidPath) {
			s.Log.Debugf("[WEB]: Refused asset %s from %s: %v", name, c.ClientIP(), err)
		}
		s.notFound(c)
		return
	}
	defer f.Close()

	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		s.methodNotAllowed(c)
		return
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			s.Log.Errorf("[WEB]: Error reading asset %s: %v", name, err)
			c.String(http.StatusInternalServerError, "500 internal server error")
			return
		}
		content = bytes.NewReader(data)
	}

	c.Header("Content-Type", getContentType(name))
	c.Header("Cache-Control", s.cacheControl())
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), content)
}

// cacheControl returns the Cache-Control value for static assets
func (s *WebServer) cacheControl() string {
	if s.Config.CacheMaxAge <= 0 {
		return "no-cache"
	}
	return "public, max-age=" + strconv.Itoa(s.Config.CacheMaxAge)
}
