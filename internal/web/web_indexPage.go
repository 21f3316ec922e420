package web

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"text/template"

	"github.com/gin-gonic/gin"
)

// pageRenderer renders the index template. The template takes no data, so
// every render produces the same bytes. text/template leaves markup, style
// and script comments untouched; the page is sent as written.
type pageRenderer struct {
	fsys   fs.FS
	name   string
	reload bool
	tmpl   *template.Template
}

// newPageRenderer parses the template and executes it once, so a missing or
// broken template is reported before the server starts.
func newPageRenderer(fsys fs.FS, name string, reload bool) (*pageRenderer, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid template name %q", name)
	}
	r := &pageRenderer{fsys: fsys, name: name, reload: reload}
	tmpl, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.tmpl = tmpl
	if _, err := r.execute(tmpl); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *pageRenderer) parse() (*template.Template, error) {
	content, err := fs.ReadFile(r.fsys, r.name)
	if err != nil {
		return nil, fmt.Errorf("read template %q: %w", r.name, err)
	}
	tmpl, err := template.New(r.name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", r.name, err)
	}
	return tmpl, nil
}

func (r *pageRenderer) execute(tmpl *template.Template) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("execute template %q: %w", r.name, err)
	}
	return buf.Bytes(), nil
}

// Render returns the rendered page. With reload enabled the template is read
// from disk again on every call.
func (r *pageRenderer) Render() ([]byte, error) {
	tmpl := r.tmpl
	if r.reload {
		var err error
		if tmpl, err = r.parse(); err != nil {
			return nil, err
		}
	}
	return r.execute(tmpl)
}

// indexPage handles "/"
func (s *WebServer) indexPage(c *gin.Context) {
	page, err := s.page.Render()
	if err != nil {
		s.Log.Errorf("[WEB]: Error rendering template %s: %v", s.page.name, err)
		c.String(http.StatusInternalServerError, "500 internal server error")
		return
	}

	c.Header("Cache-Control", "no-cache")
	if c.Request.Method == http.MethodHead {
		c.Header("Content-Type", htmlContentType)
		c.Header("Content-Length", strconv.Itoa(len(page)))
		c.Status(http.StatusOK)
		return
	}
	c.Data(http.StatusOK, htmlContentType, page)
}

const htmlContentType = "text/html; charset=utf-8"
