// Package web provides the HTTP server for go-pagesrv: the rendered index
// page, the static asset root and the cross-origin policy.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pagesrv/internal/config"
	"github.com/sirupsen/logrus"
)

// WebServer represents the web server
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	Log       *logrus.Logger
	StartTime time.Time // set by NewServer, reported as uptime on Shutdown

	assets     *assetRoot
	page       *pageRenderer
	httpServer *http.Server
	accessLog  *io.PipeWriter
	errorLog   *io.PipeWriter
}

// NewServer creates a new web server instance. The asset root and the index
// template are loaded here; an error means the server must not start.
func NewServer(webconfig *config.WebConfig, logger *logrus.Logger) (*WebServer, error) {
	if webconfig == nil {
		return nil, errors.New("web: nil config")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	assets, err := openAssetRoot(webconfig.StaticDir)
	if err != nil {
		return nil, err
	}
	page, err := newPageRenderer(assets.fsys, webconfig.TemplateName, webconfig.TemplateReload)
	if err != nil {
		assets.Close()
		return nil, err
	}
	logger.Infof("[WEB]: Serving assets from %s, index template %s (reload=%t)", assets.label, webconfig.TemplateName, webconfig.TemplateReload)
	if webconfig.StaticDir == "" && logger.IsLevelEnabled(logrus.DebugLevel) {
		if files, err := ListEmbeddedFiles(); err == nil {
			logger.Debugf("[WEB]: Embedded assets: %v", files)
		}
	}

	// Release mode for production unless debugging or already switched (tests)
	if !webconfig.Debug && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Only these peers may override the client address via X-Forwarded-For
	if err := router.SetTrustedProxies(webconfig.TrustedProxies); err != nil {
		assets.Close()
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	server := &WebServer{
		Router:    router,
		Config:    webconfig,
		Log:       logger,
		StartTime: time.Now(),
		assets:    assets,
		page:      page,
		accessLog: logger.WriterLevel(logrus.InfoLevel),
		errorLog:  logger.WriterLevel(logrus.ErrorLevel),
	}

	router.Use(gin.RecoveryWithWriter(server.errorLog))
	router.Use(server.ApacheLogFormat())

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	router.Use(secure.New(secureConfig))
	router.Use(CORSMiddleware(webconfig.AllowOrigin))

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:         webconfig.Addr(),
		Handler:      router,
		ReadTimeout:  webconfig.ReadTimeout,
		WriteTimeout: webconfig.WriteTimeout,
		IdleTimeout:  webconfig.IdleTimeout,
	}
	return server, nil
}

// setupRoutes configures all HTTP routes. The table is fixed after this call.
func (s *WebServer) setupRoutes() {
	s.Router.GET("/", s.indexPage)
	s.Router.HEAD("/", s.indexPage)
	s.Router.OPTIONS("/", s.preflight)

	// everything else is looked up in the asset root
	s.Router.NoRoute(s.staticFallback)
	s.Router.NoMethod(s.methodNotAllowed)
}

// Start starts the web server with SSL support if configured. It blocks until
// the server stops and returns http.ErrServerClosed after Shutdown.
func (s *WebServer) Start() error {
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		s.Log.Infof("[WEB]: Starting HTTPS server on %s", s.httpServer.Addr)
		return s.httpServer.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	s.Log.Infof("[WEB]: Starting HTTP server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections, waits for in-flight requests until
// ctx expires and releases the asset root.
func (s *WebServer) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
	}
	if err := s.assets.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close asset root: %w", err))
	}
	s.Log.Infof("[WEB]: Server stopped after %s", time.Since(s.StartTime).Round(time.Second))
	if s.accessLog != nil {
		s.accessLog.Close()
	}
	if s.errorLog != nil {
		s.errorLog.Close()
	}
	return errors.Join(errs...)
}

// ApacheLogFormat writes one combined-log-format line per request to the logger
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: s.accessLog,
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
				param.ClientIP,
				param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.BodySize,
				param.Request.Referer(),
				param.Request.UserAgent(),
			)
		},
	})
}
