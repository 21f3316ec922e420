// Web server for go-pagesrv: serves the index page and static assets
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-while/go-pagesrv/internal/config"
	"github.com/go-while/go-pagesrv/internal/web"
)

var (
	// command-line flags, zero values keep the environment/default setting
	envFile        string
	webhost        string
	webport        int
	webssl         bool
	webcertFile    string
	webkeyFile     string
	staticDir      string
	templateName   string
	templateReload bool
	allowOrigin    string
	logFormat      string
	debug          bool
	pprofAddr      string
)

var appVersion = "-unset-"

func main() {
	flag.StringVar(&envFile, "env", "", "load environment variables from this file (default: ./.env if present)")
	flag.StringVar(&webhost, "webhost", "", "Web server listen host (default: 127.0.0.1)")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 5000)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&staticDir, "static", "", "static asset directory (default: ./static, \"-\" uses the embedded assets)")
	flag.StringVar(&templateName, "template", "", "index template, relative to the static directory (default: index.html)")
	flag.BoolVar(&templateReload, "template-reload", false, "re-read the index template on every request")
	flag.StringVar(&allowOrigin, "allow-origin", "", "value of Access-Control-Allow-Origin (default: *)")
	flag.StringVar(&logFormat, "logformat", "", "log format: auto, text or json (default: auto)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&pprofAddr, "pprof", "", "start the pprof web interface on this address (e.g. :51111)")
	flag.Parse()

	var envErr error
	if envFile != "" {
		envErr = config.LoadEnvFiles(envFile)
	} else {
		envErr = config.LoadEnvFiles()
	}

	webConfig := config.NewDefaultConfig()
	if err := webConfig.ApplyEnv(os.LookupEnv); err != nil {
		envErr = errors.Join(envErr, err)
	}
	applyFlags(webConfig)

	log := newLogger(webConfig)
	if envErr != nil {
		log.Fatalf("[WEB]: Error loading environment: %v", envErr)
	}
	if err := webConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: Invalid configuration: %v", err)
	}
	log.Infof("Starting go-pagesrv: Web Server (version: %s)", appVersion)
	log.Debugf("[WEB]: Using WEB configuration: %#v", webConfig)

	if webConfig.PprofAddr != "" {
		startProfiler(log, webConfig.PprofAddr)
	}

	server, err := web.NewServer(webConfig, log)
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize web server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	log.Infof("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-ctx.Done():
		log.Infof("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), webConfig.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[WEB]: Error during shutdown: %v", err)
		return
	}
	log.Infof("[WEB]: Graceful shutdown completed")
}
