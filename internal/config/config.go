// Package config provides configuration management for go-pagesrv.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// Default listen settings, same as the flask development server
	DefaultListenHost = "127.0.0.1"
	DefaultListenPort = 5000

	// Default asset layout
	DefaultStaticDir    = "static"
	DefaultTemplateName = "index.html"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// Log formats
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultTrustedProxies are the networks whose X-Forwarded-For is believed
func DefaultTrustedProxies() []string {
	return []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
}

// WebConfig holds web server configuration
type WebConfig struct {
	ListenHost string `json:"listen_host"`
	ListenPort int    `json:"listen_port"`
	SSL        bool   `json:"ssl"`
	CertFile   string `json:"cert_file,omitempty"`
	KeyFile    string `json:"key_file,omitempty"`

	// StaticDir is the asset root. Empty selects the embedded assets.
	StaticDir string `json:"static_dir"`
	// TemplateName is the index template, relative to StaticDir.
	TemplateName   string `json:"template_name"`
	TemplateReload bool   `json:"template_reload"` // re-parse the template on every request

	AllowOrigin string `json:"allow_origin"`
	CacheMaxAge int    `json:"cache_max_age"` // seconds, 0 sends no-cache

	// TrustedProxies lists addresses or CIDRs allowed to set X-Forwarded-For.
	// Empty trusts nobody and the peer address is logged.
	TrustedProxies []string `json:"trusted_proxies"`

	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	LogFormat string `json:"log_format"`
	Debug     bool   `json:"debug"`
	PprofAddr string `json:"pprof_addr,omitempty"` // empty disables the profiler
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *WebConfig {
	return &WebConfig{
		ListenHost:      DefaultListenHost,
		ListenPort:      DefaultListenPort,
		StaticDir:       DefaultStaticDir,
		TemplateName:    DefaultTemplateName,
		AllowOrigin:     "*",
		TrustedProxies:  DefaultTrustedProxies(),
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogFormat:       LogFormatAuto,
	}
}

// Addr returns the host:port the server listens on
func (c *WebConfig) Addr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

// Validate checks the configuration for values the server cannot start with
func (c *WebConfig) Validate() error {
	var errs []error
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", c.ListenPort))
	}
	if c.SSL && (c.CertFile == "" || c.KeyFile == "") {
		errs = append(errs, errors.New("SSL enabled but cert_file or key_file not specified"))
	}
	if c.TemplateName == "" {
		errs = append(errs, errors.New("template name must not be empty"))
	}
	if c.CacheMaxAge < 0 {
		errs = append(errs, fmt.Errorf("invalid cache max age: %d", c.CacheMaxAge))
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q (want auto, text or json)", c.LogFormat))
	}
	return errors.Join(errs...)
}
