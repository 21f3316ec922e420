package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:5000" {
		t.Errorf("expected default addr 127.0.0.1:5000, got %s", cfg.Addr())
	}
	if cfg.AllowOrigin != "*" {
		t.Errorf("expected default allow origin *, got %q", cfg.AllowOrigin)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"PAGESRV_HOST":             "0.0.0.0",
		"PAGESRV_PORT":             "8080",
		"PAGESRV_STATIC_DIR":       "/srv/www",
		"PAGESRV_TEMPLATE":         "main.html",
		"PAGESRV_TEMPLATE_RELOAD":  "true",
		"PAGESRV_CACHE_MAX_AGE":    "3600",
		"PAGESRV_SHUTDOWN_TIMEOUT": "3s",
		"PAGESRV_LOG_FORMAT":       "json",
		"PAGESRV_DEBUG":            "1",
		"PORT":                     "9999",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected 0.0.0.0:8080 (PAGESRV_PORT wins over PORT), got %s", cfg.Addr())
	}
	if cfg.StaticDir != "/srv/www" || cfg.TemplateName != "main.html" {
		t.Errorf("unexpected asset layout: %q %q", cfg.StaticDir, cfg.TemplateName)
	}
	if !cfg.TemplateReload || !cfg.Debug {
		t.Errorf("expected template reload and debug enabled")
	}
	if cfg.CacheMaxAge != 3600 {
		t.Errorf("expected cache max age 3600, got %d", cfg.CacheMaxAge)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected shutdown timeout 3s, got %s", cfg.ShutdownTimeout)
	}
	if cfg.LogFormat != LogFormatJSON {
		t.Errorf("expected json log format, got %q", cfg.LogFormat)
	}
}

func TestApplyEnvPortFallback(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.ApplyEnv(mapLookup(map[string]string{"PORT": "7070"})); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.ListenPort != 7070 {
		t.Errorf("expected PORT fallback 7070, got %d", cfg.ListenPort)
	}
}

func TestApplyEnvEmptyStaticDirSelectsEmbedded(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.ApplyEnv(mapLookup(map[string]string{"PAGESRV_STATIC_DIR": ""})); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.StaticDir != "" {
		t.Errorf("expected empty static dir, got %q", cfg.StaticDir)
	}
}

func TestApplyEnvSkipsEmptyValues(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"PAGESRV_HOST":            "",
		"PAGESRV_TEMPLATE":        "",
		"PAGESRV_ALLOW_ORIGIN":    "",
		"PAGESRV_LOG_FORMAT":      "",
		"PAGESRV_TRUSTED_PROXIES": "",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if !reflect.DeepEqual(cfg, NewDefaultConfig()) {
		t.Errorf("empty values should keep the defaults, got %#v", cfg)
	}
}

func TestApplyEnvTrustedProxies(t *testing.T) {
	testCases := []struct {
		value string
		want  []string
	}{
		{"10.1.0.0/16, 192.0.2.7", []string{"10.1.0.0/16", "192.0.2.7"}},
		{"none", []string{}},
	}

	for _, tc := range testCases {
		cfg := NewDefaultConfig()
		if err := cfg.ApplyEnv(mapLookup(map[string]string{"PAGESRV_TRUSTED_PROXIES": tc.value})); err != nil {
			t.Fatalf("ApplyEnv: %v", err)
		}
		if !reflect.DeepEqual(cfg.TrustedProxies, tc.want) {
			t.Errorf("%q: expected %v, got %v", tc.value, tc.want, cfg.TrustedProxies)
		}
	}
}

func TestApplyEnvErrors(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"PAGESRV_PORT":         "http",
		"PAGESRV_DEBUG":        "maybe",
		"PAGESRV_READ_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatal("expected an error for malformed values")
	}
	for _, name := range []string{"PAGESRV_PORT", "PAGESRV_DEBUG", "PAGESRV_READ_TIMEOUT"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should mention %s: %v", name, err)
		}
	}
	if cfg.ListenPort != DefaultListenPort {
		t.Errorf("port should stay at default after a parse error, got %d", cfg.ListenPort)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *WebConfig)
		wantErr string
	}{
		{"port zero", func(c *WebConfig) { c.ListenPort = 0 }, "invalid port"},
		{"port too high", func(c *WebConfig) { c.ListenPort = 70000 }, "invalid port"},
		{"ssl without cert", func(c *WebConfig) { c.SSL = true }, "cert_file"},
		{"empty template", func(c *WebConfig) { c.TemplateName = "" }, "template name"},
		{"negative max age", func(c *WebConfig) { c.CacheMaxAge = -1 }, "cache max age"},
		{"bad log format", func(c *WebConfig) { c.LogFormat = "xml" }, "log format"},
	}

	for _, tc := range testCases {
		cfg := NewDefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: expected error containing %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("PAGESRV_TEST_LOADED=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PAGESRV_TEST_LOADED") })

	if err := LoadEnvFiles(envFile); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv("PAGESRV_TEST_LOADED"); got != "yes" {
		t.Errorf("expected PAGESRV_TEST_LOADED=yes, got %q", got)
	}

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("expected an error for an explicitly named missing file")
	}
}

func TestLoadEnvFilesMissingDefaultIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadEnvFiles(); err != nil {
		t.Errorf("missing ./.env should be ignored, got %v", err)
	}
}
