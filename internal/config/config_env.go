package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable read by ApplyEnv
const EnvPrefix = "PAGESRV_"

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// LoadEnvFiles loads variables from .env style files into the process
// environment. Variables already set are not overwritten. Without arguments
// ./.env is tried and silently skipped when it does not exist.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		err := godotenv.Load(".env")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files %v: %w", files, err)
	}
	return nil
}

// ApplyEnv overrides fields of c with the PAGESRV_* variables found by lookup.
// PORT is honoured as a fallback for PAGESRV_PORT. Empty values are skipped,
// except for PAGESRV_STATIC_DIR.
func (c *WebConfig) ApplyEnv(lookup LookupFunc) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, v string, dst *int) {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("HOST", &c.ListenHost)
	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		integer(EnvPrefix+"PORT", v, &c.ListenPort)
	} else if v, ok := lookup("PORT"); ok && v != "" {
		integer("PORT", v, &c.ListenPort)
	}
	boolean("SSL", &c.SSL)
	str("CERT_FILE", &c.CertFile)
	str("KEY_FILE", &c.KeyFile)
	// an empty STATIC_DIR is meaningful: it selects the embedded assets
	if v, ok := lookup(EnvPrefix + "STATIC_DIR"); ok {
		c.StaticDir = v
	}
	str("TEMPLATE", &c.TemplateName)
	boolean("TEMPLATE_RELOAD", &c.TemplateReload)
	str("ALLOW_ORIGIN", &c.AllowOrigin)
	if v, ok := lookup(EnvPrefix + "TRUSTED_PROXIES"); ok && v != "" {
		c.TrustedProxies = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "CACHE_MAX_AGE"); ok && v != "" {
		integer(EnvPrefix+"CACHE_MAX_AGE", v, &c.CacheMaxAge)
	}
	duration("READ_TIMEOUT", &c.ReadTimeout)
	duration("WRITE_TIMEOUT", &c.WriteTimeout)
	duration("IDLE_TIMEOUT", &c.IdleTimeout)
	duration("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
	str("LOG_FORMAT", &c.LogFormat)
	boolean("DEBUG", &c.Debug)
	str("PPROF", &c.PprofAddr)

	return errors.Join(errs...)
}

// splitList parses a comma separated list. "none" yields an empty list.
func splitList(v string) []string {
	if strings.EqualFold(strings.TrimSpace(v), "none") {
		return []string{}
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
