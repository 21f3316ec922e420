package main

import (
	"io"
	"os"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-pagesrv/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// applyFlags overrides cfg with every command-line flag that was given
func applyFlags(cfg *config.WebConfig) {
	if webhost != "" {
		cfg.ListenHost = webhost
	}
	if webport > 0 {
		cfg.ListenPort = webport
	}
	if webssl {
		cfg.SSL = true
	}
	if webcertFile != "" {
		cfg.CertFile = webcertFile
	}
	if webkeyFile != "" {
		cfg.KeyFile = webkeyFile
	}
	switch staticDir {
	case "":
	case "-":
		cfg.StaticDir = ""
	default:
		cfg.StaticDir = staticDir
	}
	if templateName != "" {
		cfg.TemplateName = templateName
	}
	if templateReload {
		cfg.TemplateReload = true
	}
	if allowOrigin != "" {
		cfg.AllowOrigin = allowOrigin
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if debug {
		cfg.Debug = true
	}
	if pprofAddr != "" {
		cfg.PprofAddr = pprofAddr
	}
}

// newLogger builds the process logger. With the auto format a terminal gets
// human readable text and everything else gets JSON.
func newLogger(cfg *config.WebConfig) *logrus.Logger {
	return newLoggerTo(os.Stderr, isTerminal(os.Stderr), cfg)
}

func newLoggerTo(out io.Writer, tty bool, cfg *config.WebConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	format := cfg.LogFormat
	if format == config.LogFormatAuto || format == "" {
		format = config.LogFormatJSON
		if tty {
			format = config.LogFormatText
		}
	}
	if format == config.LogFormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	log.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

const (
	// memory profile cadence of the -pprof profiler
	memProfileEvery    = 5 * time.Minute
	memProfileDuration = 30 * time.Second
)

// startProfiler serves pprof on addr and writes periodic memory profiles
func startProfiler(log *logrus.Logger, addr string) {
	p := prof.NewProf()
	go p.PprofWeb(addr)
	p.StartMemProfile(memProfileEvery, memProfileDuration)
	log.Infof("[WEB]: pprof web interface listening on %s", addr)
}
