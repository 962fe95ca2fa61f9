// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"sayabantu/internal/config"
)

// NewLogger returns a logger configured from cfg. The returned file, when
// non-nil, must be closed by the caller.
func NewLogger(cfg config.LogConfig) (*log.Logger, *os.File, error) {
	var out io.Writer = os.Stderr

	var f *os.File
	if cfg.Path != "" {
		var err error
		f, err = os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stderr, f)
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if logger.GetLevel() == log.DebugLevel {
		logger.SetReportCaller(true)
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}

	return logger, f, nil
}

// Discard returns a logger that writes nowhere. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// PrintlnAdapter satisfies loggers that only know Println, such as the
// gorilla/handlers recovery logger.
type PrintlnAdapter struct {
	Logger *log.Logger
}

func (a PrintlnAdapter) Println(v ...interface{}) {
	a.Logger.Error("panic recovered", "err", strings.TrimSpace(fmt.Sprintln(v...)))
}
