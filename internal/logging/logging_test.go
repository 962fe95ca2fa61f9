package logging

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/matryer/is"

	"sayabantu/internal/config"
)

func TestNewLoggerLevelAndFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "server.log")

	logger, f, err := NewLogger(config.LogConfig{Level: "debug", Format: "json", Path: path})
	is.NoErr(err)
	is.True(f != nil)
	t.Cleanup(func() { _ = f.Close() })
	is.Equal(logger.GetLevel(), log.DebugLevel)
}

func TestNewLoggerUnknownLevelKeepsInfo(t *testing.T) {
	is := is.New(t)
	logger, f, err := NewLogger(config.LogConfig{Level: "loud"})
	is.NoErr(err)
	is.True(f == nil)
	is.Equal(logger.GetLevel(), log.InfoLevel)
}

func TestPrintlnAdapter(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	a := PrintlnAdapter{Logger: log.New(&buf)}
	a.Println(errors.New("boom"))
	is.True(strings.Contains(buf.String(), "panic recovered"))
	is.True(strings.Contains(buf.String(), "boom"))
}
