package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"planote/internal/platform/config"
)

// New opens the configured log file and returns the root logger together with
// a closer for the file. The terminal belongs to the TUI, so nothing is
// written to stderr.
func New(cfg config.Config) (hclog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWithWriter(f, cfg.LogLevel), f, nil
}

// NewWithWriter builds the root logger on an arbitrary writer.
func NewWithWriter(w io.Writer, level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "planote",
		Level:  hclog.LevelFromString(level),
		Output: w,
	})
}
