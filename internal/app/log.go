package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. Level is one of debug, info, warn or
// error; an empty level means info.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "scaffkit",
		Level:  lvl,
	}), nil
}
