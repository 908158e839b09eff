package rline

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a leveled logger writing to w, with timestamps.
// w defaults to os.Stderr. An unknown level falls back to info.
func NewLogger(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "rline"})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
