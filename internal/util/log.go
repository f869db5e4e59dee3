package util

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds a stderr logger at the requested level. Unknown levels
// fall back to info so a typo never silences diagnostics entirely.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
