package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewTraceLogger returns a JSON zerolog logger tagged with component, used
// for the dispatcher trace and the database manager.
func NewTraceLogger(w io.Writer, level, component string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
}
