package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// osStdout is where records go when no log file is given.
var osStdout io.Writer = os.Stdout

// SlogManager owns the editor's slog logger.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the logger. Records go to file, or to stdout when file is
// nil; the terminal UI owns stdout, so interactive runs always pass a file.
// errFile, when set, also receives every warning and error. A non-nil
// provider adds its attributes to every record.
func (m *SlogManager) Setup(file, errFile io.Writer, level string, provider ContextProvider) {
	lvl := parseLevel(level)
	opts := func(floor slog.Level) *slog.HandlerOptions {
		return &slog.HandlerOptions{
			Level: floor,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					if t, ok := a.Value.Any().(time.Time); ok {
						a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
					}
				}
				return a
			},
		}
	}

	if file == nil {
		file = osStdout
	}
	handlers := []slog.Handler{slog.NewTextHandler(file, opts(lvl))}
	if errFile != nil {
		handlers = append(handlers, slog.NewTextHandler(errFile, opts(max(lvl, slog.LevelWarn))))
	}

	var h slog.Handler = NewMultiHandler(handlers...)
	if provider != nil {
		h = NewContextHandler(h, provider)
	}

	m.logger = slog.New(h)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
