package logging

import "github.com/rs/zerolog"

// DispatcherLogger writes the dispatcher's command trace to zerolog. With a
// provider, every line also carries the rotation and phase the slog records
// show, so the two logs can be lined up.
type DispatcherLogger struct {
	logger   zerolog.Logger
	provider ContextProvider
}

// NewDispatcherLogger wraps logger; provider may be nil.
func NewDispatcherLogger(logger zerolog.Logger, provider ContextProvider) *DispatcherLogger {
	return &DispatcherLogger{logger: logger, provider: provider}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	l.write(l.logger.Debug(), msg, keysAndValues)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	l.write(l.logger.Info(), msg, keysAndValues)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	l.write(l.logger.Error(), msg, keysAndValues)
}

func (l *DispatcherLogger) write(e *zerolog.Event, msg string, keysAndValues []any) {
	if !e.Enabled() {
		return
	}
	if l.provider != nil {
		for _, a := range l.provider() {
			e = e.Interface(a.Key, a.Value.Any())
		}
	}
	e.Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields pairs up keys and values; non-string keys and a trailing key
// without a value are dropped.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
