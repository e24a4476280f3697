// Package logging provides structured logging for loom components.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a structured logger for loom components
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new structured logger. Output goes to stderr because
// stdout belongs to the terminal UI while the app is running.
func NewLogger(component string, level slog.Level) *Logger {
	return NewLoggerWithWriter(os.Stderr, component, level)
}

// NewLoggerWithWriter creates a logger writing to w. Tests and file-backed
// logging use this.
func NewLoggerWithWriter(w io.Writer, component string, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(w, opts)

	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("system", "loom"),
	)

	return &Logger{Logger: logger}
}

// Discard returns a logger that drops everything. Widget tests use this so
// handler panics stay quiet.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// WithWidget returns a logger with widget-specific fields
func (l *Logger) WithWidget(widgetID, widgetType string) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("widget_id", widgetID),
			slog.String("widget_type", widgetType),
		),
	}
}

// WithWindow returns a logger with window-specific fields
func (l *Logger) WithWindow(windowID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("window_id", windowID),
		),
	}
}

// HandlerPanicked logs a recovered panic from a widget event handler
func (l *Logger) HandlerPanicked(widgetID, event string, recovered any) {
	l.Error("event handler panicked",
		slog.String("widget_id", widgetID),
		slog.String("event", event),
		slog.Any("panic", recovered),
	)
}

// SubscriberPanicked logs a recovered panic from a state subscriber
func (l *Logger) SubscriberPanicked(cell string, recovered any) {
	l.Error("state subscriber panicked",
		slog.String("cell", cell),
		slog.Any("panic", recovered),
	)
}

// ThemeApplied logs a theme swap
func (l *Logger) ThemeApplied(name string) {
	l.Info("theme applied",
		slog.String("theme", name),
	)
}

// ThemeReloaded logs a theme file hot reload
func (l *Logger) ThemeReloaded(path string) {
	l.Info("theme reloaded",
		slog.String("path", path),
	)
}

// ThemeReloadFailed logs a failed theme file reload
func (l *Logger) ThemeReloadFailed(path string, err error) {
	l.Warn("theme reload failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// FrameRendered logs one render pass
func (l *Logger) FrameRendered(durationMs float64, dirtyCells int) {
	l.Debug("frame rendered",
		slog.Float64("duration_ms", durationMs),
		slog.Int("dirty_cells", dirtyCells),
	)
}

// EventDropped logs an event discarded because the message queue was full
func (l *Logger) EventDropped(kind string) {
	l.Warn("event dropped",
		slog.String("kind", kind),
	)
}

// BackendStopped logs backend shutdown
func (l *Logger) BackendStopped(reason string) {
	l.Info("backend stopped",
		slog.String("reason", reason),
	)
}
