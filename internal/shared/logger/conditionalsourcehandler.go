package logger

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
)

// callerSkip skips runtime.Callers, Handle and the slog.Logger.log frame.
const callerSkip = 3

type conditionalSourceHandler struct {
	next   slog.Handler
	levels []slog.Level
}

// NewConditionalSourceHandler wraps a handler so that the source location is
// attached only to records at the given levels. The wrapped handler should be
// created with AddSource: false.
//
// Example:
//
//	handler := NewConditionalSourceHandler(
//	    tint.NewHandler(os.Stdout, opts),
//	    slog.LevelWarn,
//	    slog.LevelError,
//	)
func NewConditionalSourceHandler(next slog.Handler, showSourceForLevels ...slog.Level) slog.Handler {
	return &conditionalSourceHandler{
		next:   next,
		levels: slices.Clone(showSourceForLevels),
	}
}

func (h *conditionalSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if slices.Contains(h.levels, r.Level) {
		r.AddAttrs(slog.Any(slog.SourceKey, callerSource()))
	}
	return h.next.Handle(ctx, r)
}

func callerSource() *slog.Source {
	var pcs [1]uintptr
	runtime.Callers(callerSkip+1, pcs[:])
	f, _ := runtime.CallersFrames(pcs[:]).Next()
	return &slog.Source{
		Function: f.Function,
		File:     f.File,
		Line:     f.Line,
	}
}

func (h *conditionalSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &conditionalSourceHandler{next: h.next.WithAttrs(attrs), levels: h.levels}
}

func (h *conditionalSourceHandler) WithGroup(name string) slog.Handler {
	return &conditionalSourceHandler{next: h.next.WithGroup(name), levels: h.levels}
}

func (h *conditionalSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}
