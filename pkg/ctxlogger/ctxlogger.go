// Package ctxlogger threads slog attrs through a context so that
// per-session and per-request identity lands on every record without
// passing a logger around.
package ctxlogger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var attrsKey ctxKey

// ContextHandler decorates a slog.Handler with the attrs carried by the
// record's context.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs, ok := ctx.Value(attrsKey).([]slog.Attr)
	if !ok {
		return h.Handler.Handle(ctx, r)
	}

	for _, attr := range attrs {
		r.AddAttrs(attr)
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx derives a context whose records will carry attr in addition to
// any attrs the parent already carries.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	existing, _ := parent.Value(attrsKey).([]slog.Attr)
	attrs := make([]slog.Attr, 0, len(existing)+1)
	attrs = append(attrs, existing...)
	attrs = append(attrs, attr)

	return context.WithValue(parent, attrsKey, attrs)
}
