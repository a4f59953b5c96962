// log — логгер запроса в context.Context. HTTP-слой кладёт логгер с request_id,
// контроллер дополняет его id элемента, клиент удалённого API пишет через него.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	return FromOr(ctx, nil)
}

// FromOr достаёт логгер из контекста; если его нет — fallback,
// а при nil fallback — slog.Default().
func FromOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	if fallback != nil {
		return fallback
	}

	return slog.Default()
}

// WithItem возвращает контекст, логгер которого помечен id элемента контента.
func WithItem(ctx context.Context, fallback *slog.Logger, id string) context.Context {
	return Into(ctx, FromOr(ctx, fallback).With(slog.String("item_id", id)))
}
