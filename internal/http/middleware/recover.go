package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
)

// Recover перехватывает panic и отвечает 500/internal в едином конверте.
// Recover стоит снаружи Logging, поэтому логгер передаётся явно, а request_id
// берётся из заголовка. Детали паники остаются в логе.
func Recover(l *slog.Logger) func(http.Handler) http.Handler {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				l.LogAttrs(r.Context(), slog.LevelError, "panic",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", r.Header.Get(HeaderRequestID)),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)
				apierrors.WriteError(w, r, errors.New("internal"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
