package middleware

import (
	"context"
	"mime"
	"net/http"
	"time"
)

// Timeout навешивает дедлайн на запрос, если его ещё нет: d — для обычных запросов,
// upload — для multipart-загрузок (видео, картинки). Нулевая длительность — без дедлайна.
// Дедлайн доходит до remote.Client через контекст.
func Timeout(d, upload time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := d
			if isUpload(r) {
				limit = upload
			}

			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isUpload(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
