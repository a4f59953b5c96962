package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/kickoffzone-admin/internal/remote"
)

// HeaderRequestID — заголовок корреляции запросов.
const HeaderRequestID = "X-Request-Id"

// RequestID обеспечивает наличие X-Request-Id:
//  1. берёт входящий заголовок, если он есть;
//  2. иначе генерирует UUID;
//  3. кладёт id в заголовки ответа и запроса (его читает apierrors.WriteError)
//     и в контекст (remote.Client прокинет его на сервер контента).
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)

			ctx := remote.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
