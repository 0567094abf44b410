package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/brainkit/brainkit-backend/pkg/ctxutil"
)

// RequestID propagates the client-supplied X-Request-Id header or generates
// a fresh one, storing it in the context and echoing it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
