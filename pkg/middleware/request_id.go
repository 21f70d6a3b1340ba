package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/redpaw/redpaw/pkg/logger"
)

// RequestID copies chi's request id into the logger's context key so every
// log line emitted while handling the request carries it. Must be mounted
// after chi's RequestID middleware.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logger.ContextWithRequestID(r.Context(), id))
		}

		next.ServeHTTP(w, r)
	})
}
