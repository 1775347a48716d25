package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"selfadmin/internal/core/domain/logging"
)

type contextRequestID string

const CONTEXT_REQUEST_ID_KEY = contextRequestID("requestID")

const REQUEST_ID_HEADER = "X-Request-Id"

func SetRequestIDToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(REQUEST_ID_HEADER)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(REQUEST_ID_HEADER, requestID)
		ctx := context.WithValue(r.Context(), CONTEXT_REQUEST_ID_KEY, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestID(ctx context.Context) (requestID string, ok bool) {
	requestID, ok = ctx.Value(CONTEXT_REQUEST_ID_KEY).(string)
	return requestID, ok
}

func LogRequests(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, _ := RequestID(r.Context())
			log.Debug(
				r.Context(),
				"Request received.",
				logging.Entry("method", r.Method),
				logging.Entry("path", r.URL.Path),
				logging.Entry("requestID", requestID),
			)
			next.ServeHTTP(w, r)
		})
	}
}
