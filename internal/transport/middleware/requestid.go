package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/business-management/pkg/logger"
)

const traceHeader = "X-Trace-ID"

// RequestID attaches a trace id to the request context and echoes it
// back in the response. Inbound ids are honored only when they parse
// as UUIDs; anything else gets replaced.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		w.Header().Set(traceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
