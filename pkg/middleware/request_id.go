package middleware

import (
	"net/http"

	"github.com/placementdesk/backoffice/pkg/requestid"
)

const requestIDHeader = "x-request-id"

// RequestID propagates the caller's x-request-id header, generating one when
// the header is missing, and stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = requestid.Generate()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestid.ToContext(r.Context(), id)))
	})
}
