package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tuannm151/sweetshop/pkg/correlationid"
)

// CorrelationID propagates the caller's correlation id, or mints one, and
// echoes it on the response so logs can be matched to requests.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.HeaderKey)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(correlationid.HeaderKey, id)

			ctx := correlationid.NewContext(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
