// Package correlationid carries a per-request correlation id through the
// request context so log records and error responses can be tied together.
package correlationid

import "context"

type ctxKey struct{}

// HeaderKey is the HTTP header used to propagate the correlation id.
const HeaderKey = "X-Correlation-ID"

// NewContext returns a copy of ctx carrying the given correlation id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the correlation id from ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
