package middleware

import "context"

type contextKey string

const (
	ctxNokp contextKey = "actor_nokp"
	ctxNama contextKey = "actor_nama"
)

func NokpFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxNokp).(string); ok {
		return v
	}
	return ""
}

func NamaFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxNama).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the acting account's identity into the context.
func WithActor(ctx context.Context, nokp, nama string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxNokp, nokp)
	return context.WithValue(ctx, ctxNama, nama)
}
