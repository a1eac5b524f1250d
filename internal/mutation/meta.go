package mutation

import "context"

// Meta is request metadata recorded on audit entries. The HTTP layer attaches
// it to the context; mutations run fine without it (fields stay empty).
type Meta struct {
	IP        string
	UserAgent string
	Referer   string
}

type metaKey struct{}

// WithMeta returns a context carrying request metadata for audit records.
func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// MetaFromContext extracts request metadata, or a zero Meta if none was set.
func MetaFromContext(ctx context.Context) Meta {
	if m, ok := ctx.Value(metaKey{}).(Meta); ok {
		return m
	}
	return Meta{}
}
