package process

import "context"

type buildIDKey struct{}

// WithBuildID tags ctx with the build pass that launches commands under it.
// Results of those commands carry the ID.
func WithBuildID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, buildIDKey{}, id)
}

// BuildIDFrom returns the build ID stored in ctx, or "".
func BuildIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(buildIDKey{}).(string)
	return id
}
