package ports

import (
	"context"
	"encoding/json"
)

// Transform reshapes a query result before it is returned to the caller.
type Transform interface {
	Transform(ctx context.Context, result json.RawMessage) (json.RawMessage, error)
}

// TransformFunc adapts a plain function to a Transform.
type TransformFunc func(ctx context.Context, result json.RawMessage) (json.RawMessage, error)

// Transform calls f.
func (f TransformFunc) Transform(ctx context.Context, result json.RawMessage) (json.RawMessage, error) {
	return f(ctx, result)
}
