package store

import (
	"context"
	"errors"
)

// Store is a durable key-value slot holding serialized cart state.
// Consumers define the keys; a Store never interprets values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

var ErrNotFound = errors.New("key not found")

// Scoped prefixes every key with a namespace so one backend can hold many
// sessions under the same logical key.
type Scoped struct {
	inner  Store
	prefix string
}

func NewScoped(inner Store, namespace string) Scoped {
	return Scoped{inner: inner, prefix: namespace}
}

func (s Scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s Scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}
