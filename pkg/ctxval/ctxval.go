// Package ctxval keeps mutable request-scoped values behind a context.
//
// Middleware calls Wrap once per request; anything below can then record
// values (for instance the storefront operations issued) that the request
// logger reads back when the response is written.
package ctxval

import (
	"context"
	"sync"
)

type ctxKey struct{}

var defKey = ctxKey{}

type bag struct {
	// a request only stores a handful of values, a map under a mutex is enough
	m      sync.Mutex
	values map[any]any
}

// Wrap attaches an empty bag to ctx. Wrapping twice is a no-op.
func Wrap(ctx context.Context) context.Context {
	if _, ok := getBag(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, defKey, &bag{values: make(map[any]any)})
}

func Wrapped(ctx context.Context) bool {
	_, ok := getBag(ctx)
	return ok
}

func Set[K comparable, V any](ctx context.Context, k K, v V) {
	b, ok := getBag(ctx)
	if !ok {
		return
	}
	b.m.Lock()
	defer b.m.Unlock()
	b.values[k] = v
}

func Get[K comparable, V any](ctx context.Context, k K) (V, bool) {
	b, ok := getBag(ctx)
	if !ok {
		return *new(V), false
	}
	b.m.Lock()
	defer b.m.Unlock()
	v, ok := b.values[k].(V)
	return v, ok
}

// Update applies fn to the current value of k while holding the bag lock and
// stores the result. fn receives the zero value when k is unset.
func Update[K comparable, V any](ctx context.Context, k K, fn func(V) V) (V, bool) {
	b, ok := getBag(ctx)
	if !ok {
		return *new(V), false
	}
	b.m.Lock()
	defer b.m.Unlock()
	cur, _ := b.values[k].(V)
	next := fn(cur)
	b.values[k] = next
	return next, true
}

// Append adds v to the slice stored under k.
func Append[K comparable, V any](ctx context.Context, k K, v V) {
	Update(ctx, k, func(cur []V) []V {
		return append(cur, v)
	})
}

func getBag(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(defKey).(*bag)
	return b, ok
}
