// Package deferred runs secondary page fetches alongside the primary one.
//
// A Value starts fetching as soon as it is created. Rendering code awaits it
// and always gets something to show: the fetched value, or the placeholder
// when the fetch failed or the request went away.
package deferred

import (
	"context"
	"errors"

	log "github.com/prairiegroup/storefront/pkg/logger/log"
)

var errPanicked = errors.New("deferred: fetch panicked")

type Value[T any] struct {
	name        string
	placeholder T
	done        chan struct{}
	result      T
	err         error
}

// Go starts fetch in its own goroutine. name only shows up in logs.
func Go[T any](ctx context.Context, name string, placeholder T, fetch func(context.Context) (T, error)) *Value[T] {
	v := &Value[T]{
		name:        name,
		placeholder: placeholder,
		done:        make(chan struct{}),
	}
	go func() {
		defer close(v.done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw(ctx, "deferred fetch panicked", "name", name, "panic", r)
				v.result, v.err = placeholder, errPanicked
			}
		}()
		v.result, v.err = fetch(ctx)
	}()
	return v
}

// Resolved returns a Value that is already settled.
func Resolved[T any](value T) *Value[T] {
	v := &Value[T]{result: value, placeholder: value, done: make(chan struct{})}
	close(v.done)
	return v
}

// Await blocks until the fetch settles or ctx is done. It never fails.
func (v *Value[T]) Await(ctx context.Context) T {
	select {
	case <-v.done:
	case <-ctx.Done():
		log.Debugw(ctx, "deferred fetch abandoned", "name", v.name, "error", ctx.Err())
		return v.placeholder
	}
	if v.err != nil {
		log.Warnw(ctx, "deferred fetch failed, using placeholder", "name", v.name, "error", v.err)
		return v.placeholder
	}
	return v.result
}

// Err reports the fetch error once settled, for callers that need to know
// whether Await fell back to the placeholder.
func (v *Value[T]) Err(ctx context.Context) error {
	select {
	case <-v.done:
		return v.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
