// Package inflight collapses duplicate submissions of the same action.
// A second call with a key that is still running waits for the first one
// and receives its result instead of starting a new request.
package inflight

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"
)

type Guard struct {
	group singleflight.Group
}

func New() *Guard {
	return &Guard{}
}

// Key joins the parts that identify an action, e.g. session id and action name
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Do runs fn once per key at a time. shared reports whether the result was
// handed to more than one caller.
func Do[T any](g *Guard, key string, fn func() (T, error)) (result T, shared bool, err error) {
	v, err, shared := g.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if v != nil {
		result, _ = v.(T)
	}
	return result, shared, err
}

// DoContext is Do for work that takes a context. fn runs on a copy of ctx
// that keeps its values but not its cancellation, so a caller that goes away
// does not fail the callers that joined it. A caller whose own ctx ends stops
// waiting and gets ctx.Err() while fn keeps running for the others.
func DoContext[T any](ctx context.Context, g *Guard, key string, fn func(ctx context.Context) (T, error)) (result T, shared bool, err error) {
	detached := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return result, false, ctx.Err()
	case res := <-ch:
		if res.Val != nil {
			result, _ = res.Val.(T)
		}
		return result, res.Shared, res.Err
	}
}
