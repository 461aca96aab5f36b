// Package inflight collapses identical concurrent fetches of one entity into
// a single call.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/CrestNiraj12/feedmirror/equal"
)

type flight struct {
	key   string
	shape any
}

// Group tracks at most one outstanding fetch per entity. A fetch whose request
// shape is structurally equal to the outstanding one joins it instead of
// issuing a second call; a different shape starts a new call that races the
// old one.
type Group[T any] struct {
	mu       sync.Mutex
	sf       singleflight.Group
	inflight map[string]flight
	joins    atomic.Int64
}

// Do runs fn for entity unless an equal-shaped call is already outstanding,
// in which case it waits for that call's result. shared reports whether this
// call joined another caller's fetch. Cancelling ctx only stops this caller
// from waiting: fn runs with the values of the first caller's ctx but not its
// cancellation.
func (g *Group[T]) Do(ctx context.Context, entity string, shape any, fn func(context.Context) (T, error)) (v T, shared bool, err error) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]flight)
	}
	f, ok := g.inflight[entity]
	joined := ok && equal.Equal(f.shape, shape)
	if !joined {
		f = flight{key: entity + "/" + uuid.NewString(), shape: shape}
		g.inflight[entity] = f
	}
	// DoChan is registered under mu so a joiner can never miss a flight that
	// is still recorded as outstanding. The fetch outlives the caller that
	// started it; each caller stops waiting on its own ctx.
	fetchCtx := context.WithoutCancel(ctx)
	ch := g.sf.DoChan(f.key, func() (any, error) {
		defer g.forget(entity, f.key)
		return fn(fetchCtx)
	})
	if joined {
		g.joins.Add(1)
	}
	g.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return v, joined, res.Err
		}
		return res.Val.(T), joined, nil
	case <-ctx.Done():
		return v, joined, ctx.Err()
	}
}

// Joins returns how many calls were served by another caller's fetch.
func (g *Group[T]) Joins() int64 {
	return g.joins.Load()
}

// Outstanding reports whether a fetch for entity is in flight.
func (g *Group[T]) Outstanding(entity string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[entity]
	return ok
}

func (g *Group[T]) forget(entity, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f, ok := g.inflight[entity]; ok && f.key == key {
		delete(g.inflight, entity)
	}
}
