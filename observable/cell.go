// Package observable provides Cell, the reactive container that publishes
// feed and activity state to subscribers.
package observable

import (
	"sync"

	"github.com/CrestNiraj12/feedmirror/equal"
)

// Cell holds one value and notifies subscribers each time it is replaced.
//
// Writes are serialized and notifications are delivered one at a time, in
// write order, with no lock held. A write made while another write is still
// notifying, from a subscriber or another goroutine, queues its notification
// behind the current one and returns; the notifying writer delivers it.
// Otherwise subscribers have run by the time the write returns.
type Cell[T any] struct {
	write sync.Mutex // serializes read-modify-write

	mu       sync.Mutex
	val      T
	subs     map[int]func(next, prev T)
	seq      int
	queue    []func()
	draining bool
}

// New creates a cell holding initial.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{val: initial, subs: make(map[int]func(next, prev T))}
}

// Get returns the latest value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

// Next replaces the value and notifies subscribers.
func (c *Cell[T]) Next(v T) {
	c.Update(func(T) (T, bool) { return v, true })
}

// Update computes the next value from the current one. fn runs while other
// writes are held off, so the read-modify-write is atomic for observers; fn
// itself must not write to the cell. Returning changed=false skips the write
// and all notifications.
func (c *Cell[T]) Update(fn func(current T) (next T, changed bool)) bool {
	c.write.Lock()
	prev := c.Get()
	next, changed := fn(prev)
	if !changed {
		c.write.Unlock()
		return false
	}

	c.mu.Lock()
	c.val = next
	ids := make([]int, 0, len(c.subs))
	for i := 0; i < c.seq; i++ {
		if _, ok := c.subs[i]; ok {
			ids = append(ids, i)
		}
	}
	drain := c.enqueue(func() {
		for _, id := range ids {
			if fn := c.subscriber(id); fn != nil {
				fn(next, prev)
			}
		}
	})
	c.mu.Unlock()
	c.write.Unlock()

	if drain {
		c.drain()
	}
	return true
}

// enqueue adds a notification and reports whether the caller must drain the
// queue. c.mu must be held.
func (c *Cell[T]) enqueue(job func()) bool {
	c.queue = append(c.queue, job)
	if c.draining {
		return false
	}
	c.draining = true
	return true
}

func (c *Cell[T]) drain() {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		job := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.mu.Unlock()

		job()
	}
}

func (c *Cell[T]) subscriber(id int) func(next, prev T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subs[id]
}

// Subscribe registers fn for every later write. The returned func removes it;
// notifications still queued for fn are dropped.
func (c *Cell[T]) Subscribe(fn func(next, prev T)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.add(fn)
	c.mu.Unlock()
	return c.remover(id)
}

// add registers fn. c.mu must be held.
func (c *Cell[T]) add(fn func(next, prev T)) int {
	id := c.seq
	c.seq++
	c.subs[id] = fn
	return id
}

func (c *Cell[T]) remover(id int) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// SubscribeWithSelector calls fn with selector(current) and then only when a
// write changes the selected slice. The first call is queued like a write, so
// it comes before any later change and runs right away unless the cell is
// busy notifying.
func SubscribeWithSelector[T, S any](c *Cell[T], selector func(T) S, fn func(next, prev S)) (unsubscribe func()) {
	var last S
	onChange := func(next, _ T) {
		selected := selector(next)
		if equal.Equal(selected, last) {
			return
		}
		prev := last
		last = selected
		fn(selected, prev)
	}

	c.mu.Lock()
	current := c.val
	id := c.add(onChange)
	drain := c.enqueue(func() {
		if c.subscriber(id) == nil {
			return
		}
		last = selector(current)
		var zero S
		fn(last, zero)
	})
	c.mu.Unlock()

	if drain {
		c.drain()
	}
	return c.remover(id)
}
