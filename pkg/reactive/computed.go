package reactive

import "sync"

type computedSub struct {
	id int
	fn func()
}

// Computed is a value derived from other cells. A dependency change only
// marks it dirty and notifies subscribers; the compute function runs lazily
// on the next Get, at most once per dirty period.
type Computed[T any] struct {
	mu      sync.Mutex
	compute func() T
	value   T
	dirty   bool
	subs    []computedSub
	nextID  int
	unsubs  []func()
}

// NewComputed creates a derived cell recomputed from the given dependencies.
// The compute function must not set cells it depends on.
func NewComputed[T any](compute func() T, deps ...Cell) *Computed[T] {
	c := &Computed[T]{
		compute: compute,
		dirty:   true,
	}
	for _, dep := range deps {
		c.unsubs = append(c.unsubs, dep.subscribeInvalidate(c.invalidate))
	}
	return c
}

// Get returns the current value, recomputing it first if a dependency has
// changed since the last Get.
func (c *Computed[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty {
		c.value = c.compute()
		c.dirty = false
	}
	return c.value
}

// Subscribe registers fn to run when the value goes stale. Subscribers call
// Get to read the fresh value; the notification itself carries none because
// nothing has been recomputed yet.
func (c *Computed[T]) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, computedSub{id: id, fn: fn})
	return func() { c.removeSub(id) }
}

func (c *Computed[T]) removeSub(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subs {
		if sub.id == id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Detach unsubscribes from all dependencies. The cell keeps its last value
// and stops going dirty. Call it when discarding a computed whose
// dependencies outlive it.
func (c *Computed[T]) Detach() {
	c.mu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

func (c *Computed[T]) invalidate() {
	c.mu.Lock()
	c.dirty = true
	subs := make([]computedSub, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		notifyComputed(sub.fn)
	}
}

func (c *Computed[T]) subscribeInvalidate(fn func()) func() {
	return c.Subscribe(fn)
}

func notifyComputed(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			panicLogger.SubscriberPanicked("computed", r)
		}
	}()
	fn()
}

var _ Cell = (*Computed[int])(nil)
