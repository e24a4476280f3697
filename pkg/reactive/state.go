// Package reactive provides observable state cells and derived values for
// driving widget updates.
package reactive

import (
	"log/slog"
	"sync"

	"github.com/loomtui/loom/pkg/logging"
)

// panicLogger reports subscriber panics. One misbehaving subscriber must not
// take down the notifying Set call or starve later subscribers.
var panicLogger = logging.NewLogger("reactive", slog.LevelWarn)

// SetLogger replaces the logger used for subscriber panic reports. Call it
// once at startup, before cells are shared across goroutines.
func SetLogger(l *logging.Logger) {
	panicLogger = l
}

// Cell is the read side shared by State and Computed values. Only types in
// this package implement it.
type Cell interface {
	// subscribeInvalidate registers fn to run whenever the cell's value may
	// have changed, and returns a function that removes the registration.
	subscribeInvalidate(fn func()) func()
}

type stateSub[T any] struct {
	id    int
	fn    func(T)
	async bool
}

// State is an observable value. Set notifies subscribers only when the value
// actually changed, and bumps a version counter so callers can cheaply detect
// staleness.
type State[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	equals  func(a, b T) bool
	subs    []stateSub[T]
	nextID  int
}

// NewState creates a state cell using == for change detection.
func NewState[T comparable](initial T) *State[T] {
	return &State[T]{
		value:  initial,
		equals: func(a, b T) bool { return a == b },
	}
}

// NewStateWithEquals creates a state cell with a custom equality function.
// A nil equals means every Set counts as a change.
func NewStateWithEquals[T any](initial T, equals func(a, b T) bool) *State[T] {
	return &State[T]{value: initial, equals: equals}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Version returns how many times the value has changed.
func (s *State[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Set stores a new value. Setting an equal value is a no-op: no version bump,
// no notifications. Otherwise synchronous subscribers run in registration
// order on the calling goroutine, then async subscribers are started on their
// own goroutines.
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	if s.equals != nil && s.equals(s.value, value) {
		s.mu.Unlock()
		return
	}
	s.value = value
	s.version++
	subs := make([]stateSub[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	// The lock is released before calling out so subscribers can freely read
	// this cell or set others.
	for _, sub := range subs {
		if !sub.async {
			notifyState(sub.fn, value)
		}
	}
	for _, sub := range subs {
		if sub.async {
			go notifyState(sub.fn, value)
		}
	}
}

// Update applies fn to the current value and stores the result.
func (s *State[T]) Update(fn func(T) T) {
	s.Set(fn(s.Get()))
}

// Subscribe registers fn to run on the Set goroutine after each change.
// The returned function removes the subscription; calling it more than once
// is harmless.
func (s *State[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return s.subscribe(fn, false)
}

// SubscribeAsync registers fn to run on its own goroutine after each change.
// Use it for observers that do slow work and do not need ordering.
func (s *State[T]) SubscribeAsync(fn func(T)) (unsubscribe func()) {
	return s.subscribe(fn, true)
}

func (s *State[T]) subscribe(fn func(T), async bool) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, stateSub[T]{id: id, fn: fn, async: async})
	return func() { s.removeSub(id) }
}

func (s *State[T]) removeSub(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *State[T]) subscribeInvalidate(fn func()) func() {
	return s.subscribe(func(T) { fn() }, false)
}

func notifyState[T any](fn func(T), value T) {
	defer func() {
		if r := recover(); r != nil {
			panicLogger.SubscriberPanicked("state", r)
		}
	}()
	fn(value)
}

var _ Cell = (*State[int])(nil)
