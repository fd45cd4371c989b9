package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus: events emitted during tick N are
// delivered in tick N+1, after SwapBuffers. Topics are delivered in the
// order their first handler subscribed. Events of a type nobody subscribes
// to are dropped on Emit.
type Bus struct {
	mu     sync.Mutex // guards registration only; emit and dispatch run on the tick goroutine
	topics map[reflect.Type]topic
	order  []topic
}

// topic is the type-erased view of a queue[T].
type topic interface {
	swap()
	dispatch() int
	pending() int
}

type queue[T any] struct {
	front, back []T
	handlers    []func(T)
}

func (q *queue[T]) swap() {
	clear(q.front)
	q.front, q.back = q.back, q.front[:0]
}

func (q *queue[T]) dispatch() int {
	for _, ev := range q.front {
		for _, h := range q.handlers {
			h(ev)
		}
	}
	return len(q.front)
}

func (q *queue[T]) pending() int { return len(q.back) }

func NewBus() *Bus {
	return &Bus{topics: make(map[reflect.Type]topic)}
}

func lookup[T any](b *Bus) *queue[T] {
	if t, ok := b.topics[reflect.TypeOf((*T)(nil)).Elem()]; ok {
		return t.(*queue[T])
	}
	return nil
}

// Emit queues event for delivery next tick.
func Emit[T any](b *Bus, event T) {
	if q := lookup[T](b); q != nil {
		q.back = append(q.back, event)
	}
}

// Subscribe adds a handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := lookup[T](b)
	if q == nil {
		q = &queue[T]{}
		b.topics[reflect.TypeOf((*T)(nil)).Elem()] = q
		b.order = append(b.order, q)
	}
	q.handlers = append(q.handlers, fn)
}

// SwapBuffers makes last tick's events deliverable and discards the ones
// already delivered. Called once at tick start.
func (b *Bus) SwapBuffers() {
	for _, t := range b.order {
		t.swap()
	}
}

// Pending returns the number of events queued for next tick.
func (b *Bus) Pending() int {
	n := 0
	for _, t := range b.order {
		n += t.pending()
	}
	return n
}

// DispatchAll delivers the current tick's events and returns how many
// were delivered.
func (b *Bus) DispatchAll() int {
	n := 0
	for _, t := range b.order {
		n += t.dispatch()
	}
	return n
}
