// Package events provides a typed publish/subscribe channel. A Bus is
// created and owned by one view; components that need to hear about
// changes get it injected instead of reaching for a process-wide emitter.
package events

import (
	"sort"
	"sync"
)

// Bus delivers values of type T to its subscribers, synchronously and in
// subscription order.
type Bus[T any] struct {
	mu     sync.Mutex
	next   int
	subs   map[int]func(T)
	closed bool
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn and returns a function that removes it.
// Subscribing to a closed bus is a no-op.
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers v to every current subscriber. Handlers may subscribe,
// unsubscribe or publish again; they see the subscriber set as it was
// when Publish was called.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(T), len(ids))
	for i, id := range ids {
		handlers[i] = b.subs[id]
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(v)
	}
}

// Len returns the number of subscribers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close drops every subscriber; later publishes are ignored.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[int]func(T))
}
