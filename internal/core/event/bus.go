package event

import (
	"reflect"
	"sync"
)

// maxDrainRounds bounds Drain when handlers keep emitting follow-up events.
const maxDrainRounds = 8

type queued struct {
	t  reflect.Type
	ev any
}

// Bus is a double-buffered event queue. Events emitted while a frame is in
// progress land in the back buffer and are delivered, in emission order,
// when the owner calls Drain after the frame's traversal completes.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []queued
	back     []queued
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]queued, 0, 16),
		back:     make([]queued, 0, 16),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.back = append(b.back, queued{t: t, ev: event})
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Pending returns the number of queued, undelivered events.
func (b *Bus) Pending() int { return len(b.back) }

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for _, q := range b.front {
		for _, h := range b.handlers[q.t] {
			callHandler(h, q.ev)
		}
	}
	b.front = b.front[:0]
}

// Drain delivers everything queued so far, including events emitted by
// handlers during delivery, up to maxDrainRounds rounds. It returns the
// number of events delivered.
func (b *Bus) Drain() int {
	n := 0
	for round := 0; round < maxDrainRounds && len(b.back) > 0; round++ {
		b.SwapBuffers()
		n += len(b.front)
		b.DispatchAll()
	}
	return n
}

// Reset drops all queued events without delivering them.
func (b *Bus) Reset() {
	b.front = b.front[:0]
	b.back = b.back[:0]
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
