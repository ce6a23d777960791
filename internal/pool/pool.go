package pool

import (
	"fmt"

	"go.uber.org/zap"
)

// Pool is a set of keyed free lists. Each key owns a factory used for
// preloading and for misses. Accessed only from the game loop goroutine.
type Pool[T comparable] struct {
	buckets map[string]*bucket[T]
	log     *zap.Logger
}

type bucket[T comparable] struct {
	newFn func() (T, error)
	free  []T
	out   map[T]struct{}
}

func New[T comparable](log *zap.Logger) *Pool[T] {
	return &Pool[T]{buckets: make(map[string]*bucket[T]), log: log}
}

// Init registers key with its factory and preloads count instances.
// Re-initializing an existing key is a no-op.
func (p *Pool[T]) Init(key string, newFn func() (T, error), count int) error {
	if key == "" || newFn == nil {
		return fmt.Errorf("pool init: missing key or factory")
	}
	if _, ok := p.buckets[key]; ok {
		return nil
	}
	b := &bucket[T]{newFn: newFn, out: make(map[T]struct{})}
	p.buckets[key] = b
	for i := 0; i < count; i++ {
		v, err := newFn()
		if err != nil {
			return fmt.Errorf("pool preload %s: %w", key, err)
		}
		b.free = append(b.free, v)
	}
	return nil
}

// Has reports whether key was initialized.
func (p *Pool[T]) Has(key string) bool {
	_, ok := p.buckets[key]
	return ok
}

// Get hands out an instance for key, reusing a free one when available.
func (p *Pool[T]) Get(key string) (T, bool) {
	var zero T
	b, ok := p.buckets[key]
	if !ok {
		p.log.Warn("pool not found", zap.String("key", key))
		return zero, false
	}
	var v T
	if n := len(b.free); n > 0 {
		v = b.free[n-1]
		b.free = b.free[:n-1]
	} else {
		var err error
		v, err = b.newFn()
		if err != nil {
			p.log.Warn("pool instantiate failed", zap.String("key", key), zap.Error(err))
			return zero, false
		}
	}
	b.out[v] = struct{}{}
	return v, true
}

// Put returns v to key's free list. Instances that were not handed out by
// key, or were already returned, are rejected so one instance can never be
// handed out twice.
func (p *Pool[T]) Put(key string, v T) bool {
	b, ok := p.buckets[key]
	if !ok {
		p.log.Warn("pool not found", zap.String("key", key))
		return false
	}
	if _, out := b.out[v]; !out {
		p.log.Debug("pool put ignored: not checked out", zap.String("key", key))
		return false
	}
	delete(b.out, v)
	b.free = append(b.free, v)
	return true
}

// Free returns the number of idle instances for key.
func (p *Pool[T]) Free(key string) int {
	if b, ok := p.buckets[key]; ok {
		return len(b.free)
	}
	return 0
}

// InUse returns the number of instances of key currently handed out.
func (p *Pool[T]) InUse(key string) int {
	if b, ok := p.buckets[key]; ok {
		return len(b.out)
	}
	return 0
}

// Clear drops every key and its instances.
func (p *Pool[T]) Clear() {
	p.buckets = make(map[string]*bucket[T])
}
