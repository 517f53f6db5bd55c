// Package dedupe tracks request ids so retried submissions are applied once.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 50000

// Deduper remembers which request ids were already applied and what they
// produced.
type Deduper interface {
	// Remember atomically looks up key. If key was seen it returns the stored
	// value and true. Otherwise it stores value and returns "", false.
	Remember(ctx context.Context, key, value string) (string, bool)

	// Forget removes key so a failed request can be retried.
	Forget(ctx context.Context, key string)

	// Size returns the number of remembered keys.
	Size() int64
}

// inMemoryDeduper keeps keys in a map and evicts in insertion order.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]string
	order   []string // insertion order; forgotten keys are removed
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]string)
	return d
}

func (d *inMemoryDeduper) Remember(_ context.Context, key, value string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.seen[key]; ok {
		return prev, true
	}
	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize && len(d.order) > 0 {
			oldest := d.order[0]
			d.order = d.order[1:]
			delete(d.seen, oldest)
		}
		d.order = append(d.order, key)
	}
	d.seen[key] = value
	return "", false
}

func (d *inMemoryDeduper) Forget(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
