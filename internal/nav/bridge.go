package nav

import (
	"sync"

	"github.com/atomicstack/gridscope/internal/logging/events"
)

// Bridge owns the navigable query state. It is the only component allowed to
// cause a navigation; everything else reads, watches, or asks the bridge to
// merge. Construct one per browsing context and pass it by reference — there
// is deliberately no package-level instance.
type Bridge struct {
	location Location

	mu       sync.Mutex
	last     Params
	hasLast  bool
	watchers []chan Params
	closed   bool
}

// NewBridge wraps the supplied location.
func NewBridge(location Location) *Bridge {
	return &Bridge{
		location: location,
		last:     location.Current(),
		hasLast:  true,
	}
}

// Read returns the current committed params.
func (b *Bridge) Read() Params {
	return b.location.Current()
}

// Merge shallow-merges partial onto the current params and navigates. A nil
// value deletes its key. The return value reports whether the host accepted
// the navigation; a rejection leaves state untouched and never panics.
func (b *Bridge) Merge(partial map[string]*string, replace bool) bool {
	next := b.location.Current()
	for k, v := range partial {
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = *v
	}
	return b.commit(next, replace)
}

// Clear removes every parameter.
func (b *Bridge) Clear(replace bool) bool {
	return b.commit(Params{}, replace)
}

func (b *Bridge) commit(next Params, replace bool) bool {
	if err := b.location.Navigate(next, replace); err != nil {
		events.Nav.Rejected(next.Encode(), err)
		return false
	}
	events.Nav.Committed(next.Encode(), replace)
	b.publish(next)
	return true
}

// Watch returns a stream that re-emits the committed params after every
// navigation. Duplicate emissions are suppressed by content equality, not by
// comparing serialized strings: two encodings of the same map must coalesce
// and two different maps must never be conflated by a lossy join.
func (b *Bridge) Watch() <-chan Params {
	ch := make(chan Params, 8)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	// Seed with the current value so late subscribers converge immediately.
	// Seeding and registration share the critical section: emissions on a
	// watch stream are ordered, the seed included.
	ch <- b.location.Current()
	b.watchers = append(b.watchers, ch)
	b.mu.Unlock()
	return ch
}

// Close tears down all watch streams.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.watchers {
		close(ch)
	}
	b.watchers = nil
}

func (b *Bridge) publish(next Params) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if b.hasLast && b.last.Equal(next) {
		return
	}
	b.last = next.Clone()
	b.hasLast = true
	for _, ch := range b.watchers {
		select {
		case ch <- next.Clone():
		default:
			// A stalled watcher drops intermediate values; it will
			// observe the latest state on its next receive because
			// every emission is the complete params map.
			drain(ch)
			ch <- next.Clone()
		}
	}
}

func drain(ch chan Params) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
