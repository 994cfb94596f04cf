// Package selection reconciles a persisted selection key set against
// partially loaded, paginated data. The key set is authoritative; row data is
// a best-effort cache refreshed opportunistically as pages load, which is
// what keeps off-page selections alive across pagination.
package selection

import (
	"sort"
	"strings"

	"github.com/atomicstack/gridscope/internal/logging/events"
)

// KeyFunc extracts the stable key of a row.
type KeyFunc[T any] func(T) string

// State tracks one context's selection.
type State[T any] struct {
	keyFn KeyFunc[T]

	keys    map[string]struct{}
	order   []string
	items   []T
	pending []string
	// lastSeenByKey caches the most recent copy of every row ever loaded,
	// selected or not. It deliberately survives deselection so re-selecting
	// needs no refetch.
	lastSeenByKey map[string]T
	page          []T
	pageLoaded    bool
}

// New builds an empty selection state.
func New[T any](keyFn KeyFunc[T]) *State[T] {
	return &State[T]{
		keyFn:         keyFn,
		keys:          make(map[string]struct{}),
		lastSeenByKey: make(map[string]T),
	}
}

// ParseKeys splits a serialized key set, accepting comma or pipe separators.
func ParseKeys(serialized string) []string {
	normalized := strings.ReplaceAll(serialized, "|", ",")
	var keys []string
	for _, part := range strings.Split(normalized, ",") {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// SerializeKeys renders a key set deterministically.
func SerializeKeys(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Hydrate replaces the selection with the keys in serialized and resolves
// them against the currently loaded page. Keys whose rows are not loaded stay
// selected regardless. When no data has arrived yet the keys are parked in
// the pending set and resolved by the first ObservePage call.
func (s *State[T]) Hydrate(serialized string) {
	keys := ParseKeys(serialized)
	s.keys = make(map[string]struct{}, len(keys))
	s.order = s.order[:0]
	for _, key := range keys {
		if _, ok := s.keys[key]; ok {
			continue
		}
		s.keys[key] = struct{}{}
		s.order = append(s.order, key)
	}
	if !s.pageLoaded {
		s.pending = append([]string(nil), s.order...)
		s.items = nil
		events.Selection.Hydrated(0, len(s.pending))
		return
	}
	s.pending = nil
	s.resolve()
	events.Selection.Hydrated(len(s.items), 0)
}

// ObservePage records a freshly loaded page. Every row refreshes the
// last-seen cache whether or not it is selected, and any pending hydration
// is resolved and cleared.
func (s *State[T]) ObservePage(rows []T) {
	s.page = rows
	s.pageLoaded = true
	for _, row := range rows {
		s.lastSeenByKey[s.keyFn(row)] = row
	}
	if len(s.pending) > 0 {
		s.pending = nil
	}
	s.resolve()
}

// Toggle flips one row's membership. The row's data lands in the cache
// either way.
func (s *State[T]) Toggle(row T) {
	key := s.keyFn(row)
	s.lastSeenByKey[key] = row
	if _, ok := s.keys[key]; ok {
		s.Deselect(key)
		return
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)
	s.resolve()
}

// Deselect removes one key from the selection and from pending hydration.
// The cache is left intact.
func (s *State[T]) Deselect(key string) {
	if _, ok := s.keys[key]; !ok {
		return
	}
	delete(s.keys, key)
	s.order = removeKey(s.order, key)
	s.pending = removeKey(s.pending, key)
	s.resolve()
}

// Clear empties the selection. The last-seen cache survives.
func (s *State[T]) Clear() {
	if len(s.keys) == 0 && len(s.pending) == 0 {
		return
	}
	s.keys = make(map[string]struct{})
	s.order = nil
	s.items = nil
	s.pending = nil
	events.Selection.Cleared()
}

// Selected reports membership for one key.
func (s *State[T]) Selected(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Keys returns the selection in insertion order.
func (s *State[T]) Keys() []string {
	return append([]string(nil), s.order...)
}

// Serialize renders the current key set for persistence in the URL.
func (s *State[T]) Serialize() string {
	return SerializeKeys(s.order)
}

// Items returns full row data for every resolvable key, preferring the
// current page's copy over the cache.
func (s *State[T]) Items() []T {
	return append([]T(nil), s.items...)
}

// Pending returns the keys awaiting first data.
func (s *State[T]) Pending() []string {
	return append([]string(nil), s.pending...)
}

func (s *State[T]) resolve() {
	byKey := make(map[string]T, len(s.page))
	for _, row := range s.page {
		byKey[s.keyFn(row)] = row
	}
	items := make([]T, 0, len(s.order))
	for _, key := range s.order {
		if row, ok := byKey[key]; ok {
			// Freshness priority: the loaded page wins over the cache.
			items = append(items, row)
			continue
		}
		if row, ok := s.lastSeenByKey[key]; ok {
			items = append(items, row)
		}
	}
	s.items = items
}

func removeKey(keys []string, key string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
