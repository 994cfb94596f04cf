package nav

import (
	"errors"
	"sync"
)

// ErrNavigationRejected is returned by a Location that refuses to commit a
// navigation. Callers treat it as non-fatal; state is left unchanged.
var ErrNavigationRejected = errors.New("navigation rejected")

// Location abstracts the host's address state. The bridge is its only writer.
type Location interface {
	// Current returns the committed query state.
	Current() Params
	// Navigate commits the supplied state. replace indicates the history
	// entry should be replaced rather than pushed, for hosts that track
	// history. A non-nil error leaves the committed state untouched.
	Navigate(params Params, replace bool) error
}

// Guard inspects a proposed navigation and may veto it.
type Guard func(params Params, replace bool) error

// MemoryLocation is the in-process Location used by the main context. An
// optional guard lets the host veto navigations.
type MemoryLocation struct {
	mu     sync.Mutex
	params Params
	guard  Guard
}

// NewMemoryLocation returns an empty in-process location.
func NewMemoryLocation() *MemoryLocation {
	return &MemoryLocation{params: Params{}}
}

// SetGuard installs a navigation guard. A nil guard accepts everything.
func (l *MemoryLocation) SetGuard(guard Guard) {
	l.mu.Lock()
	l.guard = guard
	l.mu.Unlock()
}

func (l *MemoryLocation) Current() Params {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params.Clone()
}

func (l *MemoryLocation) Navigate(params Params, replace bool) error {
	l.mu.Lock()
	guard := l.guard
	l.mu.Unlock()
	if guard != nil {
		if err := guard(params, replace); err != nil {
			return err
		}
	}
	l.mu.Lock()
	l.params = params.Clone()
	l.mu.Unlock()
	return nil
}
