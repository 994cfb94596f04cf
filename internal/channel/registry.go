package channel

import (
	"sync"

	"github.com/atomicstack/gridscope/internal/logging/events"
	"github.com/atomicstack/gridscope/internal/route"
)

// TransportFactory builds the transport backing a named channel. The main
// context supplies a listening factory, pop-outs a dialing one.
type TransportFactory func(name string) (Transport, error)

// Registry owns the channels of one browsing context.
type Registry struct {
	factory TransportFactory
	replayN int

	mu       sync.Mutex
	role     route.Role
	roleSet  bool
	channels map[string]*Channel
}

// NewRegistry builds a registry. replayN <= 0 selects DefaultReplay.
func NewRegistry(factory TransportFactory, replayN int) *Registry {
	return &Registry{
		factory:  factory,
		replayN:  replayN,
		channels: make(map[string]*Channel),
	}
}

// SetRole fixes the registry's role. The first call wins; repeated
// initialization is a deliberate no-op because both the app shell and the
// panel host may race to declare the same role.
func (r *Registry) SetRole(role route.Role) route.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.roleSet {
		if r.role != role {
			events.Channel.RoleIgnored(role.String(), r.role.String())
		}
		return r.role
	}
	r.role = role
	r.roleSet = true
	return r.role
}

// Role returns the effective role (main until set otherwise).
func (r *Registry) Role() route.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.role
}

// Open returns the channel for panelID, creating it on first use. Calling
// Open twice for an already-open panel reuses the existing handle.
func (r *Registry) Open(panelID string) (*Channel, error) {
	r.mu.Lock()
	if ch, ok := r.channels[panelID]; ok {
		r.mu.Unlock()
		events.Channel.Reused(Name(panelID))
		return ch, nil
	}
	r.mu.Unlock()

	transport, err := r.factory(Name(panelID))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.channels[panelID]; ok {
		// Lost the race to a concurrent Open; keep the first channel.
		transport.Close()
		return ch, nil
	}
	ch := newChannel(panelID, transport, r.replayN)
	r.channels[panelID] = ch
	events.Channel.Opened(ch.Name())
	return ch, nil
}

// Get returns an already-open channel.
func (r *Registry) Get(panelID string) (*Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[panelID]
	return ch, ok
}

// Close tears down one panel's channel.
func (r *Registry) Close(panelID string) {
	r.mu.Lock()
	ch, ok := r.channels[panelID]
	if ok {
		delete(r.channels, panelID)
	}
	r.mu.Unlock()
	if ok {
		ch.Close()
	}
}

// CloseAll tears down every channel.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	channels := make([]*Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		channels = append(channels, ch)
	}
	r.channels = make(map[string]*Channel)
	r.mu.Unlock()
	for _, ch := range channels {
		ch.Close()
	}
}
