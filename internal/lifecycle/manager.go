// Package lifecycle owns the pop-out panel fleet: opening tmux windows,
// wiring their channels, broadcasting state, and noticing when a window
// dies without saying goodbye.
package lifecycle

import (
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/gridscope/internal/channel"
	"github.com/atomicstack/gridscope/internal/logging"
	"github.com/atomicstack/gridscope/internal/logging/events"
	"github.com/atomicstack/gridscope/internal/route"
)

// DefaultWatchdogInterval is how often each pop-out window is polled for
// liveness. Closure detection latency is bounded by one interval.
const DefaultWatchdogInterval = 500 * time.Millisecond

// Window is the liveness surface of one hosted pop-out window.
type Window interface {
	Alive() bool
	Kill() error
	Select() error
}

// Host opens pop-out windows.
type Host interface {
	Open(p route.Popout) (Window, error)
}

// EventKind classifies manager events.
type EventKind int

const (
	// EventPanelReady fires when a pop-out announces it mounted.
	EventPanelReady EventKind = iota
	// EventPanelClosed fires when the watchdog finds a window dead or a
	// panel is closed explicitly.
	EventPanelClosed
	// EventRequest carries a request envelope from a pop-out.
	EventRequest
)

// Event is delivered on Events() for every notable panel transition.
type Event struct {
	Kind    EventKind
	PanelID string
	Env     channel.Envelope
}

type panelEntry struct {
	popout route.Popout
	window Window
	ch     *channel.Channel
	stop   chan struct{}
}

// Manager tracks every open pop-out panel in the main context.
type Manager struct {
	host     Host
	registry *channel.Registry
	interval time.Duration

	mu     sync.Mutex
	panels map[string]*panelEntry
	events chan Event
	closed bool
}

// NewManager builds a manager polling at interval; zero means the default.
func NewManager(host Host, registry *channel.Registry, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultWatchdogInterval
	}
	return &Manager{
		host:     host,
		registry: registry,
		interval: interval,
		panels:   make(map[string]*panelEntry),
		events:   make(chan Event, 64),
	}
}

// Events streams panel transitions and forwarded pop-out requests.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Open returns the open panel IDs.
func (m *Manager) Open() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.panels))
	for id := range m.panels {
		ids = append(ids, id)
	}
	return ids
}

// IsOpen reports whether panelID currently has a live panel.
func (m *Manager) IsOpen(panelID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.panels[panelID]
	return ok
}

// OpenPanel opens a pop-out window for p, or focuses the existing one.
// Opening is idempotent per panel ID. The returned error is non-nil when
// the host refuses to open a window, which callers surface as a warning
// rather than a fatal condition.
func (m *Manager) OpenPanel(p route.Popout) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("manager is shut down")
	}
	if entry, ok := m.panels[p.PanelID]; ok {
		m.mu.Unlock()
		events.Panel.AlreadyOpen(p.PanelID)
		return entry.window.Select()
	}
	m.mu.Unlock()

	ch, err := m.registry.Open(p.PanelID)
	if err != nil {
		return fmt.Errorf("open channel for %s: %w", p.PanelID, err)
	}

	window, err := m.host.Open(p)
	if err != nil {
		m.registry.Close(p.PanelID)
		events.Panel.OpenBlocked(p.PanelID, err)
		return fmt.Errorf("open window for %s: %w", p.PanelID, err)
	}

	entry := &panelEntry{popout: p, window: window, ch: ch, stop: make(chan struct{})}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		window.Kill()
		m.registry.Close(p.PanelID)
		return fmt.Errorf("manager is shut down")
	}
	m.panels[p.PanelID] = entry
	m.mu.Unlock()

	events.Panel.Opened(p.PanelID, p.PanelType, p.Path())
	go m.forward(entry)
	go m.watch(entry)
	return nil
}

// Broadcast sends one snapshot envelope to every open panel. The payload is
// always a complete snapshot; pop-outs replace their state wholesale.
func (m *Manager) Broadcast(snapshot interface{}) {
	env, err := channel.NewEnvelope(channel.TypeStateUpdate, snapshot)
	if err != nil {
		logging.Error(fmt.Errorf("broadcast encode failed: %w", err))
		return
	}
	m.mu.Lock()
	entries := make([]*panelEntry, 0, len(m.panels))
	for _, e := range m.panels {
		entries = append(entries, e)
	}
	m.mu.Unlock()
	for _, e := range entries {
		e.ch.Send(env)
	}
	events.Panel.Broadcast(len(entries), string(channel.TypeStateUpdate))
}

// ClosePanel tears one panel down: close request over the channel, then the
// window, then the channel itself.
func (m *Manager) ClosePanel(panelID string) {
	m.mu.Lock()
	entry, ok := m.panels[panelID]
	if ok {
		delete(m.panels, panelID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	m.teardown(entry, true)
	m.emit(Event{Kind: EventPanelClosed, PanelID: panelID})
}

// Shutdown closes every panel and stops the event stream. Pop-outs are told
// to exit before their windows are killed, so a well-behaved pop-out quits
// on its own.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	entries := make([]*panelEntry, 0, len(m.panels))
	for _, e := range m.panels {
		entries = append(entries, e)
	}
	m.panels = make(map[string]*panelEntry)
	m.mu.Unlock()

	for _, e := range entries {
		m.teardown(e, true)
	}
	events.Panel.Teardown(len(entries))
	m.mu.Lock()
	close(m.events)
	m.mu.Unlock()
}

func (m *Manager) teardown(entry *panelEntry, tellPopout bool) {
	close(entry.stop)
	if tellPopout {
		if env, err := channel.NewEnvelope(channel.TypeClosePopout, nil); err == nil {
			entry.ch.Send(env)
		}
	}
	entry.window.Kill()
	m.registry.Close(entry.popout.PanelID)
}

// forward relays request envelopes from the pop-out to the event stream.
// State updates flowing the other way never appear here.
func (m *Manager) forward(entry *panelEntry) {
	for env := range entry.ch.Messages() {
		switch {
		case env.Type == channel.TypePanelReady:
			events.Panel.Ready(entry.popout.PanelID, entry.popout.PanelType)
			m.emit(Event{Kind: EventPanelReady, PanelID: entry.popout.PanelID, Env: env})
		case env.Type.Request():
			m.emit(Event{Kind: EventRequest, PanelID: entry.popout.PanelID, Env: env})
		}
	}
}

// watch polls the window until it dies or the panel is torn down. A dead
// window is the only closure signal there is; pop-outs cannot be trusted to
// announce their own demise.
func (m *Manager) watch(entry *panelEntry) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-entry.stop:
			return
		case <-ticker.C:
			if entry.window.Alive() {
				continue
			}
			events.Panel.ClosureDetected(entry.popout.PanelID)
			m.mu.Lock()
			current, ok := m.panels[entry.popout.PanelID]
			if ok && current == entry {
				delete(m.panels, entry.popout.PanelID)
			}
			m.mu.Unlock()
			if ok && current == entry {
				m.teardown(entry, false)
				m.emit(Event{Kind: EventPanelClosed, PanelID: entry.popout.PanelID})
			}
			return
		}
	}
}

func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.events <- ev:
	default:
	}
}
