// Package channel gives every logical panel its own duplex message channel
// between the main context and its pop-out. Envelopes are self-describing
// JSON; a bounded replay buffer smooths over the race between channel
// creation and subscriber attachment inside a freshly mounted pop-out.
package channel

import (
	"encoding/json"
	"sync"

	"github.com/atomicstack/gridscope/internal/logging/events"
)

// DefaultReplay is the number of already-received envelopes handed to a late
// subscriber. Component mount order inside a pop-out is not synchronized with
// channel creation; without replay a handshake sent immediately after the
// channel opens can be lost. The right value depends on subscriber-attach
// latency, so it stays configurable.
const DefaultReplay = 10

// Name derives the deterministic channel name for a panel.
func Name(panelID string) string {
	return "panel-" + panelID
}

// Channel is one end of a panel's duplex link.
type Channel struct {
	name      string
	panelID   string
	transport Transport
	replayN   int

	mu     sync.Mutex
	replay []Envelope
	subs   []chan Envelope
	closed bool
}

func newChannel(panelID string, transport Transport, replayN int) *Channel {
	if replayN <= 0 {
		replayN = DefaultReplay
	}
	ch := &Channel{
		name:      Name(panelID),
		panelID:   panelID,
		transport: transport,
		replayN:   replayN,
	}
	go ch.readLoop()
	return ch
}

// PanelID returns the panel this channel belongs to.
func (c *Channel) PanelID() string { return c.panelID }

// Name returns the deterministic channel name.
func (c *Channel) Name() string { return c.name }

// Send transmits an envelope, fire-and-forget. A vanished peer is an expected
// race, not an error; the failure is traced and swallowed.
func (c *Channel) Send(env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		events.Channel.SendFailed(c.name, string(env.Type), err)
		return
	}
	if err := c.transport.Send(frame); err != nil {
		events.Channel.SendFailed(c.name, string(env.Type), err)
	}
}

// Messages returns a stream of every envelope received on this channel, after
// first replaying the last envelopes that arrived before the subscriber
// attached.
func (c *Channel) Messages() <-chan Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := len(c.replay) + 64
	sub := make(chan Envelope, buf)
	for _, env := range c.replay {
		sub <- env
	}
	if len(c.replay) > 0 {
		events.Channel.Replayed(c.name, len(c.replay))
	}
	if c.closed {
		close(sub)
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Close tears the channel down exactly once.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	c.transport.Close()
	for _, sub := range subs {
		close(sub)
	}
	events.Channel.Closed(c.name)
}

func (c *Channel) readLoop() {
	for frame := range c.transport.Receive() {
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			events.Channel.Malformed(c.name, err)
			continue
		}
		c.deliver(env)
	}
	c.Close()
}

func (c *Channel) deliver(env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.replay = append(c.replay, env)
	if len(c.replay) > c.replayN {
		c.replay = c.replay[len(c.replay)-c.replayN:]
	}
	for _, sub := range c.subs {
		select {
		case sub <- env:
		default:
			// Stalled subscriber: drop its oldest queued envelope so
			// the newest state still lands. Snapshots are complete by
			// contract, so skipped intermediates are harmless.
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- env:
			default:
			}
		}
	}
}
