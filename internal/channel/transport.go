package channel

import (
	"errors"
	"sync"
)

// ErrPeerGone indicates the other side of a transport has disappeared. Sends
// that fail this way are an expected race in a multi-context system and are
// swallowed by the channel layer.
var ErrPeerGone = errors.New("channel peer gone")

// Transport moves opaque frames between exactly two contexts, preserving FIFO
// order in each direction. Implementations must tolerate the peer vanishing
// at any moment.
type Transport interface {
	Send(frame []byte) error
	Receive() <-chan []byte
	Close() error
}

// memTransport is one end of an in-process pair. It backs same-process panels
// and every transport-independent test.
type memTransport struct {
	mu     sync.Mutex
	peer   *memTransport
	inbox  chan []byte
	closed bool
}

// NewMemoryPair returns two connected transports. Frames sent on one arrive
// on the other in order.
func NewMemoryPair() (Transport, Transport) {
	a := &memTransport{inbox: make(chan []byte, 64)}
	b := &memTransport{inbox: make(chan []byte, 64)}
	a.peer = b
	b.peer = a
	return a, b
}

func (t *memTransport) Send(frame []byte) error {
	t.mu.Lock()
	peer := t.peer
	closed := t.closed
	t.mu.Unlock()
	if closed || peer == nil {
		return ErrPeerGone
	}
	peer.mu.Lock()
	defer peer.mu.Unlock()
	if peer.closed {
		return ErrPeerGone
	}
	dup := make([]byte, len(frame))
	copy(dup, frame)
	select {
	case peer.inbox <- dup:
		return nil
	default:
		return ErrPeerGone
	}
}

func (t *memTransport) Receive() <-chan []byte {
	return t.inbox
}

func (t *memTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.inbox)
	return nil
}
