package channel

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Socket transports carry newline-delimited JSON frames over a unix domain
// socket, one socket per panel channel. The main context listens; the pop-out
// process dials. Either side may vanish at any time, which surfaces as
// ErrPeerGone on Send and is swallowed upstream.

const dialRetryInterval = 50 * time.Millisecond

// SocketPath derives the socket file for a channel name inside dir.
func SocketPath(dir, name string) string {
	return filepath.Join(dir, name+".sock")
}

type socketTransport struct {
	mu       sync.Mutex
	conn     net.Conn
	listener net.Listener
	inbox    chan []byte
	closed   bool
}

// ListenSocket opens the listening end of a channel socket. The returned
// transport accepts a single peer; frames sent before the peer connects fail
// with ErrPeerGone, which the envelope protocol tolerates by design (the
// pop-out announces itself with PANEL_READY once connected).
func ListenSocket(path string) (Transport, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// A stale socket from a previous run blocks the bind.
	_ = os.Remove(path)
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	t := &socketTransport{listener: listener, inbox: make(chan []byte, 64)}
	go t.acceptLoop()
	return t, nil
}

// DialSocket connects the pop-out end of a channel socket, retrying until the
// deadline so process start order does not matter.
func DialSocket(path string, timeout time.Duration) (Transport, error) {
	deadline := time.Now().Add(timeout)
	var conn net.Conn
	var err error
	for {
		conn, err = net.Dial("unix", path)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(dialRetryInterval)
	}
	t := &socketTransport{conn: conn, inbox: make(chan []byte, 64)}
	go t.readLoop(conn)
	return t, nil
}

func (t *socketTransport) acceptLoop() {
	conn, err := t.listener.Accept()
	if err != nil {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if !closed {
			t.Close()
		}
		return
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return
	}
	t.conn = conn
	t.mu.Unlock()
	t.readLoop(conn)
}

func (t *socketTransport) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		frame := make([]byte, len(line))
		copy(frame, line)
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return
		}
		select {
		case t.inbox <- frame:
		default:
			// Receiver is stalled; drop rather than block the wire.
		}
		t.mu.Unlock()
	}
	t.Close()
}

func (t *socketTransport) Send(frame []byte) error {
	t.mu.Lock()
	conn := t.conn
	closed := t.closed
	t.mu.Unlock()
	if closed || conn == nil {
		return ErrPeerGone
	}
	payload := make([]byte, 0, len(frame)+1)
	payload = append(payload, frame...)
	payload = append(payload, '\n')
	if _, err := conn.Write(payload); err != nil {
		return ErrPeerGone
	}
	return nil
}

func (t *socketTransport) Receive() <-chan []byte {
	return t.inbox
}

func (t *socketTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	listener := t.listener
	close(t.inbox)
	t.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	if listener != nil {
		listener.Close()
	}
	return nil
}
