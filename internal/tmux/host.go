// Package tmux opens and tracks the tmux windows that host pop-out panels.
// Each pop-out runs as its own process in its own window; this package is
// how the main process creates those windows and later notices they died.
package tmux

import (
	"fmt"
	"strings"
	"time"
)

// commandInterval paces commands to the tmux server. The watchdog polls every
// open window, so without pacing a large fleet turns into a busy loop against
// one tmux process.
const commandInterval = 20 * time.Millisecond

// Host wraps one tmux server connection.
type Host struct {
	socketPath string
	pacer      *throttle
}

// NewHost targets the tmux server on socketPath; empty means the default
// server.
func NewHost(socketPath string) *Host {
	return &Host{socketPath: socketPath, pacer: newThrottle(commandInterval)}
}

// WindowRef identifies a window the host created.
type WindowRef struct {
	ID   string
	Name string
	host *Host
}

// OpenWindow spawns a detached window named name running command, and
// returns a ref carrying the tmux window id.
func (h *Host) OpenWindow(name string, command []string) (WindowRef, error) {
	client, err := newTmux(h.socketPath)
	if err != nil {
		return WindowRef{}, err
	}
	defer client.Close()

	args := []string{"new-window", "-d", "-n", name, "-P", "-F", "#{window_id}"}
	args = append(args, shellJoin(command))
	h.pacer.wait()
	out, err := client.Command(args...)
	if err != nil {
		return WindowRef{}, fmt.Errorf("failed to open window %s: %w", name, err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		return WindowRef{}, fmt.Errorf("tmux returned no window id for %s", name)
	}
	return WindowRef{ID: id, Name: name, host: h}, nil
}

// ListWindowIDs returns every window id on the server.
func (h *Host) ListWindowIDs() ([]string, error) {
	client, err := newTmux(h.socketPath)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	h.pacer.wait()
	out, err := client.Command("list-windows", "-a", "-F", "#{window_id}")
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

// Alive reports whether the window still exists. An unreachable server
// counts as dead: either way the pop-out is gone.
func (w WindowRef) Alive() bool {
	if w.host == nil || w.ID == "" {
		return false
	}
	ids, err := w.host.ListWindowIDs()
	if err != nil {
		return false
	}
	for _, id := range ids {
		if id == w.ID {
			return true
		}
	}
	return false
}

// Kill destroys the window. Killing an already-dead window is not an error.
func (w WindowRef) Kill() error {
	if w.host == nil || w.ID == "" {
		return nil
	}
	client, err := newTmux(w.host.socketPath)
	if err != nil {
		return err
	}
	defer client.Close()

	w.host.pacer.wait()
	if _, err := client.Command("kill-window", "-t", w.ID); err != nil {
		if w.Alive() {
			return err
		}
	}
	return nil
}

// Select focuses the window.
func (w WindowRef) Select() error {
	if w.host == nil || w.ID == "" {
		return fmt.Errorf("no window to select")
	}
	client, err := newTmux(w.host.socketPath)
	if err != nil {
		return err
	}
	defer client.Close()

	w.host.pacer.wait()
	_, err = client.Command("select-window", "-t", w.ID)
	return err
}

// shellJoin quotes argv for tmux's single shell-command argument.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"'\\$&|;<>(){}*?#~`") {
			quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
