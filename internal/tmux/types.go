package tmux

import (
	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// tmuxClient is the slice of the control-mode client the host needs. Kept
// narrow so tests can substitute a fake via newTmux.
type tmuxClient interface {
	Command(args ...string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}
