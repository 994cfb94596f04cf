package command

import (
	"github.com/atomicstack/gridscope/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates one state-changing action. Apply performs the write
// and reports whether anything actually changed.
type Request struct {
	Name  string
	Apply func() bool
}

// Result mirrors the applied request back into the update loop.
type Result struct {
	Name    string
	Changed bool
}

// Bus coordinates the execution of state-changing actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.Name)
	return func() tea.Msg {
		if req.Apply == nil {
			events.Command.Skip(req.Name)
			return nil
		}
		changed := req.Apply()
		events.Command.Applied(req.Name, changed)
		return Result{Name: req.Name, Changed: changed}
	}
}
