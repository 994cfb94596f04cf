package ui

import (
	"github.com/atomicstack/gridscope/internal/channel"
	"github.com/atomicstack/gridscope/internal/lifecycle"
	"github.com/atomicstack/gridscope/internal/ui/panel"
	tea "github.com/charmbracelet/bubbletea"
)

// The engine runs on goroutines; these commands re-enter its events into the
// Bubble Tea loop one message at a time, re-arming themselves after each.

type snapshotMsg struct {
	snap panel.Snapshot
}

type snapshotDoneMsg struct{}

func waitForSnapshot(updates <-chan panel.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return snapshotDoneMsg{}
		}
		return snapshotMsg{snap: snap}
	}
}

type lifecycleMsg struct {
	event lifecycle.Event
}

type lifecycleDoneMsg struct{}

func waitForLifecycleEvent(events <-chan lifecycle.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return lifecycleDoneMsg{}
		}
		return lifecycleMsg{event: ev}
	}
}

type envelopeMsg struct {
	env channel.Envelope
}

type envelopeDoneMsg struct{}

func waitForEnvelope(messages <-chan channel.Envelope) tea.Cmd {
	return func() tea.Msg {
		env, ok := <-messages
		if !ok {
			return envelopeDoneMsg{}
		}
		return envelopeMsg{env: env}
	}
}
