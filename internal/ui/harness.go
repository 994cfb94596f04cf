package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives a model programmatically for integration tests, executing
// returned commands synchronously so async engine events can be pumped
// deterministically.
type Harness struct {
	model tea.Model
}

// NewHarness wraps any tea.Model.
func NewHarness(model tea.Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands
// to completion.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	h.processCmd(cmd)
}

// Start runs Init and pumps its commands.
func (h *Harness) Start() {
	if h.model == nil {
		return
	}
	h.processCmd(h.model.Init())
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			h.processCmd(c)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}
	var next tea.Cmd
	h.model, next = h.model.Update(msg)
	h.processCmd(next)
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() tea.Model {
	return h.model
}
