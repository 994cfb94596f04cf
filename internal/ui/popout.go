package ui

import (
	"reflect"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/gridscope/internal/channel"
	"github.com/atomicstack/gridscope/internal/logging/events"
	"github.com/atomicstack/gridscope/internal/route"
	"github.com/atomicstack/gridscope/internal/selection"
	"github.com/atomicstack/gridscope/internal/ui/panel"
	uistate "github.com/atomicstack/gridscope/internal/ui/state"
	"github.com/atomicstack/gridscope/internal/vehicle"
)

// PopoutModel renders one panel in its own window. It holds no navigation
// capability at all: state arrives as replicated snapshots, and every
// interaction leaves as a request envelope for the main window to apply.
type PopoutModel struct {
	popout   route.Popout
	ch       *channel.Channel
	messages <-chan channel.Envelope
	updates  <-chan panel.Snapshot
	ingest   func(panel.Snapshot)
	sel      *selection.State[vehicle.Vehicle]

	snap        panel.Snapshot
	cursor      uistate.Cursor
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	quitting    bool

	handlers map[reflect.Type]msgHandler
}

// PopoutConfig wires a pop-out model.
type PopoutConfig struct {
	Popout  route.Popout
	Channel *channel.Channel
	Updates <-chan panel.Snapshot
	Ingest  func(panel.Snapshot)
	Width   int
	Height  int
}

// NewPopoutModel initialises a pop-out panel model.
func NewPopoutModel(cfg PopoutConfig) *PopoutModel {
	m := &PopoutModel{
		popout:   cfg.Popout,
		ch:       cfg.Channel,
		messages: cfg.Channel.Messages(),
		updates:  cfg.Updates,
		ingest:   cfg.Ingest,
		sel:      selection.New(vehicle.Vehicle.Key),
	}
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(envelopeMsg{}):       m.handleEnvelopeMsg,
		reflect.TypeOf(envelopeDoneMsg{}):   m.handleEnvelopeDoneMsg,
		reflect.TypeOf(snapshotMsg{}):       m.handleSnapshotMsg,
		reflect.TypeOf(snapshotDoneMsg{}):   m.handleSnapshotDoneMsg,
	}
	return m
}

// Init announces the panel and starts pumping events.
func (m *PopoutModel) Init() tea.Cmd {
	if env, err := channel.NewEnvelope(channel.TypePanelReady, channel.PanelReady{
		PanelID:   m.popout.PanelID,
		PanelType: m.popout.PanelType,
	}); err == nil {
		m.ch.Send(env)
	}
	return tea.Batch(
		waitForEnvelope(m.messages),
		waitForSnapshot(m.updates),
	)
}

// Update responds to Bubble Tea messages.
func (m *PopoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg == nil || m.handlers == nil {
		return m, nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return m, handler(msg)
	}
	return m, nil
}

// Snapshot exposes the replicated state, for tests.
func (m *PopoutModel) Snapshot() panel.Snapshot {
	return m.snap
}

func (m *PopoutModel) handleEnvelopeMsg(msg tea.Msg) tea.Cmd {
	envMsg, ok := msg.(envelopeMsg)
	if !ok {
		return nil
	}
	switch envMsg.env.Type {
	case channel.TypeStateUpdate:
		snap, err := channel.Decode[panel.Snapshot](envMsg.env)
		if err != nil {
			events.Channel.Malformed(m.ch.Name(), err)
			break
		}
		m.ingest(snap)
	case channel.TypeClosePopout:
		m.quitting = true
		return tea.Quit
	default:
		// Requests flow pop-out to main, never the other way.
		events.Channel.Ignored(m.ch.Name(), string(envMsg.env.Type))
	}
	return waitForEnvelope(m.messages)
}

func (m *PopoutModel) handleEnvelopeDoneMsg(tea.Msg) tea.Cmd {
	// Channel gone means the main window is gone; there is nothing left to
	// display.
	m.quitting = true
	return tea.Quit
}

func (m *PopoutModel) handleSnapshotMsg(msg tea.Msg) tea.Cmd {
	snapMsg, ok := msg.(snapshotMsg)
	if !ok {
		return nil
	}
	m.snap = snapMsg.snap
	m.sel.Hydrate(strings.Join(m.snap.Filters.Selected, ","))
	m.sel.ObservePage(m.snap.Results)
	m.cursor.Clamp(len(m.snap.Results))
	return waitForSnapshot(m.updates)
}

func (m *PopoutModel) handleSnapshotDoneMsg(tea.Msg) tea.Cmd {
	return nil
}

func (m *PopoutModel) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	return nil
}

func (m *PopoutModel) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		m.cursor.Move(-1, len(m.snap.Results))
	case "down", "j":
		m.cursor.Move(1, len(m.snap.Results))
	case " ", "x", "enter":
		if m.popout.PanelType == panel.TypeResults {
			if v, ok := m.cursorRow(); ok {
				m.request(channel.TypeClickRequest, channel.Click{Key: v.VIN})
			}
		}
	case "c":
		m.request(channel.TypeSelectionChangeRequest, channel.SelectionChange{})
	case "H":
		m.request(channel.TypeClearHighlightsRequest, nil)
	case "C":
		m.request(channel.TypeClearAllRequest, nil)
	}
	return nil
}

func (m *PopoutModel) cursorRow() (vehicle.Vehicle, bool) {
	if m.cursor.Pos < 0 || m.cursor.Pos >= len(m.snap.Results) {
		return vehicle.Vehicle{}, false
	}
	return m.snap.Results[m.cursor.Pos], true
}

func (m *PopoutModel) request(t channel.Type, payload interface{}) {
	env, err := channel.NewEnvelope(t, payload)
	if err != nil {
		return
	}
	m.ch.Send(env)
}

// View renders the single panel this window exists for.
func (m *PopoutModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.Badge.Render(m.popout.Path()))
	b.WriteByte('\n')
	cursor := -1
	if m.popout.PanelType == panel.TypeResults {
		cursor = m.cursor.Pos
	}
	b.WriteString(panel.Render(m.popout.PanelType, panel.Data{
		Snap:          m.snap,
		SelectedItems: m.sel.Items(),
		SelectedKeys:  m.sel.Keys(),
		Cursor:        cursor,
		Width:         m.width,
	}))
	b.WriteByte('\n')
	b.WriteString(styles.Footer.Render("space select  c clear selection  H clear highlights  C reset  q close"))
	return b.String()
}
