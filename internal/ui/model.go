package ui

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/gridscope/internal/intent"
	"github.com/atomicstack/gridscope/internal/lifecycle"
	"github.com/atomicstack/gridscope/internal/nav"
	"github.com/atomicstack/gridscope/internal/route"
	"github.com/atomicstack/gridscope/internal/selection"
	"github.com/atomicstack/gridscope/internal/theme"
	"github.com/atomicstack/gridscope/internal/ui/command"
	"github.com/atomicstack/gridscope/internal/ui/panel"
	uistate "github.com/atomicstack/gridscope/internal/ui/state"
	"github.com/atomicstack/gridscope/internal/vehicle"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// focusArea names which input owns keystrokes.
type focusArea int

const (
	focusRows focusArea = iota
	focusSearch
	focusJump
)

// Model is the Bubble Tea model for the main grid window. It is the only
// model in the system that writes navigation state; every mutation funnels
// through the bridge and comes back as a derived snapshot.
type Model struct {
	bridge     *nav.Bridge
	updates    <-chan panel.Snapshot
	lifecycles <-chan lifecycle.Event
	manager    *lifecycle.Manager
	dispatcher *intent.Dispatcher
	bus        *command.Bus
	sel        *selection.State[vehicle.Vehicle]
	gridID     string

	snap        panel.Snapshot
	cursor      uistate.Cursor
	search      textinput.Model
	jump        textinput.Model
	focus       focusArea
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	errMsg      string
	infoMsg     string
	verbose     bool
	quitting    bool

	handlers map[reflect.Type]msgHandler
}

// MainConfig wires a main-window model.
type MainConfig struct {
	Bridge     *nav.Bridge
	Updates    <-chan panel.Snapshot
	Manager    *lifecycle.Manager
	Dispatcher *intent.Dispatcher
	GridID     string
	Width      int
	Height     int
	Verbose    bool
}

// NewModel initialises the main grid model.
func NewModel(cfg MainConfig) *Model {
	search := textinput.New()
	search.Placeholder = "search vehicles"
	search.Prompt = "/"
	search.CharLimit = 120
	jump := textinput.New()
	jump.Placeholder = "jump to row"
	jump.Prompt = ">"
	jump.CharLimit = 60

	m := &Model{
		bridge:     cfg.Bridge,
		updates:    cfg.Updates,
		lifecycles: cfg.Manager.Events(),
		manager:    cfg.Manager,
		dispatcher: cfg.Dispatcher,
		bus:        command.New(),
		sel:        selection.New(vehicle.Vehicle.Key),
		gridID:     cfg.GridID,
		search:     search,
		jump:       jump,
		verbose:    cfg.Verbose,
	}
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		waitForSnapshot(m.updates),
		waitForLifecycleEvent(m.lifecycles),
	)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(snapshotMsg{}):       m.handleSnapshotMsg,
		reflect.TypeOf(snapshotDoneMsg{}):   m.handleSnapshotDoneMsg,
		reflect.TypeOf(lifecycleMsg{}):      m.handleLifecycleMsg,
		reflect.TypeOf(lifecycleDoneMsg{}):  m.handleLifecycleDoneMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// Snapshot exposes the current derived state, for tests and the app shell.
func (m *Model) Snapshot() panel.Snapshot {
	return m.snap
}

// SelectedKeys exposes the hydrated selection keys.
func (m *Model) SelectedKeys() []string {
	return m.sel.Keys()
}

func (m *Model) handleSnapshotMsg(msg tea.Msg) tea.Cmd {
	snapMsg, ok := msg.(snapshotMsg)
	if !ok {
		return nil
	}
	m.snap = snapMsg.snap
	m.sel.Hydrate(strings.Join(m.snap.Filters.Selected, ","))
	m.sel.ObservePage(m.snap.Results)
	m.cursor.Clamp(len(panel.VisibleRows(m.panelData())))
	// Only resolved snapshots replicate. A loading intermediate carries the
	// new filters over the old results; pop-outs wait for the commit.
	if !m.snap.Loading {
		m.manager.Broadcast(m.snap)
	}
	return waitForSnapshot(m.updates)
}

func (m *Model) handleSnapshotDoneMsg(tea.Msg) tea.Cmd {
	return nil
}

func (m *Model) handleLifecycleMsg(msg tea.Msg) tea.Cmd {
	lcMsg, ok := msg.(lifecycleMsg)
	if !ok {
		return nil
	}
	switch lcMsg.event.Kind {
	case lifecycle.EventRequest:
		res := m.dispatcher.Handle(lcMsg.event.Env)
		if res.Handled && !res.Changed {
			m.setInfo("request from " + lcMsg.event.PanelID + " changed nothing")
		}
	case lifecycle.EventPanelReady:
		// A freshly mounted pop-out gets the current state immediately
		// instead of waiting for the next change. Mid-fetch there is no
		// resolved state to hand over; the commit broadcast covers it.
		if !m.snap.Loading {
			m.manager.Broadcast(m.snap)
		}
	case lifecycle.EventPanelClosed:
		m.setInfo("panel " + lcMsg.event.PanelID + " closed")
	}
	return waitForLifecycleEvent(m.lifecycles)
}

func (m *Model) handleLifecycleDoneMsg(tea.Msg) tea.Cmd {
	return nil
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if !res.Changed {
		m.setInfo(res.Name + ": no change")
		return nil
	}
	if m.verbose {
		m.setInfo(res.Name)
	} else {
		m.infoMsg = ""
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
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

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(key)
	case focusJump:
		return m.handleJumpKey(key)
	}
	return m.handleRowsKey(key)
}

func (m *Model) handleRowsKey(key tea.KeyMsg) tea.Cmd {
	rows := panel.VisibleRows(m.panelData())
	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		m.cursor.Move(-1, len(rows))
	case "down", "j":
		m.cursor.Move(1, len(rows))
	case "g", "home":
		m.cursor.Home(len(rows))
	case "G", "end":
		m.cursor.End(len(rows))
	case "left", "p":
		return m.gotoPage(m.snap.Filters.Page - 1)
	case "right", "n":
		return m.gotoPage(m.snap.Filters.Page + 1)
	case " ", "x":
		if v, ok := m.cursorRow(rows); ok {
			return m.toggleSelection(v)
		}
	case "c":
		return m.mutate("selection.clear", map[string]*string{"selected": nil})
	case "m":
		if v, ok := m.cursorRow(rows); ok {
			return m.addListFilter("manufacturer", v.Manufacturer)
		}
	case "M":
		if v, ok := m.cursorRow(rows); ok {
			return m.removeListFilter("manufacturer", v.Manufacturer)
		}
	case "u":
		if v, ok := m.cursorRow(rows); ok {
			return m.addListFilter("fuel", v.Fuel)
		}
	case "b":
		if v, ok := m.cursorRow(rows); ok {
			return m.addListFilter("body", v.BodyStyle)
		}
	case "h":
		if v, ok := m.cursorRow(rows); ok {
			return m.toggleHighlight("manufacturer", v.Manufacturer)
		}
	case "H":
		return m.clearHighlights()
	case "C":
		return m.bus.Execute(command.Request{
			Name:  "url.clear",
			Apply: func() bool { return m.bridge.Clear(false) },
		})
	case "/":
		m.focus = focusSearch
		m.search.SetValue(m.snap.Filters.Query)
		return m.search.Focus()
	case "f":
		m.focus = focusJump
		return m.jump.Focus()
	case "1", "2", "3", "4":
		idx := int(key.String()[0] - '1')
		return m.openPanel(panel.Types[idx])
	case "0":
		for _, id := range m.manager.Open() {
			m.manager.ClosePanel(id)
		}
	}
	return nil
}

func (m *Model) handleSearchKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "enter":
		m.focus = focusRows
		m.search.Blur()
		query := strings.TrimSpace(m.search.Value())
		changes := map[string]*string{"page": nil}
		if query == "" {
			changes["q"] = nil
		} else {
			changes["q"] = &query
		}
		return m.mutate("search.commit", changes)
	case "esc":
		m.focus = focusRows
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(key)
	return cmd
}

func (m *Model) handleJumpKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "enter", "esc":
		m.focus = focusRows
		m.jump.Blur()
		if key.String() == "esc" {
			m.jump.SetValue("")
		}
		m.cursor.Clamp(len(panel.VisibleRows(m.panelData())))
		return nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(key)
	m.cursor.Clamp(len(panel.VisibleRows(m.panelData())))
	return cmd
}

func (m *Model) cursorRow(rows []vehicle.Vehicle) (vehicle.Vehicle, bool) {
	if m.cursor.Pos < 0 || m.cursor.Pos >= len(rows) {
		return vehicle.Vehicle{}, false
	}
	return rows[m.cursor.Pos], true
}

// mutate funnels a URL write through the command bus.
func (m *Model) mutate(name string, changes map[string]*string) tea.Cmd {
	return m.bus.Execute(command.Request{
		Name:  name,
		Apply: func() bool { return m.bridge.Merge(changes, false) },
	})
}

func (m *Model) toggleSelection(v vehicle.Vehicle) tea.Cmd {
	keys := m.sel.Keys()
	next := make([]string, 0, len(keys)+1)
	found := false
	for _, k := range keys {
		if k == v.VIN {
			found = true
			continue
		}
		next = append(next, k)
	}
	if !found {
		next = append(next, v.VIN)
	}
	changes := map[string]*string{}
	if len(next) == 0 {
		changes["selected"] = nil
	} else {
		joined := selection.SerializeKeys(next)
		changes["selected"] = &joined
	}
	return m.mutate("selection.toggle", changes)
}

func (m *Model) gotoPage(page int) tea.Cmd {
	if page < 1 {
		return nil
	}
	total := m.snap.TotalResults
	size := m.snap.Filters.PageSize
	if size < 1 {
		size = vehicle.DefaultPageSize
	}
	last := (total + size - 1) / size
	if last < 1 {
		last = 1
	}
	if page > last {
		return nil
	}
	changes := map[string]*string{}
	if page == 1 {
		changes["page"] = nil
	} else {
		p := strconv.Itoa(page)
		changes["page"] = &p
	}
	return m.mutate("page.goto", changes)
}

func (m *Model) addListFilter(key, value string) tea.Cmd {
	current := selection.ParseKeys(m.bridge.Read()[key])
	for _, v := range current {
		if strings.EqualFold(v, value) {
			return nil
		}
	}
	joined := strings.Join(append(current, value), ",")
	return m.mutate("filter.add."+key, map[string]*string{key: &joined, "page": nil})
}

func (m *Model) removeListFilter(key, value string) tea.Cmd {
	current := selection.ParseKeys(m.bridge.Read()[key])
	var next []string
	for _, v := range current {
		if !strings.EqualFold(v, value) {
			next = append(next, v)
		}
	}
	if len(next) == len(current) {
		return nil
	}
	changes := map[string]*string{"page": nil}
	if len(next) == 0 {
		changes[key] = nil
	} else {
		joined := strings.Join(next, ",")
		changes[key] = &joined
	}
	return m.mutate("filter.remove."+key, changes)
}

func (m *Model) toggleHighlight(attribute, value string) tea.Cmd {
	param := vehicle.HighlightParam(attribute)
	if current := m.bridge.Read()[param]; strings.EqualFold(current, value) {
		return m.mutate("highlight.remove", map[string]*string{param: nil})
	}
	return m.mutate("highlight.set", map[string]*string{param: &value})
}

func (m *Model) clearHighlights() tea.Cmd {
	changes := map[string]*string{}
	for k := range m.bridge.Read() {
		if strings.HasPrefix(k, vehicle.HighlightParam("")) {
			changes[k] = nil
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return m.mutate("highlight.clear", changes)
}

func (m *Model) openPanel(panelType string) tea.Cmd {
	p := route.Popout{
		GridID:    m.gridID,
		PanelID:   panelType,
		PanelType: panelType,
	}
	if err := m.manager.OpenPanel(p); err != nil {
		// An unopenable window is a warning, not a crash.
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	return nil
}

func (m *Model) panelData() panel.Data {
	return panel.Data{
		Snap:          m.snap,
		SelectedItems: m.sel.Items(),
		SelectedKeys:  m.sel.Keys(),
		Cursor:        m.cursor.Pos,
		LocalFilter:   m.jump.Value(),
		Width:         m.width,
	}
}

func (m *Model) setInfo(msg string) {
	if m.verbose {
		m.infoMsg = msg
	}
}
