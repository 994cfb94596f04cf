package ui

import (
	"encoding/json"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/gridscope/internal/channel"
	"github.com/atomicstack/gridscope/internal/route"
	"github.com/atomicstack/gridscope/internal/ui/panel"
)

// popoutHarness builds a pop-out model over one end of a memory pair; the
// test holds the main-window end. Commands are not auto-pumped because the
// wait commands would block on the live channel, so tests drive Update
// directly with the messages those commands would have produced.
type popoutHarness struct {
	model    *PopoutModel
	mainSide channel.Transport
	updates  chan panel.Snapshot
}

func newPopoutHarness(t *testing.T, panelType string) *popoutHarness {
	t.Helper()
	var mainSide channel.Transport
	factory := func(name string) (channel.Transport, error) {
		near, far := channel.NewMemoryPair()
		mainSide = far
		return near, nil
	}
	registry := channel.NewRegistry(factory, channel.DefaultReplay)
	registry.SetRole(route.RolePopout)
	t.Cleanup(registry.CloseAll)

	ch, err := registry.Open("p1")
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}

	updates := make(chan panel.Snapshot, 4)
	model := NewPopoutModel(PopoutConfig{
		Popout:  route.Popout{GridID: "grid-1", PanelID: "p1", PanelType: panelType},
		Channel: ch,
		Updates: updates,
		Ingest:  func(snap panel.Snapshot) { updates <- snap },
		Width:   100,
		Height:  30,
	})
	return &popoutHarness{model: model, mainSide: mainSide, updates: updates}
}

func (ph *popoutHarness) readEnvelope(t *testing.T) channel.Envelope {
	t.Helper()
	select {
	case frame := <-ph.mainSide.Receive():
		var env channel.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		return env
	case <-time.After(time.Second):
		t.Fatalf("no envelope reached the main side")
		return channel.Envelope{}
	}
}

func (ph *popoutHarness) send(msg tea.Msg) tea.Cmd {
	_, cmd := ph.model.Update(msg)
	return cmd
}

func TestPopoutInitAnnouncesReady(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeResults)
	ph.model.Init()

	env := ph.readEnvelope(t)
	if env.Type != channel.TypePanelReady {
		t.Fatalf("expected PANEL_READY, got %s", env.Type)
	}
	ready, err := channel.Decode[channel.PanelReady](env)
	if err != nil || ready.PanelID != "p1" || ready.PanelType != panel.TypeResults {
		t.Fatalf("ready payload wrong: %+v err=%v", ready, err)
	}
}

func TestPopoutIngestsStateUpdate(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeResults)
	rows := testVehicles()
	env, err := channel.NewEnvelope(channel.TypeStateUpdate, testSnapshot(rows, 3, 1, "VIN003"))
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}

	ph.send(envelopeMsg{env: env})
	select {
	case snap := <-ph.updates:
		ph.send(snapshotMsg{snap: snap})
	case <-time.After(time.Second):
		t.Fatalf("state update was not ingested")
	}

	snap := ph.model.Snapshot()
	if snap.TotalResults != 3 || len(snap.Results) != 3 {
		t.Fatalf("snapshot not replaced: %+v", snap)
	}
	keys := ph.model.sel.Keys()
	if len(keys) != 1 || keys[0] != "VIN003" {
		t.Fatalf("selection not hydrated from replicated snapshot: %v", keys)
	}
}

func TestPopoutQuitsOnClose(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeResults)
	env, err := channel.NewEnvelope(channel.TypeClosePopout, nil)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	cmd := ph.send(envelopeMsg{env: env})
	if cmd == nil {
		t.Fatalf("close should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if ph.model.View() != "" {
		t.Fatalf("a quitting pop-out renders nothing")
	}
}

func TestPopoutQuitsWhenChannelDies(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeResults)
	cmd := ph.send(envelopeDoneMsg{})
	if cmd == nil {
		t.Fatalf("channel loss should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestPopoutClickSendsRequest(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeResults)
	ph.send(snapshotMsg{snap: testSnapshot(testVehicles(), 3, 1)})

	ph.send(keyRunes("x"))
	env := ph.readEnvelope(t)
	if env.Type != channel.TypeClickRequest {
		t.Fatalf("expected CLICK_REQUEST, got %s", env.Type)
	}
	click, err := channel.Decode[channel.Click](env)
	if err != nil || click.Key != "VIN001" {
		t.Fatalf("click payload wrong: %+v err=%v", click, err)
	}
}

func TestPopoutClickIgnoredOutsideResults(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeStats)
	ph.send(snapshotMsg{snap: testSnapshot(testVehicles(), 3, 1)})

	ph.send(keyRunes("x"))
	select {
	case frame := <-ph.mainSide.Receive():
		var env channel.Envelope
		if json.Unmarshal(frame, &env) == nil && env.Type == channel.TypeClickRequest {
			t.Fatalf("stats panel must not emit click requests")
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPopoutClearRequests(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeResults)

	ph.send(keyRunes("c"))
	if env := ph.readEnvelope(t); env.Type != channel.TypeSelectionChangeRequest {
		t.Fatalf("expected SELECTION_CHANGE_REQUEST, got %s", env.Type)
	}

	ph.send(keyRunes("C"))
	if env := ph.readEnvelope(t); env.Type != channel.TypeClearAllRequest {
		t.Fatalf("expected CLEAR_ALL_REQUEST, got %s", env.Type)
	}

	ph.send(keyRunes("H"))
	if env := ph.readEnvelope(t); env.Type != channel.TypeClearHighlightsRequest {
		t.Fatalf("expected CLEAR_HIGHLIGHTS_REQUEST, got %s", env.Type)
	}
}

func TestPopoutIgnoresRequestEnvelopes(t *testing.T) {
	ph := newPopoutHarness(t, panel.TypeResults)
	ph.send(snapshotMsg{snap: testSnapshot(testVehicles(), 3, 1)})
	before := ph.model.Snapshot()

	env, err := channel.NewEnvelope(channel.TypeClickRequest, channel.Click{Key: "VIN001"})
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	ph.send(envelopeMsg{env: env})
	after := ph.model.Snapshot()
	if after.TotalResults != before.TotalResults || len(after.Results) != len(before.Results) {
		t.Fatalf("request-family envelope must not touch pop-out state")
	}
}
