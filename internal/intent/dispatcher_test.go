package intent

import (
	"testing"

	"github.com/atomicstack/gridscope/internal/channel"
	"github.com/atomicstack/gridscope/internal/nav"
)

func newDispatcher(t *testing.T, seed nav.Params) (*nav.Bridge, *Dispatcher) {
	t.Helper()
	loc := nav.NewMemoryLocation()
	if len(seed) > 0 {
		if err := loc.Navigate(seed, true); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	bridge := nav.NewBridge(loc)
	t.Cleanup(bridge.Close)
	return bridge, New(bridge)
}

func envelope(t *testing.T, typ channel.Type, payload interface{}) channel.Envelope {
	t.Helper()
	env, err := channel.NewEnvelope(typ, payload)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	return env
}

func strPtr(s string) *string { return &s }

func TestParamsChangeRequestMergesAndDeletes(t *testing.T) {
	bridge, d := newDispatcher(t, nav.Params{"q": "old", "page": "3"})
	res := d.Handle(envelope(t, channel.TypeParamsChangeRequest, channel.ParamsChange{
		Changes: map[string]*string{"q": strPtr("new"), "page": nil},
	}))
	if !res.Handled || !res.Changed {
		t.Fatalf("unexpected result %+v", res)
	}
	got := bridge.Read()
	if got["q"] != "new" {
		t.Fatalf("q = %q", got["q"])
	}
	if _, ok := got["page"]; ok {
		t.Fatalf("page should be deleted")
	}
}

func TestClearAllRequest(t *testing.T) {
	bridge, d := newDispatcher(t, nav.Params{"q": "x", "selected": "a"})
	res := d.Handle(envelope(t, channel.TypeClearAllRequest, nil))
	if !res.Changed {
		t.Fatalf("clear should change state")
	}
	if len(bridge.Read()) != 0 {
		t.Fatalf("params not cleared: %v", bridge.Read())
	}
}

func TestSelectionChangeRequestWritesSelectedParam(t *testing.T) {
	bridge, d := newDispatcher(t, nil)
	d.Handle(envelope(t, channel.TypeSelectionChangeRequest, channel.SelectionChange{
		Selected: []string{"b", "a"},
	}))
	if got := bridge.Read()["selected"]; got != "a,b" {
		t.Fatalf("selected = %q, want sorted a,b", got)
	}

	res := d.Handle(envelope(t, channel.TypeSelectionChangeRequest, channel.SelectionChange{}))
	if !res.Changed {
		t.Fatalf("emptying a non-empty selection should change state")
	}
	if _, ok := bridge.Read()["selected"]; ok {
		t.Fatalf("empty selection must delete the param")
	}

	res = d.Handle(envelope(t, channel.TypeSelectionChangeRequest, channel.SelectionChange{}))
	if res.Changed {
		t.Fatalf("clearing an already-empty selection is a no-op")
	}
}

func TestFilterAddRequest(t *testing.T) {
	bridge, d := newDispatcher(t, nav.Params{"manufacturer": "Ford", "page": "4"})
	res := d.Handle(envelope(t, channel.TypeFilterAddRequest, channel.FilterChange{
		Key: "manufacturer", Value: "Chevrolet",
	}))
	if !res.Changed {
		t.Fatalf("add should change state")
	}
	got := bridge.Read()
	if got["manufacturer"] != "Ford,Chevrolet" {
		t.Fatalf("manufacturer = %q", got["manufacturer"])
	}
	if _, ok := got["page"]; ok {
		t.Fatalf("filter change must reset pagination")
	}

	res = d.Handle(envelope(t, channel.TypeFilterAddRequest, channel.FilterChange{
		Key: "manufacturer", Value: "ford",
	}))
	if res.Changed {
		t.Fatalf("duplicate add (case-insensitive) must be a no-op")
	}
}

func TestFilterRemoveRequest(t *testing.T) {
	bridge, d := newDispatcher(t, nav.Params{"fuel": "hybrid,electric"})
	d.Handle(envelope(t, channel.TypeFilterRemoveRequest, channel.FilterChange{
		Key: "fuel", Value: "hybrid",
	}))
	if got := bridge.Read()["fuel"]; got != "electric" {
		t.Fatalf("fuel = %q", got)
	}

	d.Handle(envelope(t, channel.TypeFilterRemoveRequest, channel.FilterChange{
		Key: "fuel", Value: "electric",
	}))
	if _, ok := bridge.Read()["fuel"]; ok {
		t.Fatalf("removing the last value must delete the param")
	}

	res := d.Handle(envelope(t, channel.TypeFilterRemoveRequest, channel.FilterChange{
		Key: "fuel", Value: "diesel",
	}))
	if res.Changed {
		t.Fatalf("removing an absent value is a no-op")
	}
}

func TestHighlightRequests(t *testing.T) {
	bridge, d := newDispatcher(t, nav.Params{
		"h_manufacturer": "Tesla",
		"h_fuel":         "electric",
		"q":              "model",
	})
	res := d.Handle(envelope(t, channel.TypeHighlightRemoveRequest, channel.HighlightRemove{Key: "fuel"}))
	if !res.Changed {
		t.Fatalf("highlight remove should change state")
	}
	if _, ok := bridge.Read()["h_fuel"]; ok {
		t.Fatalf("h_fuel not removed")
	}

	res = d.Handle(envelope(t, channel.TypeClearHighlightsRequest, nil))
	if !res.Changed {
		t.Fatalf("clear highlights should change state")
	}
	got := bridge.Read()
	if _, ok := got["h_manufacturer"]; ok {
		t.Fatalf("h_manufacturer survived clear")
	}
	if got["q"] != "model" {
		t.Fatalf("non-highlight params must survive: %v", got)
	}

	res = d.Handle(envelope(t, channel.TypeClearHighlightsRequest, nil))
	if res.Changed {
		t.Fatalf("clearing no highlights is a no-op")
	}
}

func TestClickRequestTogglesSelection(t *testing.T) {
	bridge, d := newDispatcher(t, nil)
	d.Handle(envelope(t, channel.TypeClickRequest, channel.Click{Key: "VIN2"}))
	d.Handle(envelope(t, channel.TypeClickRequest, channel.Click{Key: "VIN1"}))
	if got := bridge.Read()["selected"]; got != "VIN1,VIN2" {
		t.Fatalf("selected = %q", got)
	}

	d.Handle(envelope(t, channel.TypeClickRequest, channel.Click{Key: "VIN2"}))
	if got := bridge.Read()["selected"]; got != "VIN1" {
		t.Fatalf("toggle off failed: %q", got)
	}
}

func TestGuardRejectionReportsUnchanged(t *testing.T) {
	loc := nav.NewMemoryLocation()
	loc.SetGuard(func(nav.Params, bool) error { return nav.ErrNavigationRejected })
	bridge := nav.NewBridge(loc)
	t.Cleanup(bridge.Close)
	d := New(bridge)

	res := d.Handle(envelope(t, channel.TypeParamsChangeRequest, channel.ParamsChange{
		Changes: map[string]*string{"q": strPtr("blocked")},
	}))
	if res.Changed {
		t.Fatalf("rejected navigation must report unchanged")
	}
}

func TestNonRequestEnvelopeIgnored(t *testing.T) {
	_, d := newDispatcher(t, nil)
	res := d.Handle(envelope(t, channel.TypeStateUpdate, nil))
	if res.Handled {
		t.Fatalf("state updates are not requests")
	}
}
