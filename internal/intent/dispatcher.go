// Package intent turns request envelopes from pop-outs into URL writes. A
// pop-out never navigates; every interaction it forwards lands here and is
// applied to the one writable surface, after which the normal derivation
// pipeline recomputes and broadcasts.
package intent

import (
	"strings"

	"github.com/atomicstack/gridscope/internal/channel"
	"github.com/atomicstack/gridscope/internal/logging/events"
	"github.com/atomicstack/gridscope/internal/nav"
	"github.com/atomicstack/gridscope/internal/selection"
	"github.com/atomicstack/gridscope/internal/vehicle"
)

// Result reports what a request did.
type Result struct {
	Handled bool
	Changed bool
}

// Dispatcher applies request envelopes to the bridge.
type Dispatcher struct {
	bridge *nav.Bridge
}

func New(bridge *nav.Bridge) *Dispatcher {
	return &Dispatcher{bridge: bridge}
}

// Handle applies one request envelope. Unknown and non-request envelope
// types are ignored.
func (d *Dispatcher) Handle(env channel.Envelope) Result {
	switch env.Type {
	case channel.TypeParamsChangeRequest:
		return d.paramsChange(env)
	case channel.TypeClearAllRequest:
		return Result{Handled: true, Changed: d.bridge.Clear(false)}
	case channel.TypeSelectionChangeRequest:
		return d.selectionChange(env)
	case channel.TypeFilterAddRequest:
		return d.filterChange(env, true)
	case channel.TypeFilterRemoveRequest:
		return d.filterChange(env, false)
	case channel.TypeHighlightRemoveRequest:
		return d.highlightRemove(env)
	case channel.TypeClearHighlightsRequest:
		return d.clearHighlights()
	case channel.TypeClickRequest:
		return d.click(env)
	default:
		return Result{}
	}
}

func (d *Dispatcher) paramsChange(env channel.Envelope) Result {
	req, err := channel.Decode[channel.ParamsChange](env)
	if err != nil {
		events.Channel.Malformed("intent", err)
		return Result{Handled: true}
	}
	return Result{Handled: true, Changed: d.bridge.Merge(req.Changes, req.Replace)}
}

func (d *Dispatcher) selectionChange(env channel.Envelope) Result {
	req, err := channel.Decode[channel.SelectionChange](env)
	if err != nil {
		events.Channel.Malformed("intent", err)
		return Result{Handled: true}
	}
	return Result{Handled: true, Changed: d.writeSelection(req.Selected)}
}

// filterChange adds or removes one value in a list-valued filter param.
// Any filter change resets pagination.
func (d *Dispatcher) filterChange(env channel.Envelope, add bool) Result {
	req, err := channel.Decode[channel.FilterChange](env)
	if err != nil {
		events.Channel.Malformed("intent", err)
		return Result{Handled: true}
	}
	current := selection.ParseKeys(d.bridge.Read()[req.Key])
	var next []string
	if add {
		for _, v := range current {
			if strings.EqualFold(v, req.Value) {
				return Result{Handled: true}
			}
		}
		next = append(current, req.Value)
	} else {
		for _, v := range current {
			if !strings.EqualFold(v, req.Value) {
				next = append(next, v)
			}
		}
		if len(next) == len(current) {
			return Result{Handled: true}
		}
	}
	changes := map[string]*string{"page": nil}
	if len(next) == 0 {
		changes[req.Key] = nil
	} else {
		joined := strings.Join(next, ",")
		changes[req.Key] = &joined
	}
	return Result{Handled: true, Changed: d.bridge.Merge(changes, false)}
}

func (d *Dispatcher) highlightRemove(env channel.Envelope) Result {
	req, err := channel.Decode[channel.HighlightRemove](env)
	if err != nil {
		events.Channel.Malformed("intent", err)
		return Result{Handled: true}
	}
	param := vehicle.HighlightParam(req.Key)
	if _, ok := d.bridge.Read()[param]; !ok {
		return Result{Handled: true}
	}
	return Result{Handled: true, Changed: d.bridge.Merge(map[string]*string{param: nil}, false)}
}

func (d *Dispatcher) clearHighlights() Result {
	changes := map[string]*string{}
	for k := range d.bridge.Read() {
		if strings.HasPrefix(k, vehicle.HighlightParam("")) {
			changes[k] = nil
		}
	}
	if len(changes) == 0 {
		return Result{Handled: true}
	}
	return Result{Handled: true, Changed: d.bridge.Merge(changes, false)}
}

// click toggles one row's selection membership.
func (d *Dispatcher) click(env channel.Envelope) Result {
	req, err := channel.Decode[channel.Click](env)
	if err != nil || req.Key == "" {
		events.Channel.Malformed("intent", err)
		return Result{Handled: true}
	}
	keys := selection.ParseKeys(d.bridge.Read()["selected"])
	var next []string
	found := false
	for _, k := range keys {
		if k == req.Key {
			found = true
			continue
		}
		next = append(next, k)
	}
	if !found {
		next = append(next, req.Key)
	}
	return Result{Handled: true, Changed: d.writeSelection(next)}
}

func (d *Dispatcher) writeSelection(keys []string) bool {
	if len(keys) == 0 {
		if _, ok := d.bridge.Read()["selected"]; !ok {
			return false
		}
		return d.bridge.Merge(map[string]*string{"selected": nil}, false)
	}
	joined := selection.SerializeKeys(keys)
	return d.bridge.Merge(map[string]*string{"selected": &joined}, false)
}
