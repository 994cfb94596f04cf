package events

import "github.com/atomicstack/gridscope/internal/logging"

type SelectionTracer struct{}

var Selection = SelectionTracer{}

func (SelectionTracer) Hydrated(resolved, pending int) {
	logging.Trace("selection.hydrate", map[string]interface{}{
		"resolved": resolved,
		"pending":  pending,
	})
}

func (SelectionTracer) Cleared() {
	logging.Trace("selection.clear", nil)
}
