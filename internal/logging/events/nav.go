package events

import "github.com/atomicstack/gridscope/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) Committed(query string, replace bool) {
	logging.Trace("nav.commit", map[string]interface{}{"query": query, "replace": replace})
}

func (NavTracer) Rejected(query string, err error) {
	payload := map[string]interface{}{"query": query}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("nav.reject", payload)
}
