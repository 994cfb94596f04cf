package events

import "github.com/atomicstack/gridscope/internal/logging"

type FetchTracer struct{}

var Fetch = FetchTracer{}

func (FetchTracer) Start(key string) {
	logging.Trace("fetch.start", map[string]interface{}{"key": key})
}

func (FetchTracer) Commit(key string, results, total int) {
	logging.Trace("fetch.commit", map[string]interface{}{
		"key":     key,
		"results": results,
		"total":   total,
	})
}

func (FetchTracer) Discard(key, current string) {
	logging.Trace("fetch.discard", map[string]interface{}{"key": key, "current": current})
}

func (FetchTracer) Failed(key string, err error) {
	payload := map[string]interface{}{"key": key}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("fetch.failed", payload)
}
