package events

import "github.com/atomicstack/gridscope/internal/logging"

type PanelTracer struct{}

var Panel = PanelTracer{}

func (PanelTracer) Opened(panelID, panelType, path string) {
	logging.Trace("panel.open", map[string]interface{}{
		"panel": panelID,
		"type":  panelType,
		"path":  path,
	})
}

func (PanelTracer) AlreadyOpen(panelID string) {
	logging.Trace("panel.already-open", map[string]interface{}{"panel": panelID})
}

func (PanelTracer) OpenBlocked(panelID string, err error) {
	payload := map[string]interface{}{"panel": panelID}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("panel.open-blocked", payload)
}

func (PanelTracer) ClosureDetected(panelID string) {
	logging.Trace("panel.closure-detected", map[string]interface{}{"panel": panelID})
}

func (PanelTracer) Broadcast(count int, msgType string) {
	logging.Trace("panel.broadcast", map[string]interface{}{"channels": count, "type": msgType})
}

func (PanelTracer) Teardown(open int) {
	logging.Trace("panel.teardown", map[string]interface{}{"open": open})
}

func (PanelTracer) Ready(panelID, panelType string) {
	logging.Trace("panel.ready", map[string]interface{}{"panel": panelID, "type": panelType})
}
