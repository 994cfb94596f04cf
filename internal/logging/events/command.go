package events

import "github.com/atomicstack/gridscope/internal/logging"

type CommandTracer struct{}

var Command = CommandTracer{}

func (CommandTracer) Queue(name string) {
	logging.Trace("command.queue", map[string]interface{}{"name": name})
}

func (CommandTracer) Applied(name string, changed bool) {
	logging.Trace("command.applied", map[string]interface{}{"name": name, "changed": changed})
}

func (CommandTracer) Skip(name string) {
	logging.Trace("command.skip", map[string]interface{}{"name": name})
}
