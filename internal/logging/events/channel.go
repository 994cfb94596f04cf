package events

import "github.com/atomicstack/gridscope/internal/logging"

type ChannelTracer struct{}

var Channel = ChannelTracer{}

func (ChannelTracer) Opened(name string) {
	logging.Trace("channel.open", map[string]interface{}{"name": name})
}

func (ChannelTracer) Reused(name string) {
	logging.Trace("channel.reuse", map[string]interface{}{"name": name})
}

func (ChannelTracer) Closed(name string) {
	logging.Trace("channel.close", map[string]interface{}{"name": name})
}

func (ChannelTracer) Replayed(name string, count int) {
	logging.Trace("channel.replay", map[string]interface{}{"name": name, "count": count})
}

func (ChannelTracer) SendFailed(name, msgType string, err error) {
	payload := map[string]interface{}{"name": name, "type": msgType}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("channel.send-failed", payload)
}

func (ChannelTracer) Malformed(name string, err error) {
	payload := map[string]interface{}{"name": name}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("channel.malformed", payload)
}

func (ChannelTracer) Ignored(name, msgType string) {
	logging.Trace("channel.ignored", map[string]interface{}{"name": name, "type": msgType})
}

func (ChannelTracer) RoleIgnored(requested, kept string) {
	logging.Trace("channel.role-ignored", map[string]interface{}{"requested": requested, "kept": kept})
}
