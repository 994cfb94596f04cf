package channel

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type discriminates envelope payloads. Unknown values are ignored by
// receivers rather than treated as errors, so new types can be introduced
// without lockstep upgrades of every context.
type Type string

const (
	// Sent by a pop-out once its panel has mounted and subscribed.
	TypePanelReady Type = "PANEL_READY"
	// Sent by main: a complete state snapshot, never a diff.
	TypeStateUpdate Type = "STATE_UPDATE"
	// Sent by main during teardown so children self-close.
	TypeClosePopout Type = "CLOSE_POPOUT"

	// Intents sent by pop-outs. They carry a proposed change, never state;
	// main converts each into a single URL write.
	TypeParamsChangeRequest    Type = "PARAMS_CHANGE_REQUEST"
	TypeClearAllRequest        Type = "CLEAR_ALL_REQUEST"
	TypeSelectionChangeRequest Type = "SELECTION_CHANGE_REQUEST"
	TypeFilterAddRequest       Type = "FILTER_ADD_REQUEST"
	TypeFilterRemoveRequest    Type = "FILTER_REMOVE_REQUEST"
	TypeHighlightRemoveRequest Type = "HIGHLIGHT_REMOVE_REQUEST"
	TypeClearHighlightsRequest Type = "CLEAR_HIGHLIGHTS_REQUEST"
	TypeClickRequest           Type = "CLICK_REQUEST"
)

// Request reports whether the type belongs to the pop-out→main intent family.
func (t Type) Request() bool {
	switch t {
	case TypeParamsChangeRequest, TypeClearAllRequest, TypeSelectionChangeRequest,
		TypeFilterAddRequest, TypeFilterRemoveRequest, TypeHighlightRemoveRequest,
		TypeClearHighlightsRequest, TypeClickRequest:
		return true
	}
	return false
}

// Envelope is the wire unit. Every envelope is fully self-describing; decoding
// one never depends on envelopes delivered before it.
type Envelope struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewEnvelope builds an envelope around the JSON encoding of payload. A nil
// payload produces an envelope with no payload field.
func NewEnvelope(t Type, payload any) (Envelope, error) {
	env := Envelope{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UnixMilli(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, err
		}
		env.Payload = raw
	}
	return env, nil
}

// Decode unmarshals an envelope payload into T.
func Decode[T any](env Envelope) (T, error) {
	var out T
	if len(env.Payload) == 0 {
		return out, nil
	}
	err := json.Unmarshal(env.Payload, &out)
	return out, err
}

// PanelReady announces a mounted pop-out panel.
type PanelReady struct {
	PanelID   string `json:"panelId"`
	PanelType string `json:"panelType"`
}

// ParamsChange proposes a merge-write of the navigable params. A nil value
// deletes its key, mirroring the bridge's merge contract.
type ParamsChange struct {
	Changes map[string]*string `json:"changes"`
	Replace bool               `json:"replace,omitempty"`
}

// SelectionChange proposes a replacement selection key set.
type SelectionChange struct {
	Selected []string `json:"selected"`
}

// FilterChange proposes adding or removing one filter value.
type FilterChange struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HighlightRemove proposes dropping one highlight key.
type HighlightRemove struct {
	Key string `json:"key"`
}

// Click proposes focusing one row, identified by its stable key.
type Click struct {
	Key string `json:"key"`
}
