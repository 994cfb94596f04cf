package resource

// Highlights marks attribute values to emphasise without filtering by them.
type Highlights map[string]string

// Equal compares highlight maps by content.
func (h Highlights) Equal(other Highlights) bool {
	if len(h) != len(other) {
		return false
	}
	for k, v := range h {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (h Highlights) Clone() Highlights {
	if len(h) == 0 {
		return Highlights{}
	}
	dup := make(Highlights, len(h))
	for k, v := range h {
		dup[k] = v
	}
	return dup
}

// Snapshot is the complete resource state of one browsing context. In the
// main context it is derived from the URL plus fetch results and broadcast
// outward; in a pop-out it is only ever replaced wholesale by an incoming
// snapshot. Err is a string so a snapshot survives JSON transport intact.
type Snapshot[F, D, S any] struct {
	Filters      F          `json:"filters"`
	Highlights   Highlights `json:"highlights"`
	Results      []D        `json:"results"`
	TotalResults int        `json:"totalResults"`
	Loading      bool       `json:"loading"`
	Err          string     `json:"error,omitempty"`
	Stats        S          `json:"statistics"`
}

// Result is a resolved fetch.
type Result[D, S any] struct {
	Rows  []D
	Total int
	Stats S
}

// Phase names the orchestrator's position in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}
