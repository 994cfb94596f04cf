// Package route defines the path contract for detached panels. A context's
// role is decided by the shape of its path, never by a query parameter: query
// parameters carry shareable business state, and overloading one as a role
// flag would make bookmarked URLs ambiguous.
package route

import (
	"fmt"
	"strings"
)

// PopoutRoot is the first path segment of every pop-out route.
const PopoutRoot = "popout"

// Role describes how a context participates in state synchronization.
type Role int

const (
	// RoleMain derives state from the URL and owns all navigation.
	RoleMain Role = iota
	// RolePopout renders replicated snapshots and sends intents upstream.
	RolePopout
)

func (r Role) String() string {
	if r == RolePopout {
		return "popout"
	}
	return "main"
}

// Popout identifies one detached panel: /popout/{gridID}/{panelID}/{panelType}.
// The path is deliberately query-free; state reaches the pop-out over its
// channel, never through its own URL.
type Popout struct {
	GridID    string
	PanelID   string
	PanelType string
}

// Path renders the canonical pop-out path.
func (p Popout) Path() string {
	return fmt.Sprintf("/%s/%s/%s/%s", PopoutRoot, p.GridID, p.PanelID, p.PanelType)
}

// Detect returns the role implied by the supplied path.
func Detect(path string) Role {
	if _, ok := ParsePopout(path); ok {
		return RolePopout
	}
	return RoleMain
}

// ParsePopout parses a pop-out path. It reports false for any path that does
// not match the four-segment pop-out shape exactly.
func ParsePopout(path string) (Popout, bool) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Popout{}, false
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) != 4 || segments[0] != PopoutRoot {
		return Popout{}, false
	}
	p := Popout{GridID: segments[1], PanelID: segments[2], PanelType: segments[3]}
	if p.GridID == "" || p.PanelID == "" || p.PanelType == "" {
		return Popout{}, false
	}
	return p, true
}
