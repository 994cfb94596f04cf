// Package ui contains the Bubble Tea programs for both window roles.
//
// The main grid window runs Model: it owns the only writable surface (the
// nav bridge), renders all four panels, and hosts the pop-out fleet. Derived
// snapshots arrive over a channel from the resource orchestrator; lifecycle
// events (pop-out requests, closures) arrive from the panel manager. Both
// streams re-enter the Bubble Tea loop through self-re-arming wait commands
// in async.go, so Update never blocks.
//
// A pop-out window runs PopoutModel: it renders exactly one panel from
// replicated snapshots and forwards every interaction as a request envelope.
// It cannot navigate, fetch, or open further windows; the type simply has no
// fields for any of that.
//
// Message routing uses a typed handler registry keyed on reflect.Type so
// each tea.Msg lands in one focused function. URL writes from the main
// window funnel through the internal/ui/command bus, which traces each
// action and reports whether it changed anything.
package ui
