package msg

import "github.com/quietloop-run/childgroup/id"

// CtlKind enumerates the closed set of control message variants a group or
// element inbound stream may carry.
type CtlKind int

const (
	// Start latches the Buffering->Running transition.
	Start CtlKind = iota
	// Stop requests a graceful shutdown.
	Stop
	// Kill requests immediate shutdown; an element does not distinguish
	// Kill from Stop at its own level (see element.Actor's handle method).
	Kill
	// Tell carries a user Msg payload.
	Tell
	// Deploy is reserved for future supervision-tree wiring.
	Deploy
	// Prune is reserved for future supervision-tree wiring.
	Prune
	// SuperviseWith is reserved for future supervision-tree wiring.
	SuperviseWith
	// Stopped reports that the element/group identified by Source
	// terminated cleanly.
	Stopped
	// Faulted reports that the element/group identified by Source
	// terminated with a fault; Cause carries the triggering error.
	Faulted
)

// CtlMsg is the closed tagged variant routed through group and element
// inbound channels.
type CtlMsg struct {
	Kind   CtlKind
	Body   Msg
	Source id.ID
	Cause  error
	// Reserved carries the opaque payload for Deploy/Prune/SuperviseWith,
	// which are unimplemented at this layer and must be treated as a
	// protocol violation rather than silently dropped.
	Reserved any
}

// NewStart builds a Start control message.
func NewStart() CtlMsg { return CtlMsg{Kind: Start} }

// NewStop builds a Stop control message.
func NewStop() CtlMsg { return CtlMsg{Kind: Stop} }

// NewKill builds a Kill control message.
func NewKill() CtlMsg { return CtlMsg{Kind: Kill} }

// NewTell wraps m as a Tell control message.
func NewTell(m Msg) CtlMsg { return CtlMsg{Kind: Tell, Body: m} }

// NewStopped reports that source terminated cleanly.
func NewStopped(source id.ID) CtlMsg { return CtlMsg{Kind: Stopped, Source: source} }

// NewFaulted reports that source terminated with cause.
func NewFaulted(source id.ID, cause error) CtlMsg {
	return CtlMsg{Kind: Faulted, Source: source, Cause: cause}
}

// IsReserved reports whether k is one of the Deploy/Prune/SuperviseWith
// variants that this layer has not yet implemented.
func (k CtlKind) IsReserved() bool {
	return k == Deploy || k == Prune || k == SuperviseWith
}
