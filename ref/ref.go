// Package ref holds the external reference handles — GroupRef and
// ElementRef — that other actors use to address a group or a specific
// element. Both are value types: cheap to clone, cloning produces
// an independent handle sharing the same underlying endpoint, and neither
// owns the lifecycle of what it addresses (the group Controller and the
// element actor do).
package ref

import (
	"github.com/quietloop-run/childgroup/bus"
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/msg"
)

// ElementRef addresses a single element by id.
type ElementRef struct {
	id     id.ID
	target *bus.Endpoint
}

// NewElementRef builds a handle to the element owning target.
func NewElementRef(elementID id.ID, target *bus.Endpoint) ElementRef {
	return ElementRef{id: elementID, target: target}
}

// ID returns the addressed element's identity.
func (r ElementRef) ID() id.ID { return r.id }

// SendMsg wraps payload as an Owned envelope in a Tell and routes it to this
// element. The caller never loses payload on failure — Go has no move
// semantics, so there is nothing to hand back; the returned error alone
// tells the caller whether to retry or route elsewhere.
func (r ElementRef) SendMsg(payload any) error {
	return r.target.Send(msg.NewTell(msg.Owned(payload)))
}

// Stop asks this element to stop gracefully.
func (r ElementRef) Stop() error {
	return r.target.Send(msg.NewStop())
}

// Kill asks this element to stop immediately.
func (r ElementRef) Kill() error {
	return r.target.Send(msg.NewKill())
}

// GroupRef addresses a children group as a whole.
type GroupRef struct {
	id     id.ID
	target *bus.Endpoint
	elems  []ElementRef
}

// NewGroupRef builds a handle to the group owning target, with elems as the
// snapshot of elements live at handle-creation time.
func NewGroupRef(groupID id.ID, target *bus.Endpoint, elems []ElementRef) GroupRef {
	snapshot := make([]ElementRef, len(elems))
	copy(snapshot, elems)
	return GroupRef{id: groupID, target: target, elems: snapshot}
}

// ID returns the addressed group's identity.
func (r GroupRef) ID() id.ID { return r.id }

// Elems returns the snapshot of elements taken when this handle was built.
// It does not reflect restarts that happen afterwards.
func (r GroupRef) Elems() []ElementRef {
	out := make([]ElementRef, len(r.elems))
	copy(out, r.elems)
	return out
}

// Broadcast wraps payload as a Shared envelope in a Tell and routes it to
// the group, which fans it out to every element.
func (r GroupRef) Broadcast(payload any) error {
	return r.target.Send(msg.NewTell(msg.Shared(payload)))
}

// Stop asks every element in the group to stop gracefully.
func (r GroupRef) Stop() error {
	return r.target.Send(msg.NewStop())
}

// Kill asks every element in the group to stop immediately.
func (r GroupRef) Kill() error {
	return r.target.Send(msg.NewKill())
}
