// Package bus implements the broadcast endpoint: the inbound-stream +
// outbound-fan-out object that links an actor (group or element) to its
// parent and children in the supervision tree. It gives the routing
// collaborator a minimal concrete body, just enough to let the
// children-group packages route messages without pulling in a real
// message-broker dependency.
package bus

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/quietloop-run/childgroup/cherr"
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/internal/queue"
	"github.com/quietloop-run/childgroup/msg"
)

// Endpoint is a single actor's inbound stream plus a registry of children it
// can fan a message out to. The parent/child link is realized as an arena:
// a parent Endpoint holds its children by id in a concurrent map rather than
// children holding a pointer back to their parent, avoiding a cyclic
// reference between the two.
type Endpoint struct {
	self     id.ID
	inbound  *queue.Unbounded[msg.CtlMsg]
	children *xsync.Map[id.ID, *Endpoint]
}

// New creates an Endpoint addressed by self.
func New(self id.ID) *Endpoint {
	return &Endpoint{
		self:     self,
		inbound:  queue.New[msg.CtlMsg](),
		children: xsync.NewMap[id.ID, *Endpoint](),
	}
}

// ID returns the endpoint's own identity.
func (e *Endpoint) ID() id.ID { return e.self }

// Send enqueues m for this endpoint's owner. Sends are non-blocking: they
// fail only when the endpoint has been closed.
func (e *Endpoint) Send(m msg.CtlMsg) error {
	if !e.inbound.Push(m) {
		return cherr.ErrSendOnClosedRoute
	}
	return nil
}

// Recv blocks until a message is available, the endpoint is closed and
// drained, or ctx is done.
func (e *Endpoint) Recv(ctx context.Context) (msg.CtlMsg, bool) {
	return e.inbound.Pop(ctx)
}

// TryRecv pops a message without blocking; ok is false when none is
// immediately ready, regardless of whether the endpoint is closed.
func (e *Endpoint) TryRecv() (msg.CtlMsg, bool) {
	return e.inbound.TryPop()
}

// Close marks the endpoint closed. Queued messages already accepted remain
// drainable via Recv; subsequent Send calls fail.
func (e *Endpoint) Close() {
	e.inbound.Close()
}

// Register adds child as a fan-out target of this endpoint, keyed by its own
// id.
func (e *Endpoint) Register(child *Endpoint) {
	e.children.Store(child.self, child)
}

// Unregister removes a previously registered child.
func (e *Endpoint) Unregister(childID id.ID) {
	e.children.Delete(childID)
}

// Broadcast fans a control message out to every registered child. Tell
// messages carrying a Shared payload are duplicated by reference-count
// clone per child; Owned payloads and non-Tell control messages are routed
// as-is to every child, since broadcast fan-out to a pool is always the
// group-to-elements direction, never element-to-element.
func (e *Endpoint) Broadcast(m msg.CtlMsg) {
	e.children.Range(func(_ id.ID, child *Endpoint) bool {
		outgoing := m
		if m.Kind == msg.Tell && m.Body.IsBroadcast() {
			if clone, ok := m.Body.TryClone(); ok {
				outgoing = msg.NewTell(clone)
			}
		}
		_ = child.Send(outgoing)
		return true
	})
}
