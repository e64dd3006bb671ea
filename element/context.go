// Package element implements the Element Actor: one per pooled slot in a
// children group, owning a user work function, a mailbox-backed context
// state, and the lifecycle controller that drives the two.
package element

import (
	"context"

	"github.com/quietloop-run/childgroup/cherr"
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/internal/queue"
	"github.com/quietloop-run/childgroup/msg"
	"github.com/quietloop-run/childgroup/ref"
	"github.com/quietloop-run/childgroup/supervisor"
)

// Work is the user-supplied asynchronous work function. It must return nil
// for clean completion or a non-nil error to report a fault; a panic during
// its execution is caught and treated identically to a returned error.
type Work func(ctx context.Context) error

// Context is the surface handed to a Work function: its own identity, a
// reference to itself and to its owning group, the supervisor handle, and a
// blocking mailbox receive.
type Context struct {
	id         id.ID
	Self       ref.ElementRef
	Group      ref.GroupRef
	Supervisor supervisor.Handle

	mailbox *queue.Unbounded[msg.Msg]
}

// NewContext builds the Context handed to init for a freshly spawned
// element. mailbox is the same locked queue the Actor's Tell handling
// pushes into, shared between the element actor (producer) and this
// Context (consumer).
func NewContext(
	elemID id.ID,
	self ref.ElementRef,
	group ref.GroupRef,
	sup supervisor.Handle,
	mailbox *queue.Unbounded[msg.Msg],
) *Context {
	return &Context{
		id:         elemID,
		Self:       self,
		Group:      group,
		Supervisor: sup,
		mailbox:    mailbox,
	}
}

// ID returns this element's identity.
func (c *Context) ID() id.ID { return c.id }

// Receive blocks until a message has been pushed to this element's mailbox,
// ctx is done, or the mailbox is closed because the element actor has
// terminated (ErrLockOwnerDropped).
func (c *Context) Receive(ctx context.Context) (msg.Msg, error) {
	m, ok := c.mailbox.Pop(ctx)
	if ok {
		return m, nil
	}
	if err := ctx.Err(); err != nil {
		return msg.Msg{}, err
	}
	return msg.Msg{}, cherr.ErrLockOwnerDropped
}
