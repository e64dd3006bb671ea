package element

import (
	"context"
	"runtime/debug"

	"github.com/quietloop-run/childgroup/bus"
	"github.com/quietloop-run/childgroup/cherr"
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/internal/queue"
	"github.com/quietloop-run/childgroup/logger"
	"github.com/quietloop-run/childgroup/msg"
)

// Outcome records why an element's Work function and its actor loop
// terminated. A nil Err means a clean stop; a non-nil Err covers UserError,
// UserPanic, ChannelClosed and ProtocolViolation alike.
type Outcome struct {
	Err error
}

// Faulted reports whether this Outcome represents a fault rather than a
// clean stop.
func (o Outcome) Faulted() bool { return o.Err != nil }

// Actor is one element's lifecycle controller. It is constructed by the
// group Controller and consumed by a single call to Run, which owns the
// goroutine until termination.
type Actor struct {
	id     id.ID
	inbox  *bus.Endpoint // this element's own inbound endpoint
	parent *bus.Endpoint // the owning group's inbound endpoint, for escalation

	work    Work
	mailbox *queue.Unbounded[msg.Msg]

	preStart []msg.CtlMsg
	started  bool
}

// NewActor builds the controller for one pooled element. mailbox must be
// the same queue handed to the Context constructed for this element, so
// Tell handling and Context.Receive observe the same FIFO.
func NewActor(elemID id.ID, work Work, inbox, parent *bus.Endpoint, mailbox *queue.Unbounded[msg.Msg]) *Actor {
	return &Actor{
		id:      elemID,
		inbox:   inbox,
		parent:  parent,
		work:    work,
		mailbox: mailbox,
	}
}

// ID returns this element's identity.
func (a *Actor) ID() id.ID { return a.id }

// Run drives the element through Buffering -> Running -> Terminated. It
// returns only once the element has terminated, having already reported
// Stopped/Faulted to its parent group.
func (a *Actor) Run(parentCtx context.Context) {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	if !a.buffer(ctx) {
		return
	}
	a.run(ctx, cancel)
}

// buffer implements the Buffering state: control messages are queued until
// Start arrives, then pre-start messages are drained in FIFO order through
// handle before Running begins. It returns false if the element terminated
// while still buffering (channel closed, or a drained message was itself
// terminal).
func (a *Actor) buffer(ctx context.Context) bool {
	for !a.started {
		cm, ok := a.inbox.Recv(ctx)
		if !ok {
			a.finish(Outcome{Err: cherr.ErrChannelClosed})
			return false
		}

		switch cm.Kind {
		case msg.Start:
			a.started = true
			pending := a.preStart
			a.preStart = nil
			for _, pm := range pending {
				if term, oc := a.handle(pm); term {
					a.finish(oc)
					return false
				}
			}
		default:
			a.preStart = append(a.preStart, cm)
		}
	}
	return true
}

// run implements the Running state: first draining every control message
// already queued, so a terminal message waiting ahead of the user Work
// function pre-empts it rather than racing it, then running Work and
// further inbound control messages concurrently, terminating on whichever
// finishes first.
func (a *Actor) run(ctx context.Context, cancel context.CancelFunc) {
	if term, oc := a.drainReady(); term {
		cancel()
		a.finish(oc)
		return
	}

	workDone := make(chan Outcome, 1)
	go a.runWork(ctx, workDone)

	msgCh := make(chan msg.CtlMsg)
	closedCh := make(chan struct{})
	go func() {
		for {
			cm, ok := a.inbox.Recv(ctx)
			if !ok {
				close(closedCh)
				return
			}
			select {
			case msgCh <- cm:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case cm := <-msgCh:
			if term, oc := a.handle(cm); term {
				cancel()
				a.finish(oc)
				return
			}
		case <-closedCh:
			cancel()
			a.finish(Outcome{Err: cherr.ErrChannelClosed})
			return
		case oc := <-workDone:
			cancel()
			a.finish(oc)
			return
		}
	}
}

// drainReady handles every control message already queued for this element,
// in FIFO order, without blocking. It stops at the first terminal message,
// reporting it so the caller never polls Work after a terminal message was
// already waiting.
func (a *Actor) drainReady() (bool, Outcome) {
	for {
		cm, ok := a.inbox.TryRecv()
		if !ok {
			return false, Outcome{}
		}
		if term, oc := a.handle(cm); term {
			return term, oc
		}
	}
}

// runWork polls the user Work function to completion, catching any panic
// and translating it into a fault outcome equivalent to a returned error.
// The element actor never itself unwinds into its goroutine's caller.
func (a *Actor) runWork(ctx context.Context, done chan<- Outcome) {
	defer func() {
		if r := recover(); r != nil {
			done <- Outcome{Err: cherr.NewPanicError(r, debug.Stack())}
		}
	}()

	err := a.work(ctx)
	done <- Outcome{Err: err}
}

// handle implements the element-level control message semantics. It
// returns term=true when the message terminates the element, alongside
// the Outcome to report.
func (a *Actor) handle(cm msg.CtlMsg) (term bool, oc Outcome) {
	switch cm.Kind {
	case msg.Stop, msg.Kill:
		// Kill is not distinguished from Stop at this layer; the
		// distinction is a controller-level one.
		return true, Outcome{}

	case msg.Tell:
		if !a.mailbox.Push(cm.Body) {
			return true, Outcome{Err: cherr.ErrLockOwnerDropped}
		}
		return false, Outcome{}

	case msg.Deploy, msg.Prune, msg.SuperviseWith, msg.Stopped, msg.Faulted:
		// Reserved: must fail loudly rather than silently drop, surfaced
		// as a typed, terminal ProtocolViolation.
		return true, Outcome{Err: cherr.ErrProtocolViolation}

	default: // Start is unreachable here: consumed by buffer before handle runs.
		return true, Outcome{Err: cherr.ErrProtocolViolation}
	}
}

// finish reports this element's termination to its parent group and closes
// its own inbound endpoint and its mailbox.
func (a *Actor) finish(oc Outcome) {
	if oc.Faulted() {
		logger.Get().Errorw("element faulted", "element", a.id.String(), "cause", oc.Err)
		_ = a.parent.Send(msg.NewFaulted(a.id, oc.Err))
	} else {
		logger.Get().Debugw("element stopped", "element", a.id.String())
		_ = a.parent.Send(msg.NewStopped(a.id))
	}
	a.inbox.Close()
	a.mailbox.Close()
}
