// Package group implements the Group Controller: the owner of R Element
// Actors that multiplexes a children group's inbound control stream to
// them, tracks their liveness, and escalates to the supervisor when any
// element stops or faults.
package group

import (
	"context"

	"github.com/quietloop-run/childgroup/bus"
	"github.com/quietloop-run/childgroup/cherr"
	"github.com/quietloop-run/childgroup/element"
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/internal/queue"
	"github.com/quietloop-run/childgroup/logger"
	"github.com/quietloop-run/childgroup/msg"
	"github.com/quietloop-run/childgroup/ref"
	"github.com/quietloop-run/childgroup/supervisor"
	"golang.org/x/sync/errgroup"
)

// InitFunc is the user work factory: a callable mapping a fresh Context into
// a Work function. It is invoked once per element and once per Reset, so it
// must be safely re-invocable, not one-shot.
type InitFunc func(*element.Context) element.Work

type launchedElement struct {
	sender *bus.Endpoint
	done   chan struct{}
}

// Controller is the group lifecycle state machine. It is constructed with
// (init, broadcast endpoint, supervisor, redundancy), spawns R elements
// eagerly, and is thereafter driven by Run.
type Controller struct {
	id         id.ID
	ctx        context.Context
	bcast      *bus.Endpoint
	sup        supervisor.Handle
	init       InitFunc
	redundancy int

	launched map[id.ID]launchedElement
	preStart []msg.CtlMsg
	started  bool
}

// New constructs a Controller and eagerly spawns its redundancy elements.
// ctx bounds the lifetime of every element goroutine spawned by this and
// subsequent Reset generations.
func New(ctx context.Context, groupID id.ID, bcast *bus.Endpoint, sup supervisor.Handle, redundancy int, init InitFunc) *Controller {
	c := &Controller{
		id:         groupID,
		ctx:        ctx,
		bcast:      bcast,
		sup:        sup,
		init:       init,
		redundancy: redundancy,
		launched:   make(map[id.ID]launchedElement, redundancy),
	}
	c.spawnElements()
	return c
}

// ID returns this group's identity.
func (c *Controller) ID() id.ID { return c.id }

// Redundancy returns R, the target pool size.
func (c *Controller) Redundancy() int { return c.redundancy }

// LaunchedIDs returns the ids of the currently live elements. Exposed
// primarily so the redundancy invariant is directly testable.
func (c *Controller) LaunchedIDs() []id.ID {
	ids := make([]id.ID, 0, len(c.launched))
	for elemID := range c.launched {
		ids = append(ids, elemID)
	}
	return ids
}

// Ref builds a GroupRef snapshotting the elements currently live.
func (c *Controller) Ref() ref.GroupRef {
	elems := make([]ref.ElementRef, 0, len(c.launched))
	for elemID, le := range c.launched {
		elems = append(elems, ref.NewElementRef(elemID, le.sender))
	}
	return ref.NewGroupRef(c.id, c.bcast, elems)
}

// spawnElements builds redundancy fresh elements: a per-element bus
// Endpoint parented to the group, a locked mailbox, the user Context, the
// Work future from init, and a supervised Actor goroutine, then records
// each in launched.
func (c *Controller) spawnElements() {
	ids := make([]id.ID, c.redundancy)
	inboxes := make([]*bus.Endpoint, c.redundancy)
	elemRefs := make([]ref.ElementRef, c.redundancy)
	for i := range ids {
		ids[i] = id.New()
		inboxes[i] = bus.New(ids[i])
		elemRefs[i] = ref.NewElementRef(ids[i], inboxes[i])
	}

	groupRef := ref.NewGroupRef(c.id, c.bcast, elemRefs)

	for i, elemID := range ids {
		mailbox := queue.New[msg.Msg]()
		elemCtx := element.NewContext(elemID, elemRefs[i], groupRef, c.sup, mailbox)
		work := c.init(elemCtx)
		actor := element.NewActor(elemID, work, inboxes[i], c.bcast, mailbox)

		c.bcast.Register(inboxes[i])

		done := make(chan struct{})
		go func(a *element.Actor, done chan struct{}) {
			defer close(done)
			a.Run(c.ctx)
		}(actor, done)

		c.launched[elemID] = launchedElement{sender: inboxes[i], done: done}
	}

	// A Reset that happens after the group already saw Start replays the
	// latch onto the freshly spawned generation, since the supervisor has
	// no further occasion to send a second Start.
	if c.started {
		for _, inbox := range inboxes {
			_ = inbox.Send(msg.NewStart())
		}
	}
}

// Run drives the group through Buffering -> Running -> Terminated,
// returning the Controller itself once terminated so the supervisor can
// later call Reset to restart it.
func (c *Controller) Run() *Controller {
	for !c.started {
		cm, ok := c.bcast.Recv(c.ctx)
		if !ok {
			c.terminateChannelClosed()
			return c
		}

		switch cm.Kind {
		case msg.Start:
			c.started = true
			c.bcast.Broadcast(msg.NewStart())

			pending := c.preStart
			c.preStart = nil
			for _, pm := range pending {
				if c.handle(pm) {
					return c
				}
			}
		default:
			c.preStart = append(c.preStart, cm)
		}
	}

	for {
		cm, ok := c.bcast.Recv(c.ctx)
		if !ok {
			c.terminateChannelClosed()
			return c
		}
		if c.handle(cm) {
			return c
		}
	}
}

// handle implements the group-level control message semantics. It returns
// true once the group has terminated.
func (c *Controller) handle(cm msg.CtlMsg) bool {
	switch cm.Kind {
	case msg.Stop:
		c.killAll()
		c.sup.Stopped(supervisor.Escalation{GroupID: c.id})
		return true

	case msg.Kill:
		c.killAll()
		c.sup.Stopped(supervisor.Escalation{GroupID: c.id})
		return true

	case msg.Tell:
		c.bcast.Broadcast(cm)
		return false

	case msg.Stopped:
		if _, live := c.launched[cm.Source]; !live {
			return false
		}
		c.killAll()
		c.sup.Stopped(supervisor.Escalation{GroupID: c.id, ElementID: cm.Source})
		return true

	case msg.Faulted:
		if _, live := c.launched[cm.Source]; !live {
			return false
		}
		c.killAll()
		c.sup.Faulted(supervisor.Escalation{GroupID: c.id, ElementID: cm.Source, Cause: cm.Cause})
		return true

	case msg.Deploy, msg.Prune, msg.SuperviseWith:
		// Reserved at this layer; fail loudly via the ordinary fault path
		// rather than silently dropping or panicking.
		c.killAll()
		c.sup.Faulted(supervisor.Escalation{GroupID: c.id, Cause: cherr.ErrProtocolViolation})
		return true

	default: // Start is unreachable here: consumed by Run before handle runs.
		return false
	}
}

// terminateChannelClosed handles the group's own inbound stream closing: a
// one-for-all kill followed by a fault escalation.
func (c *Controller) terminateChannelClosed() {
	c.killAll()
	c.sup.Faulted(supervisor.Escalation{GroupID: c.id, Cause: cherr.ErrChannelClosed})
}

// killAll sends Kill to every launched element and awaits their join.
// Sending Kill to an element that has already terminated on its own fails
// silently (its inbox is already closed), which is fine: killAll's job is
// only to guarantee nothing is left running, and awaitAll already returns
// immediately for an element whose goroutine has already exited.
func (c *Controller) killAll() {
	c.bcast.Broadcast(msg.NewKill())
	c.awaitAll()
}

// awaitAll blocks until every currently-launched element's goroutine has
// returned, fanning the joins in with errgroup.
func (c *Controller) awaitAll() {
	var g errgroup.Group
	for _, le := range c.launched {
		done := le.done
		g.Go(func() error {
			<-done
			return nil
		})
	}
	_ = g.Wait()
}

// Reset kills every current element, awaits their join, swaps in new
// broadcast/supervisor endpoints, and spawns a fresh generation — the
// supervisor's restart primitive.
func (c *Controller) Reset(ctx context.Context, newBcast *bus.Endpoint, newSupervisor supervisor.Handle) {
	c.killAll()

	c.ctx = ctx
	c.bcast = newBcast
	c.sup = newSupervisor
	c.launched = make(map[id.ID]launchedElement, c.redundancy)
	c.preStart = nil

	logger.Get().Infow("resetting children group", "group", c.id.String(), "redundancy", c.redundancy)
	c.spawnElements()
}
