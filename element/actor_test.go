package element

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quietloop-run/childgroup/bus"
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/internal/queue"
	"github.com/quietloop-run/childgroup/msg"
	"github.com/quietloop-run/childgroup/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// newTestActor builds an Actor plus its mailbox and a Context wired to the
// same mailbox, the way group.Controller.spawnElements wires an element's
// Actor and Context to share one queue.
func newTestActor(t *testing.T, workFn func(*Context) Work) (*Actor, *bus.Endpoint, *bus.Endpoint) {
	t.Helper()
	elemID := id.New()
	inbox := bus.New(elemID)
	parent := bus.New(id.New())
	mailbox := queue.New[msg.Msg]()

	selfRef := ref.NewElementRef(elemID, inbox)
	groupRef := ref.NewGroupRef(id.New(), parent, []ref.ElementRef{selfRef})
	ectx := NewContext(elemID, selfRef, groupRef, nil, mailbox)

	return NewActor(elemID, workFn(ectx), inbox, parent, mailbox), inbox, parent
}

func TestActorBuffersMessagesBeforeStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	received := make(chan string, 1)
	a, inbox, parent := newTestActor(t, func(ectx *Context) Work {
		return func(ctx context.Context) error {
			m, err := ectx.Receive(ctx)
			if err != nil {
				return err
			}
			v, _, ok := msg.Downcast[string](m)
			if ok {
				received <- v
			}
			return nil
		}
	})

	go a.Run(context.Background())

	require.NoError(t, inbox.Send(msg.NewTell(msg.Owned("hello"))))
	require.NoError(t, inbox.Send(msg.NewStart()))

	select {
	case v := <-received:
		assert.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatal("work never observed buffered message")
	}

	cm, ok := parent.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Stopped, cm.Kind)
}

func TestActorPanicTranslatesToFault(t *testing.T) {
	defer goleak.VerifyNone(t)

	a, inbox, parent := newTestActor(t, func(*Context) Work {
		return func(ctx context.Context) error {
			panic("boom")
		}
	})

	go a.Run(context.Background())
	require.NoError(t, inbox.Send(msg.NewStart()))

	cm, ok := parent.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Faulted, cm.Kind)
	require.Error(t, cm.Cause)
}

func TestActorUserErrorTranslatesToFault(t *testing.T) {
	defer goleak.VerifyNone(t)

	wantErr := errors.New("boom")
	a, inbox, parent := newTestActor(t, func(*Context) Work {
		return func(ctx context.Context) error {
			return wantErr
		}
	})

	go a.Run(context.Background())
	require.NoError(t, inbox.Send(msg.NewStart()))

	cm, ok := parent.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Faulted, cm.Kind)
	assert.ErrorIs(t, cm.Cause, wantErr)
}

func TestActorStopTerminatesCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	running := make(chan struct{})
	block := make(chan struct{})
	a, inbox, parent := newTestActor(t, func(*Context) Work {
		return func(ctx context.Context) error {
			close(running)
			<-ctx.Done()
			close(block)
			return nil
		}
	})

	go a.Run(context.Background())
	require.NoError(t, inbox.Send(msg.NewStart()))

	select {
	case <-running:
	case <-time.After(time.Second):
		t.Fatal("work never started")
	}
	require.NoError(t, inbox.Send(msg.NewStop()))

	cm, ok := parent.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Stopped, cm.Kind)

	select {
	case <-block:
	case <-time.After(time.Second):
		t.Fatal("work was never cancelled after Stop")
	}
}

func TestActorReservedControlIsProtocolViolation(t *testing.T) {
	defer goleak.VerifyNone(t)

	a, inbox, parent := newTestActor(t, func(*Context) Work {
		return func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}
	})

	go a.Run(context.Background())
	require.NoError(t, inbox.Send(msg.NewStart()))
	require.NoError(t, inbox.Send(msg.CtlMsg{Kind: msg.Deploy}))

	cm, ok := parent.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Faulted, cm.Kind)
	require.Error(t, cm.Cause)
}

func TestActorTerminatesWhenInboxClosedBeforeStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	a, inbox, parent := newTestActor(t, func(*Context) Work {
		return func(ctx context.Context) error {
			return nil
		}
	})

	go a.Run(context.Background())
	inbox.Close()

	cm, ok := parent.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Faulted, cm.Kind)
}
