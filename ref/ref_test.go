package ref

import (
	"context"
	"testing"

	"github.com/quietloop-run/childgroup/bus"
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/msg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestElementRefSendMsgWrapsOwned(t *testing.T) {
	defer goleak.VerifyNone(t)

	target := bus.New(id.New())
	r := NewElementRef(target.ID(), target)

	require.NoError(t, r.SendMsg("hello"))

	cm, ok := target.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Tell, cm.Kind)
	v, _, ok := msg.Downcast[string](cm.Body)
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestElementRefStopAndKill(t *testing.T) {
	defer goleak.VerifyNone(t)

	target := bus.New(id.New())
	r := NewElementRef(target.ID(), target)

	require.NoError(t, r.Stop())
	cm, ok := target.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Stop, cm.Kind)

	require.NoError(t, r.Kill())
	cm, ok = target.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Kill, cm.Kind)
}

func TestGroupRefElemsIsASnapshot(t *testing.T) {
	target := bus.New(id.New())
	e1 := NewElementRef(id.New(), bus.New(id.New()))
	e2 := NewElementRef(id.New(), bus.New(id.New()))

	g := NewGroupRef(id.New(), target, []ElementRef{e1, e2})

	got := g.Elems()
	require.Len(t, got, 2)

	got[0] = ElementRef{}
	assert.NotEqual(t, got[0], g.Elems()[0])
}

func TestGroupRefBroadcastWrapsShared(t *testing.T) {
	defer goleak.VerifyNone(t)

	target := bus.New(id.New())
	g := NewGroupRef(id.New(), target, nil)

	require.NoError(t, g.Broadcast("x"))

	cm, ok := target.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Tell, cm.Kind)
	assert.True(t, cm.Body.IsBroadcast())
}

func TestGroupRefStopAndKill(t *testing.T) {
	defer goleak.VerifyNone(t)

	target := bus.New(id.New())
	g := NewGroupRef(id.New(), target, nil)

	require.NoError(t, g.Stop())
	cm, ok := target.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Stop, cm.Kind)

	require.NoError(t, g.Kill())
	cm, ok = target.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, msg.Kill, cm.Kind)
}
