package supervisor

import (
	"errors"
	"testing"

	"github.com/quietloop-run/childgroup/id"
	"github.com/stretchr/testify/assert"
)

func TestSupervisorLogsWithoutRestartFunc(t *testing.T) {
	s := New(id.New(), nil)
	assert.NotPanics(t, func() {
		s.Stopped(Escalation{GroupID: id.New()})
		s.Faulted(Escalation{GroupID: id.New(), Cause: errors.New("boom")})
	})
}

func TestSupervisorInvokesRestartOnStopped(t *testing.T) {
	var got Escalation
	calls := 0
	s := New(id.New(), func(e Escalation) {
		calls++
		got = e
	})

	groupID := id.New()
	s.Stopped(Escalation{GroupID: groupID})

	assert.Equal(t, 1, calls)
	assert.Equal(t, groupID, got.GroupID)
}

func TestSupervisorInvokesRestartOnFaulted(t *testing.T) {
	var got Escalation
	calls := 0
	s := New(id.New(), func(e Escalation) {
		calls++
		got = e
	})

	groupID := id.New()
	cause := errors.New("boom")
	s.Faulted(Escalation{GroupID: groupID, Cause: cause})

	assert.Equal(t, 1, calls)
	assert.Equal(t, groupID, got.GroupID)
	assert.ErrorIs(t, got.Cause, cause)
}

func TestSupervisorID(t *testing.T) {
	supID := id.New()
	s := New(supID, nil)
	assert.Equal(t, supID, s.ID())
}
