// Package supervisor gives a concrete, minimal body to the supervisor
// collaborator: the parent that creates a children group and receives its
// escalation signals. The children-group packages depend only on the
// Handle interface; this package's Supervisor is one reference
// implementation of it, extended with an escalation callback so a caller
// can wire up a restart policy without this package needing to import
// group (which would create an import cycle, since group depends on
// supervisor.Handle).
package supervisor

import (
	"github.com/quietloop-run/childgroup/id"
	"github.com/quietloop-run/childgroup/logger"
)

// Escalation describes a terminal lifecycle transition reported to a
// supervisor. ElementID names the element whose Stopped/Faulted triggered
// the escalation; it is the zero ID when no specific element did (the
// group's own inbound stream closed, or the group received Stop, Kill or a
// reserved control message).
type Escalation struct {
	GroupID   id.ID
	ElementID id.ID
	Cause     error
}

// Handle is the boundary the group Controller escalates across. It is
// intentionally tiny: the supervisor itself is out of scope for this
// layer, which only needs somewhere to report Stopped/Faulted.
type Handle interface {
	Stopped(Escalation)
	Faulted(Escalation)
}

// RestartFunc lets a Supervisor trigger a caller-supplied restart policy
// without this package depending on package group.
type RestartFunc func(Escalation)

// Supervisor is a reference Handle implementation: it logs every escalation
// and, if configured with a RestartFunc, invokes it.
type Supervisor struct {
	id      id.ID
	restart RestartFunc
}

// New builds a Supervisor identified by supervisorID. restart may be nil,
// in which case escalations are only logged.
func New(supervisorID id.ID, restart RestartFunc) *Supervisor {
	return &Supervisor{id: supervisorID, restart: restart}
}

// ID returns the supervisor's own identity.
func (s *Supervisor) ID() id.ID { return s.id }

// Stopped implements Handle.
func (s *Supervisor) Stopped(e Escalation) {
	logger.Get().Infow("children group stopped",
		"supervisor", s.id.String(),
		"group", e.GroupID.String(),
		"element", e.ElementID.String(),
	)
	if s.restart != nil {
		s.restart(e)
	}
}

// Faulted implements Handle.
func (s *Supervisor) Faulted(e Escalation) {
	logger.Get().Errorw("children group faulted",
		"supervisor", s.id.String(),
		"group", e.GroupID.String(),
		"element", e.ElementID.String(),
		"cause", e.Cause,
	)
	if s.restart != nil {
		s.restart(e)
	}
}
