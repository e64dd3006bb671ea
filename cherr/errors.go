// Package cherr collects the error taxonomy shared by the element and group
// packages. These are sentinel values and a couple of small wrapped-error
// types, not a bespoke Result type, so callers use errors.Is/errors.As.
package cherr

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelClosed means an inbound stream ended with no producers
	// remaining. Treated as fault.
	ErrChannelClosed = errors.New("childgroup: inbound channel closed")

	// ErrProtocolViolation means a reserved control variant (Deploy, Prune,
	// SuperviseWith, or an element receiving Stopped/Faulted) was received
	// at a layer that must not see it.
	ErrProtocolViolation = errors.New("childgroup: reserved control message received")

	// ErrSendOnClosedRoute means a reference handle attempted to send on a
	// channel whose receiver has gone away.
	ErrSendOnClosedRoute = errors.New("childgroup: send on closed route")

	// ErrLockOwnerDropped means the context-state lock could not be
	// acquired because its owner is gone. Treated as fault for the element.
	ErrLockOwnerDropped = errors.New("childgroup: context-state lock owner dropped")
)

// PanicError wraps a recovered panic value so it can be treated identically
// to a user-reported fault.
type PanicError struct {
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("childgroup: recovered panic: %v", e.Recovered)
}

// NewPanicError builds a PanicError from a recover() result and stack trace.
func NewPanicError(recovered any, stack []byte) *PanicError {
	return &PanicError{Recovered: recovered, Stack: stack}
}
