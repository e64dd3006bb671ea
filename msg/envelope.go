// Package msg defines the tagged message envelope routed between a group,
// its elements, and the user work functions running inside them.
//
// An envelope carries either an Owned payload, addressed to exactly one
// element and never duplicated, or a Shared payload, reference-counted and
// fanned out to every element in a group. The two arms are constructed
// through distinct entry points (Owned/Shared) so the "owned is never
// duplicated" invariant holds by construction rather than by a runtime
// check.
package msg

import "sync/atomic"

type kind int

const (
	kindOwned kind = iota
	kindShared
)

// sharedCell is the reference-counted backing store for a Shared payload.
// refs starts at 1 (the Msg returned by Shared) and is incremented by
// TryClone and decremented by Drop; TryUnwrap only succeeds while refs==1.
type sharedCell struct {
	value any
	refs  int32
}

// Msg is the envelope. The zero value is not meaningful; construct one with
// Owned or Shared.
type Msg struct {
	k      kind
	owned  any
	shared *sharedCell
}

// Owned wraps v as a single-consumer payload addressed to one element.
func Owned(v any) Msg {
	return Msg{k: kindOwned, owned: v}
}

// Shared wraps v as a reference-counted payload fanned out to a whole group.
func Shared(v any) Msg {
	return Msg{k: kindShared, shared: &sharedCell{value: v, refs: 1}}
}

// IsBroadcast reports whether this envelope carries a Shared payload.
func (m Msg) IsBroadcast() bool {
	return m.k == kindShared
}

// TryClone duplicates a Shared envelope by incrementing its reference count;
// it returns false for an Owned envelope, which by contract is never
// duplicated.
func (m Msg) TryClone() (Msg, bool) {
	if m.k != kindShared {
		return Msg{}, false
	}
	atomic.AddInt32(&m.shared.refs, 1)
	return Msg{k: kindShared, shared: m.shared}, true
}

// Drop releases a clone obtained from TryClone or Shared without consuming
// it via TryUnwrap. Calling Drop on an Owned envelope is a no-op. It is safe
// to call Drop at most once per Msg value that was never consumed.
func (m Msg) Drop() {
	if m.k != kindShared || m.shared == nil {
		return
	}
	atomic.AddInt32(&m.shared.refs, -1)
}

// Downcast consumes an Owned envelope, returning the payload if its dynamic
// type matches T. On mismatch, or if m is Shared, it returns the envelope
// unchanged alongside a false ok so the caller can try another type or
// route.
func Downcast[T any](m Msg) (T, Msg, bool) {
	var zero T
	if m.k != kindOwned {
		return zero, m, false
	}
	v, ok := m.owned.(T)
	if !ok {
		return zero, m, false
	}
	return v, Msg{}, true
}

// DowncastShared returns a new strong reference to a Shared envelope's
// payload without consuming m, succeeding only when the dynamic type
// matches T. It may be called any number of times; each call increments the
// underlying reference count, so callers that don't intend to keep the
// returned handle should Drop it.
func DowncastShared[T any](m Msg) (T, bool) {
	var zero T
	if m.k != kindShared {
		return zero, false
	}
	v, ok := m.shared.value.(T)
	if !ok {
		return zero, false
	}
	atomic.AddInt32(&m.shared.refs, 1)
	return v, true
}

// TryUnwrap succeeds for a Shared envelope only when m is the unique
// remaining holder of its backing cell and the dynamic type matches T,
// consuming the cell on success. For an Owned envelope it delegates to
// Downcast. On failure it returns m unchanged.
func TryUnwrap[T any](m Msg) (T, Msg, bool) {
	if m.k == kindOwned {
		return Downcast[T](m)
	}
	var zero T
	if m.k != kindShared {
		return zero, m, false
	}
	v, ok := m.shared.value.(T)
	if !ok {
		return zero, m, false
	}
	if !atomic.CompareAndSwapInt32(&m.shared.refs, 1, 0) {
		return zero, m, false
	}
	return v, Msg{}, true
}
