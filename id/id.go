// Package id provides the opaque, globally-unique identifier used to key
// elements and groups. Identity is defined by equality, so the zero value is
// never handed out as a live id.
package id

import "github.com/google/uuid"

// ID is an opaque, cheaply cloneable token. Two IDs are the same identity
// iff they compare equal.
type ID struct {
	v uuid.UUID
}

// New returns a fresh, globally-unique ID.
func New() ID {
	return ID{v: uuid.New()}
}

// String renders the ID for logging. It is not parseable back into an ID by
// contract — callers that need round-tripping should hold the ID value
// itself, not its string form.
func (i ID) String() string {
	return i.v.String()
}

// IsZero reports whether this is the unset ID value.
func (i ID) IsZero() bool {
	return i.v == uuid.Nil
}
