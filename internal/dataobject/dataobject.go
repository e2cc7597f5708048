// Package dataobject implements the reference-counted byte-source
// abstraction segments point at: an in-memory block, or a page-mapped
// window onto an open file. Grounded on the reference library's
// data_object.c dispatch table, translated from a function-pointer
// struct into a Go interface.
package dataobject

import "github.com/pkg/errors"

// ErrOutOfRange is returned when a read or write falls outside the
// object's current size.
var ErrOutOfRange = errors.New("dataobject: offset/length out of range")

// DataObject is a reference-counted source of bytes. Two data objects
// that Compare equal must always serve identical bytes for identical
// (offset, length) — the save engine's overlap graph relies on this to
// decide which segments alias the file being written.
type DataObject interface {
	// GetData returns a slice of at least one byte starting at offset
	// (an empty slice when offset == Size()), valid until the next call that invalidates the object's internal
	// window (for file objects, any GetData call at a different page).
	// Callers loop, advancing offset by len(returned slice), until they
	// have all the bytes they need.
	GetData(offset int64) ([]byte, error)

	// Size reports the total number of bytes available from the object.
	Size() int64

	// Compare reports whether two data objects are the same underlying
	// source (e.g. the same open file by device/inode), not merely
	// byte-for-byte equal.
	Compare(other DataObject) bool

	// Ref increments the reference count.
	Ref()

	// Unref decrements the reference count, releasing the underlying
	// resource (unmapping, closing) when it reaches zero.
	Unref()
}
