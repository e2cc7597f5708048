// Package action implements the reversible edit operations that make up
// a buffer's undo/redo log: Append, Insert, Delete, and Multi (a nested
// batch of the other three). Grounded on the reference library's
// buffer_action_edit.c.
package action

import (
	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
)

// EventInfo is the affected range an action reports after Do/Undo, for
// Buffer to turn into a subscriber-facing Event.
type EventInfo struct {
	RangeStart  int64
	RangeLength int64
}

// Action is one entry in the undo/redo log.
type Action interface {
	// Do applies the action to segcol and returns the range it affected.
	Do(sc *segcol.SegmentCollection) (EventInfo, error)

	// Undo reverses a previously-Done action.
	Undo(sc *segcol.SegmentCollection) (EventInfo, error)

	// PrivateCopy replaces any internal reference to target with a fresh
	// in-memory snapshot, so the action survives target being
	// overwritten by a save. Grounded on segment_inplace_private_copy /
	// segcol_inplace_private_copy.
	PrivateCopy(target dataobject.DataObject) error

	// Free releases any data objects/segments the action retains.
	Free()
}
