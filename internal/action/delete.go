package action

import (
	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

// Delete records removing a range from a buffer. Do captures whatever
// segcol.Delete returns so Undo can restore it; a fresh Do (as happens
// on redo) must discard any previously captured segments first, mirroring
// buffer_action_edit.c's freeing of a stale impl->deleted before
// overwriting it.
type Delete struct {
	offset, length int64
	deleted        []*segment.Segment
}

// NewDelete creates a delete action for [offset, offset+length).
func NewDelete(offset, length int64) *Delete {
	return &Delete{offset: offset, length: length}
}

func (a *Delete) Do(sc *segcol.SegmentCollection) (EventInfo, error) {
	a.freeDeleted()

	removed, err := sc.Delete(a.offset, a.length)
	if err != nil {
		return EventInfo{}, err
	}
	a.deleted = removed.Segments()
	return EventInfo{RangeStart: a.offset, RangeLength: a.length}, nil
}

func (a *Delete) Undo(sc *segcol.SegmentCollection) (EventInfo, error) {
	if err := sc.InsertSegments(a.offset, a.deleted); err != nil {
		return EventInfo{}, err
	}
	return EventInfo{RangeStart: a.offset, RangeLength: a.length}, nil
}

func (a *Delete) PrivateCopy(target dataobject.DataObject) error {
	return privateCopySegments(a.deleted, target)
}

func (a *Delete) freeDeleted() {
	for _, s := range a.deleted {
		s.Free()
	}
	a.deleted = nil
}

func (a *Delete) Free() {
	a.freeDeleted()
}
