package action

import (
	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

// Insert records splicing content into a buffer at a fixed offset.
// Grounded on buffer_action_edit.c's insert action: structurally
// identical to Append except the insertion point is caller-supplied
// rather than always the end of the buffer.
type Insert struct {
	content []*segment.Segment
	offset  int64
	length  int64
}

// NewInsert creates an insert action splicing content in at offset.
// Insert takes ownership of content (Free releases it) and inserts
// clones of it on each Do.
func NewInsert(offset int64, content []*segment.Segment) *Insert {
	var length int64
	for _, s := range content {
		length += s.Size
	}
	return &Insert{content: content, offset: offset, length: length}
}

func (a *Insert) Do(sc *segcol.SegmentCollection) (EventInfo, error) {
	if err := sc.InsertSegments(a.offset, a.content); err != nil {
		return EventInfo{}, err
	}
	return EventInfo{RangeStart: a.offset, RangeLength: a.length}, nil
}

func (a *Insert) Undo(sc *segcol.SegmentCollection) (EventInfo, error) {
	if _, err := sc.Delete(a.offset, a.length); err != nil {
		return EventInfo{}, err
	}
	return EventInfo{RangeStart: a.offset, RangeLength: a.length}, nil
}

func (a *Insert) PrivateCopy(target dataobject.DataObject) error {
	return privateCopySegments(a.content, target)
}

func (a *Insert) Free() {
	for _, s := range a.content {
		s.Free()
	}
	a.content = nil
}
