package action

import (
	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

// Append records adding content to the end of a buffer. Undo removes
// exactly the range it added; redo re-inserts the retained content,
// which makes Append's own Do idempotent across redo cycles. Grounded on
// buffer_action_edit.c's append action.
type Append struct {
	content []*segment.Segment
	offset  int64 // set on first Do, from segcol.Size() before insertion
	length  int64
}

// NewAppend creates an append action for the given source segment(s).
// Append takes ownership of content (Free releases it) and inserts
// clones of it on each Do.
func NewAppend(content []*segment.Segment) *Append {
	var length int64
	for _, s := range content {
		length += s.Size
	}
	return &Append{content: content, length: length}
}

func (a *Append) Do(sc *segcol.SegmentCollection) (EventInfo, error) {
	a.offset = sc.Size()
	sc.AppendSegments(a.content)
	return EventInfo{RangeStart: a.offset, RangeLength: a.length}, nil
}

func (a *Append) Undo(sc *segcol.SegmentCollection) (EventInfo, error) {
	if _, err := sc.Delete(a.offset, a.length); err != nil {
		return EventInfo{}, err
	}
	return EventInfo{RangeStart: a.offset, RangeLength: a.length}, nil
}

func (a *Append) PrivateCopy(target dataobject.DataObject) error {
	return privateCopySegments(a.content, target)
}

func (a *Append) Free() {
	for _, s := range a.content {
		s.Free()
	}
	a.content = nil
}
