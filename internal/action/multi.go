package action

import (
	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
)

// Multi groups a sequence of actions so they undo/redo as one entry in
// the buffer's log. Grounded on buffer_action_edit.c's multi action:
// Do runs the sub-actions in order, Undo runs them in reverse.
type Multi struct {
	actions []Action
}

// NewMulti wraps actions (already-constructed but not yet Done) as a
// single composite action.
func NewMulti(actions []Action) *Multi {
	return &Multi{actions: actions}
}

// Append adds another sub-action to an in-progress Multi, for callers
// building one up incrementally (Buffer.BeginMulti/EndMulti).
func (m *Multi) Append(a Action) {
	m.actions = append(m.actions, a)
}

func (m *Multi) Do(sc *segcol.SegmentCollection) (EventInfo, error) {
	var first, last EventInfo
	for i, a := range m.actions {
		info, err := a.Do(sc)
		if err != nil {
			return EventInfo{}, err
		}
		if i == 0 {
			first = info
		}
		last = info
	}
	return spanEventInfo(first, last), nil
}

func (m *Multi) Undo(sc *segcol.SegmentCollection) (EventInfo, error) {
	var first, last EventInfo
	for i := len(m.actions) - 1; i >= 0; i-- {
		info, err := m.actions[i].Undo(sc)
		if err != nil {
			return EventInfo{}, err
		}
		if i == len(m.actions)-1 {
			first = info
		}
		last = info
	}
	return spanEventInfo(first, last), nil
}

func (m *Multi) PrivateCopy(target dataobject.DataObject) error {
	for _, a := range m.actions {
		if err := a.PrivateCopy(target); err != nil {
			return err
		}
	}
	return nil
}

func (m *Multi) Free() {
	for _, a := range m.actions {
		a.Free()
	}
	m.actions = nil
}

// spanEventInfo reports the smallest range covering both a and b, so a
// Multi's event reflects the whole batch rather than just its last step.
func spanEventInfo(a, b EventInfo) EventInfo {
	start := a.RangeStart
	if b.RangeStart < start {
		start = b.RangeStart
	}
	end := a.RangeStart + a.RangeLength
	if e := b.RangeStart + b.RangeLength; e > end {
		end = e
	}
	return EventInfo{RangeStart: start, RangeLength: end - start}
}
