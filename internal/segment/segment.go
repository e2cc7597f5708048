// Package segment implements the value type segments of a buffer are
// built from: a (data object, start, size) triple. Grounded on the
// reference library's segment.c.
package segment

import (
	"math"

	"github.com/pkg/errors"

	"github.com/aleksandarhr/blessbuf/internal/dataobject"
)

var (
	// ErrOverflow is returned when a start/size computation would wrap
	// past the representable range of a 64-bit offset.
	ErrOverflow = errors.New("segment: arithmetic overflow")
)

// UsageFunc is called with delta +1 when a segment starts referencing a
// data object and -1 when it stops, so callers can Ref/Unref the object
// at the right times without the segment package knowing about
// reference counting itself.
type UsageFunc func(obj dataobject.DataObject, delta int)

// Segment is a contiguous run of size bytes starting at start within
// data. It is a value type: copying a Segment is cheap and safe, but
// New/Clear/Split must be used to keep the referenced data object's
// usage count correct.
type Segment struct {
	Data      dataobject.DataObject
	Start     int64
	Size      int64
	usageFunc UsageFunc
}

// New creates a segment over [start, start+size) of data, bumping data's
// usage count. size may be zero to represent a cleared/placeholder
// segment.
func New(data dataobject.DataObject, start, size int64, usage UsageFunc) (*Segment, error) {
	if start < 0 || size < 0 {
		return nil, errors.Wrap(ErrOverflow, "segment: negative start/size")
	}
	if size > 0 {
		if start > math.MaxInt64-size {
			return nil, ErrOverflow
		}
		if data != nil && start+size > data.Size() {
			return nil, errors.New("segment: range exceeds data object size")
		}
	}
	s := &Segment{Data: data, Start: start, Size: size, usageFunc: usage}
	if data != nil && usage != nil {
		usage(data, 1)
	}
	return s, nil
}

// RefCountUsage is the standard UsageFunc: it ref-counts the data object
// via its own Ref/Unref, the right choice whenever a segment's data
// object isn't otherwise owned by something that outlives the segment.
func RefCountUsage(obj dataobject.DataObject, delta int) {
	if delta > 0 {
		obj.Ref()
	} else {
		obj.Unref()
	}
}

// UsageFunc returns the hook installed when the segment was created, so
// callers that need to fabricate sibling segments over the same data
// object (segcol's delete, chiefly) can preserve it.
func (s *Segment) UsageFunc() UsageFunc { return s.usageFunc }

// Clone returns an independent copy referencing the same data object
// (with its usage count bumped accordingly).
func (s *Segment) Clone() *Segment {
	c := &Segment{Data: s.Data, Start: s.Start, Size: s.Size, usageFunc: s.usageFunc}
	if c.Data != nil && c.usageFunc != nil {
		c.usageFunc(c.Data, 1)
	}
	return c
}

// Free releases the segment's hold on its data object. The Segment
// value itself must not be used afterward.
func (s *Segment) Free() {
	if s.Data != nil && s.usageFunc != nil {
		s.usageFunc(s.Data, -1)
	}
	s.Data = nil
	s.Size = 0
}

// Clear empties the segment in place (start=-1, size=0 in the reference
// implementation's convention), releasing its data object.
func (s *Segment) Clear() {
	s.Free()
	s.Start = -1
}

// SetData replaces the segment's data object, adjusting usage counts:
// -1 on the old object (if any), +1 on the new one.
func (s *Segment) SetData(data dataobject.DataObject, usage UsageFunc) {
	if s.Data != nil && s.usageFunc != nil {
		s.usageFunc(s.Data, -1)
	}
	s.Data = data
	s.usageFunc = usage
	if data != nil && usage != nil {
		usage(data, 1)
	}
}

// SetRange overwrites start/size after validating there is no overflow
// and, if a data object is attached, that the new range still fits
// within it.
func (s *Segment) SetRange(start, size int64) error {
	if start < 0 || size < 0 {
		return ErrOverflow
	}
	if size > 0 {
		if start > math.MaxInt64-size {
			return ErrOverflow
		}
		if s.Data != nil && start+size > s.Data.Size() {
			return errors.New("segment: range exceeds data object size")
		}
	}
	s.Start = start
	s.Size = size
	return nil
}

// Split divides s at the given index (0 < index < s.Size) into a left
// part retained in s and a new segment covering the right part, sharing
// the same data object. The tail segment is created (and its range
// validated) first, and s is shrunk only after that succeeds, so a
// failed split leaves s unchanged.
func (s *Segment) Split(index int64) (*Segment, error) {
	if index <= 0 || index >= s.Size {
		return nil, errors.New("segment: split index out of range")
	}

	tailStart := s.Start + index
	tailSize := s.Size - index

	tail, err := New(s.Data, tailStart, tailSize, s.usageFunc)
	if err != nil {
		return nil, err
	}

	s.Size = index
	return tail, nil
}
