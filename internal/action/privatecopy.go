package action

import (
	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

// privateCopySegments replaces, in place, any segment in segs whose data
// object compares equal to target with a fresh in-memory snapshot of
// exactly the bytes that segment covers. Grounded on
// segment_inplace_private_copy: read the segment's current bytes in
// full, wrap them in a new memory data object, then repoint the segment
// at offset 0 of that object.
func privateCopySegments(segs []*segment.Segment, target dataobject.DataObject) error {
	for _, seg := range segs {
		if seg.Data == nil || !seg.Data.Compare(target) {
			continue
		}

		buf := make([]byte, seg.Size)
		var got int64
		for got < seg.Size {
			chunk, err := seg.Data.GetData(seg.Start + got)
			if err != nil {
				return err
			}
			if len(chunk) == 0 {
				break
			}
			n := copy(buf[got:], chunk)
			got += int64(n)
		}

		obj := dataobject.NewMemory(buf, nil)
		if err := seg.SetRange(0, seg.Size); err != nil {
			obj.Unref()
			return err
		}
		seg.SetData(obj, seg.UsageFunc())
		obj.Unref()
	}
	return nil
}
