package blessbuf

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/overlap"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

// ProgressFunc is called periodically during Save with the number of
// bytes written so far; returning true cancels the save. Grounded on
// buffer.h's bless_progress_cb ("return 1 to cancel").
type ProgressFunc func(written int64) (cancel bool)

// reserveSpace preallocates n bytes in f, preferring Fallocate (the Go
// equivalent of posix_fallocate) and falling back to writing zeroed
// pages past the file's current end when the filesystem doesn't support
// it. A file already at least n bytes long is left untouched. Grounded
// on buffer_file.c's reserve_disk_space.
func reserveSpace(f *os.File, n int64) error {
	fi, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "blessbuf: reserve disk space")
	}
	if fi.Size() >= n {
		return nil
	}
	if err := unix.Fallocate(int(f.Fd()), 0, 0, n); err == nil {
		return nil
	}

	const chunk = 4096
	buf := make([]byte, chunk)
	written := fi.Size()
	for written < n {
		take := int64(chunk)
		if take > n-written {
			take = n - written
		}
		if _, err := f.WriteAt(buf[:take], written); err != nil {
			return errors.Wrap(err, "blessbuf: reserve disk space")
		}
		written += take
	}
	return nil
}

// vertexInfo is the per-vertex bookkeeping buildOverlapGraph attaches as
// each vertex's Payload: which live segment it came from, and the
// destination range it will occupy once written.
type vertexInfo struct {
	seg  *segment.Segment
	dest overlap.Range
}

// buildOverlapGraph walks sc's segments in order and adds a vertex for
// every one that aliases fdObj (the file being saved), recording each
// vertex's destination range (its position in the saved file) and source
// range (the file bytes it currently reads from).
func buildOverlapGraph(sc *segcol.SegmentCollection, fdObj dataobject.DataObject) (*overlap.Graph, []vertexInfo) {
	g := overlap.New()
	var infos []vertexInfo

	var mapping int64
	for _, seg := range sc.Segments() {
		dest := overlap.Range{Start: mapping, Size: seg.Size}
		mapping += seg.Size

		if seg.Data != nil && seg.Data.Compare(fdObj) {
			src := overlap.Range{Start: seg.Start, Size: seg.Size}
			g.AddVertex(overlap.VertexData{Payload: len(infos), Dest: dest, Source: src})
			infos = append(infos, vertexInfo{seg: seg, dest: dest})
		}
	}
	return g, infos
}

// Save writes the buffer's current content to f, overwriting it in
// place when segments already point at f's own bytes. Grounded on
// buffer_file.c's bless_buffer_save: reserve space, build an overlap
// graph of segments aliasing f, break its cycles, privately copy the
// regions those broken edges represented, write segments in reverse
// topological order, so a segment is written only after every segment
// reading bytes its write clobbers (self-overlapping segments split into
// reordered pieces so a
// segment's own unread source bytes are never clobbered), write every
// other segment, truncate, then adopt the rebuilt segcol.
func (b *Buffer) Save(f *os.File, progress ProgressFunc) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	defer func() { b.metrics.SaveTiming.Observe(time.Since(start).Seconds()) }()

	size := b.segcol.Size()
	if err := reserveSpace(f, size); err != nil {
		return err
	}

	fdObj, ferr := dataobject.NewFile(f, nil)
	if ferr != nil {
		return ferr
	}
	defer fdObj.Unref()

	// Undo/redo history is private-copied before any byte of f is
	// written, so its snapshots hold the file's pre-save content.
	if b.undoAfterSave {
		for _, a := range b.undoStack {
			if err := a.PrivateCopy(fdObj); err != nil {
				return err
			}
		}
		for _, a := range b.redoStack {
			if err := a.PrivateCopy(fdObj); err != nil {
				return err
			}
		}
	}

	// Privatizing a broken edge's overlap splits the affected range out
	// of its segment in b.segcol (segcol-level storeInMemory below), which
	// can carve off file-backed remnants on either side of a partial
	// overlap — remnants the graph above doesn't know about yet. So the
	// graph is rebuilt from scratch after every round of privatization and
	// this repeats until a round closes no cycles. Each round strictly
	// shrinks the amount of file-backed content left in the collection
	// (privatized bytes become memory-backed for good), so this always
	// terminates.
	var g *overlap.Graph
	var infos []vertexInfo
	for {
		g, infos = buildOverlapGraph(b.segcol, fdObj)
		broken := g.RemoveCycles()
		if len(broken) == 0 {
			break
		}
		for _, be := range broken {
			fromDest := g.VertexData(be.From).Dest
			toSource := g.VertexData(be.To).Source
			toDest := g.VertexData(be.To).Dest
			overlapOffset := fromDest.Start
			if toSource.Start > overlapOffset {
				overlapOffset = toSource.Start
			}
			bufOffset := toDest.Start + (overlapOffset - toSource.Start)
			if err := storeInMemory(b.segcol, bufOffset, int64(be.Weight)); err != nil {
				return err
			}
		}
	}

	// An edge u->v means writing u clobbers bytes v reads, so v must be
	// written first: walk the topological order back to front.
	order := g.TopologicalOrder()
	var written int64
	for i := len(order) - 1; i >= 0; i-- {
		vid := order[i]
		inf := infos[g.VertexData(vid).Payload.(int)]
		n, err := writeSegment(f, inf.seg, inf.dest, overlap.Overlap(inf.dest, overlap.Range{Start: inf.seg.Start, Size: inf.seg.Size}))
		if err != nil {
			return err
		}
		written += n
		if progress != nil && progress(written) {
			return errors.Wrap(ErrState, "blessbuf: save cancelled")
		}
	}

	mapping := int64(0)
	for _, seg := range b.segcol.Segments() {
		dest := overlap.Range{Start: mapping, Size: seg.Size}
		mapping += seg.Size
		if seg.Data != nil && seg.Data.Compare(fdObj) {
			continue // already written above
		}
		if err := writeSegmentPlain(f, seg, dest); err != nil {
			return err
		}
		written += dest.Size
		if progress != nil && progress(written) {
			return errors.Wrap(ErrState, "blessbuf: save cancelled")
		}
	}

	if err := f.Truncate(size); err != nil {
		return errors.Wrap(err, "blessbuf: truncate after save")
	}

	// Build the replacement segcol eagerly, before swapping it in, so a
	// failure above never leaves b.segcol half migrated.
	newObj, err := dataobject.NewFile(f, nil)
	if err != nil {
		return err
	}
	newSeg, err := segment.New(newObj, 0, size, segment.RefCountUsage)
	if err != nil {
		newObj.Unref()
		return err
	}
	newObj.Unref()

	newSC := segcol.New()
	newSC.SetCacheObserver(b.metrics)
	if size > 0 {
		newSC.Append(newSeg)
	}

	if !b.undoAfterSave {
		for _, a := range b.undoStack {
			a.Free()
		}
		for _, a := range b.redoStack {
			a.Free()
		}
		b.undoStack, b.redoStack = nil, nil
	}

	b.segcol.Free()
	b.segcol = newSC
	b.metrics.Segments.Set(float64(len(b.segcol.Segments())))
	b.emit(Event{Type: EventSave, RangeLength: size, SaveFd: f.Fd()})
	return nil
}

// storeInMemory privatizes [offset, offset+length) of sc's logical
// content in place: it deletes that range (which, exactly like any other
// segcol.Delete, splits whatever segment(s) straddle the range's ends
// into surviving prefix/suffix pieces over their original data object),
// reads the deleted bytes, and reinserts them as a single memory-backed
// segment at offset. Acting at the collection level — rather than
// mutating one *segment.Segment's Start/Size/Data in place — is what
// keeps this correct when the overlap a broken edge represents is a
// strict sub-range of a larger segment: the untouched prefix and suffix
// remain live, separate, correctly ranged segments instead of being
// silently discarded. Grounded on buffer_file.c's
// break_edge -> segcol_store_in_memory.
func storeInMemory(sc *segcol.SegmentCollection, offset, length int64) error {
	if length <= 0 {
		return nil
	}

	removed, err := sc.Delete(offset, length)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, length)
	for _, seg := range removed.Segments() {
		var got int64
		for got < seg.Size {
			chunk, err := seg.Data.GetData(seg.Start + got)
			if err != nil {
				removed.Free()
				return err
			}
			if len(chunk) == 0 {
				break
			}
			take := seg.Size - got
			if int64(len(chunk)) < take {
				take = int64(len(chunk))
			}
			buf = append(buf, chunk[:take]...)
			got += take
		}
	}
	removed.Free()

	obj := dataobject.NewMemory(buf, nil)
	seg, err := segment.New(obj, 0, int64(len(buf)), segment.RefCountUsage)
	if err != nil {
		obj.Unref()
		return err
	}
	obj.Unref()
	return sc.Insert(offset, seg)
}

// writeSegment writes one segment that may overlap its own destination
// range (because it reads from the same file being written). Grounded
// on buffer_file.c's write_segment: if the segment's destination starts
// at a higher address than its source, the trailing non-overlapping
// bytes ("C") are written first, then, when the shift is less than the
// self-overlap, a middle ("B") piece written back to front in pieces no
// longer than the shift, and finally the (possibly shortened) head ("A")
// falls through to a normal write — in that order no byte is overwritten
// before it has been read.
func writeSegment(f *os.File, seg *segment.Segment, dest overlap.Range, selfOverlap int64) (int64, error) {
	if selfOverlap <= 0 || dest.Start <= seg.Start {
		return dest.Size, writeSegmentPlain(f, seg, dest)
	}

	tailLen := seg.Size - selfOverlap
	if tailLen > 0 {
		if err := writeRange(f, seg, selfOverlap, dest.Start+selfOverlap, tailLen); err != nil {
			return 0, err
		}
	}

	headLen := selfOverlap
	if tailLen < selfOverlap {
		// A middle ("B") piece exists between the tail already written
		// and the head about to be written. tailLen equals the shift, so
		// no piece of at most tailLen bytes overlaps its own source.
		for end := selfOverlap; end > tailLen; end -= tailLen {
			start := max(tailLen, end-tailLen)
			if err := writeRange(f, seg, start, dest.Start+start, end-start); err != nil {
				return 0, err
			}
		}
		headLen = tailLen
	}
	if err := writeRange(f, seg, 0, dest.Start, headLen); err != nil {
		return 0, err
	}
	return dest.Size, nil
}

func writeSegmentPlain(f *os.File, seg *segment.Segment, dest overlap.Range) error {
	return writeRange(f, seg, 0, dest.Start, dest.Size)
}

// writeRange copies length bytes starting at seg's relative offset
// relOffset to absolute file offset fileOffset.
func writeRange(f *os.File, seg *segment.Segment, relOffset, fileOffset, length int64) error {
	var got int64
	for got < length {
		chunk, err := seg.Data.GetData(seg.Start + relOffset + got)
		if err != nil {
			return err
		}
		if len(chunk) == 0 {
			break
		}
		take := length - got
		if int64(len(chunk)) < take {
			take = int64(len(chunk))
		}
		if _, err := f.WriteAt(chunk[:take], fileOffset+got); err != nil {
			return errors.Wrap(err, "blessbuf: write segment")
		}
		got += take
	}
	return nil
}
