// Package blessbuf implements an editable binary buffer core: an
// ordered segment collection backing a logical byte sequence, a
// reversible action log for undo/redo, and a save engine that can
// overwrite the buffer's own source file in place without corrupting
// unread bytes. Grounded on the GNOME bless project's libbls, restated
// in idiomatic Go.
package blessbuf

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/aleksandarhr/blessbuf/internal/action"
	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/metrics"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

// Buffer is the facade the rest of this module is organized around: a
// segment collection plus the undo/redo log and options governing it.
// Grounded on the RWMutex-guarded facade shape of the teacher's
// internal/log.Log (Append/Read/Close/Remove lifecycle), adapted from a
// slice of on-disk log segments to an in-memory segment collection plus
// action log.
type Buffer struct {
	mu sync.RWMutex

	segcol *segcol.SegmentCollection

	undoStack []action.Action
	redoStack []action.Action
	undoLimit int

	multiDepth int
	multi      *action.Multi

	options       map[string]string
	undoAfterSave bool

	listeners []Listener
	metrics   *metrics.BufferMetrics
}

// New creates an empty buffer.
func New(opts ...Option) (*Buffer, error) {
	b := &Buffer{
		segcol:  segcol.New(),
		options: make(map[string]string),
		metrics: metrics.NewBufferMetrics(),
	}
	b.segcol.SetCacheObserver(b.metrics)
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.metrics.Segments.Set(0)
	return b, nil
}

// Size returns the buffer's current content length in bytes.
func (b *Buffer) Size() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.segcol.Size()
}

// Subscribe registers l to receive every Event this buffer emits.
func (b *Buffer) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

func (b *Buffer) emit(ev Event) {
	for _, l := range b.listeners {
		l(ev)
	}
}

// newOwnedSegment wraps data in a fresh memory data object and a segment
// covering it in full, leaving the segment as the object's sole owner:
// NewMemory hands back a data object already holding one reference for
// its creator, segment.New's usage hook bumps that to two, and the
// creator's own reference is then released immediately.
func newOwnedSegment(data []byte) (*segment.Segment, error) {
	obj := dataobject.NewMemory(append([]byte(nil), data...), nil)
	seg, err := segment.New(obj, 0, int64(len(data)), segment.RefCountUsage)
	if err != nil {
		obj.Unref()
		return nil, err
	}
	obj.Unref()
	return seg, nil
}

// Append adds data (as an in-memory segment) to the end of the buffer.
func (b *Buffer) Append(data []byte) error {
	seg, err := newOwnedSegment(data)
	if err != nil {
		return err
	}
	return b.do(action.NewAppend([]*segment.Segment{seg}), ActionAppend)
}

// Insert splices data into the buffer at offset.
func (b *Buffer) Insert(offset int64, data []byte) error {
	seg, err := newOwnedSegment(data)
	if err != nil {
		return err
	}
	return b.do(action.NewInsert(offset, []*segment.Segment{seg}), ActionInsert)
}

// Delete removes [offset, offset+length) from the buffer.
func (b *Buffer) Delete(offset, length int64) error {
	return b.do(action.NewDelete(offset, length), ActionDelete)
}

// BeginMulti starts a batch of actions that will undo/redo as one unit.
// Calls nest: only the outermost BeginMulti/EndMulti pair creates an
// entry in the undo log, matching the reference library's multi-op
// grouping.
func (b *Buffer) BeginMulti() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.multiDepth == 0 {
		b.multi = action.NewMulti(nil)
	}
	b.multiDepth++
}

// EndMulti closes the innermost BeginMulti. On the outermost call, the
// accumulated batch is pushed onto the undo log as a single action.
func (b *Buffer) EndMulti() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.multiDepth == 0 {
		return errors.Wrap(ErrState, "blessbuf: EndMulti without BeginMulti")
	}
	b.multiDepth--
	if b.multiDepth > 0 {
		return nil
	}
	m := b.multi
	b.multi = nil
	b.pushUndo(m)
	b.emit(Event{Type: EventEdit, Action: ActionMulti})
	return nil
}

// do runs a at the front of the pipeline (live segcol, or queued into
// the open multi batch), pushing it onto the undo log and clearing the
// redo stack, matching the reference library's "a new top-level action
// invalidates redo" rule.
func (b *Buffer) do(a action.Action, at ActionType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.multiDepth > 0 {
		info, err := a.Do(b.segcol)
		if err != nil {
			return err
		}
		b.multi.Append(a)
		b.metrics.Segments.Set(float64(len(b.segcol.Segments())))
		b.emit(Event{Type: EventEdit, Action: at, RangeStart: info.RangeStart, RangeLength: info.RangeLength})
		return nil
	}

	info, err := a.Do(b.segcol)
	if err != nil {
		return err
	}
	b.pushUndo(a)
	b.metrics.Segments.Set(float64(len(b.segcol.Segments())))
	b.emit(Event{Type: EventEdit, Action: at, RangeStart: info.RangeStart, RangeLength: info.RangeLength})
	return nil
}

// pushUndo retains a as the most recent undo entry and discards the redo
// stack, since any new top-level action invalidates it.
func (b *Buffer) pushUndo(a action.Action) {
	for _, old := range b.redoStack {
		old.Free()
	}
	b.redoStack = nil
	b.retainUndo(a)
}

// retainUndo appends a to the undo stack, honoring undoLimit: a limit of
// 0 disables undo retention altogether (spec.md §6: "0 disables undo"),
// so a is freed immediately instead of ever landing on the stack; a
// positive limit evicts the oldest entry once exceeded.
func (b *Buffer) retainUndo(a action.Action) {
	if b.undoLimit == 0 {
		a.Free()
		return
	}
	b.undoStack = append(b.undoStack, a)
	if len(b.undoStack) > b.undoLimit {
		b.undoStack[0].Free()
		b.undoStack = b.undoStack[1:]
	}
}

// CanUndo reports whether Undo would have any effect.
func (b *Buffer) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.undoStack) > 0
}

// CanRedo reports whether Redo would have any effect.
func (b *Buffer) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.redoStack) > 0
}

// Undo reverses the most recently done (or redone) action.
func (b *Buffer) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.undoStack) == 0 {
		return errors.Wrap(ErrState, "blessbuf: nothing to undo")
	}
	a := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]

	info, err := a.Undo(b.segcol)
	if err != nil {
		b.undoStack = append(b.undoStack, a)
		return err
	}
	b.redoStack = append(b.redoStack, a)
	b.metrics.Segments.Set(float64(len(b.segcol.Segments())))
	b.emit(Event{Type: EventUndo, RangeStart: info.RangeStart, RangeLength: info.RangeLength})
	return nil
}

// Redo re-applies the most recently undone action.
func (b *Buffer) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.redoStack) == 0 {
		return errors.Wrap(ErrState, "blessbuf: nothing to redo")
	}
	a := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]

	info, err := a.Do(b.segcol)
	if err != nil {
		b.redoStack = append(b.redoStack, a)
		return err
	}
	b.retainUndo(a)
	b.metrics.Segments.Set(float64(len(b.segcol.Segments())))
	b.emit(Event{Type: EventRedo, RangeStart: info.RangeStart, RangeLength: info.RangeLength})
	return nil
}

// Read copies [offset, offset+len(p)) of the buffer's logical content
// into p, returning the number of bytes copied. Reads never span more
// than the caller's own buffer in one call — unbounded single-call
// streaming reads are out of scope; callers loop for more.
func (b *Buffer) Read(offset int64, p []byte) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(p) == 0 {
		return 0, nil
	}
	var n int
	err := b.segcol.Foreach(offset, int64(len(p)), func(seg *segment.Segment, relOffset, relLength int64) error {
		got := int64(0)
		for got < relLength {
			chunk, err := seg.Data.GetData(seg.Start + relOffset + got)
			if err != nil {
				return err
			}
			if len(chunk) == 0 {
				break
			}
			take := relLength - got
			if int64(len(chunk)) < take {
				take = int64(len(chunk))
			}
			copy(p[n:], chunk[:take])
			n += int(take)
			got += take
		}
		return nil
	})
	return n, err
}

// Find and Copy are explicitly not implemented: the reference library's
// own bless_buffer_find/bless_buffer_copy are unconditional stubs, and
// spec.md's Open Questions resolve the same way here.

// Find is not implemented.
func (b *Buffer) Find([]byte, int64) (int64, error) {
	return -1, ErrNotImplemented
}

// Copy is not implemented.
func (b *Buffer) Copy(dst *Buffer, srcOffset, length, dstOffset int64) error {
	return ErrNotImplemented
}

// Close releases every data object the buffer's live segments and
// undo/redo history still reference.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, a := range b.undoStack {
		a.Free()
	}
	for _, a := range b.redoStack {
		a.Free()
	}
	b.undoStack, b.redoStack = nil, nil
	b.segcol.Free()
	b.emit(Event{Type: EventClose})
	return nil
}
