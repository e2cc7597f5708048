// Package segcol implements the segment collection: an ordered sequence
// of segments whose concatenation is a buffer's logical content.
// Grounded on the reference library's segcol_list.c — an intrusive list
// of segments with a single-slot find cache that amortizes repeated
// nearby lookups.
package segcol

import (
	"github.com/pkg/errors"

	"github.com/aleksandarhr/blessbuf/internal/list"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

var (
	// ErrOutOfBounds is returned when an offset or range falls outside
	// the collection's current size.
	ErrOutOfBounds = errors.New("segcol: offset out of bounds")
)

type node = list.Node[*segment.Segment]

// CacheObserver receives a signal every time findNode resolves a lookup,
// reporting whether the single-slot find cache served as the starting
// point (a hit) or the walk had to start cold from the front of the list
// (a miss). Satisfied by *internal/metrics.BufferMetrics via structural
// typing.
type CacheObserver interface {
	ObserveCacheHit()
	ObserveCacheMiss()
}

// SegmentCollection is an ordered chain of segments with an
// incrementally maintained total size and a single-slot find cache.
type SegmentCollection struct {
	segments *list.List[*segment.Segment]
	size     int64

	// find cache: the node most recently located, and the absolute
	// offset (mapping) of its first byte. Invalidated on every mutation,
	// matching the reference implementation's cached_node/cached_mapping.
	cachedNode    *node
	cachedMapping int64

	observer CacheObserver
}

// New returns an empty segment collection.
func New() *SegmentCollection {
	return &SegmentCollection{segments: list.New[*segment.Segment]()}
}

// SetCacheObserver installs o to receive find-cache hit/miss signals. A
// nil observer (the default) disables reporting.
func (sc *SegmentCollection) SetCacheObserver(o CacheObserver) {
	sc.observer = o
}

// Size returns the total number of bytes in the collection.
func (sc *SegmentCollection) Size() int64 { return sc.size }

func (sc *SegmentCollection) invalidateCache() {
	sc.cachedNode = nil
	sc.cachedMapping = 0
}

func (sc *SegmentCollection) reportCache(hit bool) {
	if sc.observer == nil {
		return
	}
	if hit {
		sc.observer.ObserveCacheHit()
	} else {
		sc.observer.ObserveCacheMiss()
	}
}

// findNode locates the node containing byte offset and returns it
// together with that node's mapping (the absolute offset of its first
// byte). offset must be < sc.size, except that offset == sc.size is
// permitted and resolves to the list's sentinel (returned node == nil)
// to support end-of-collection append/insert.
func (sc *SegmentCollection) findNode(offset int64) (*node, int64, error) {
	if offset < 0 || offset > sc.size {
		return nil, 0, ErrOutOfBounds
	}
	if offset == sc.size {
		return nil, sc.size, nil
	}

	// Start from the cache if present, otherwise from the front.
	var cur *node
	var mapping int64
	if sc.cachedNode != nil {
		cur = sc.cachedNode
		mapping = sc.cachedMapping
		sc.reportCache(true)
	} else {
		cur = sc.segments.Front()
		mapping = 0
		sc.reportCache(false)
	}
	if cur == nil {
		return nil, 0, ErrOutOfBounds
	}

	// Walk forward if the offset is ahead of the cached node.
	for mapping+cur.Value.Size <= offset {
		next := cur.Next()
		if next == nil {
			return nil, 0, ErrOutOfBounds
		}
		mapping += cur.Value.Size
		cur = next
	}
	// Walk backward if the offset is behind the cached node.
	for offset < mapping {
		prev := cur.Prev()
		if prev == nil {
			return nil, 0, ErrOutOfBounds
		}
		mapping -= prev.Value.Size
		cur = prev
	}

	sc.cachedNode = cur
	sc.cachedMapping = mapping
	return cur, mapping, nil
}

// Find returns the segment containing offset and the mapping (absolute
// start offset) of that segment.
func (sc *SegmentCollection) Find(offset int64) (*segment.Segment, int64, error) {
	n, mapping, err := sc.findNode(offset)
	if err != nil {
		return nil, 0, err
	}
	if n == nil {
		return nil, 0, ErrOutOfBounds
	}
	return n.Value, mapping, nil
}

// Append adds seg to the end of the collection.
func (sc *SegmentCollection) Append(seg *segment.Segment) {
	sc.segments.PushBack(seg)
	sc.size += seg.Size
	sc.invalidateCache()
}

// Insert splices seg into the collection so that its first byte becomes
// byte offset of the resulting collection. If offset lands exactly on an
// existing segment boundary, seg is simply linked in between; otherwise
// the segment straddling offset is split and seg is inserted between the
// two halves.
func (sc *SegmentCollection) Insert(offset int64, seg *segment.Segment) error {
	if offset < 0 || offset > sc.size {
		return ErrOutOfBounds
	}
	if offset == sc.size {
		sc.Append(seg)
		return nil
	}

	n, mapping, err := sc.findNode(offset)
	if err != nil {
		return err
	}

	splitIndex := offset - mapping
	if splitIndex == 0 {
		sc.segments.InsertBefore(seg, n)
	} else {
		tail, err := n.Value.Split(splitIndex)
		if err != nil {
			return err
		}
		mark := sc.segments.InsertAfter(seg, n)
		sc.segments.InsertAfter(tail, mark)
	}

	sc.size += seg.Size
	sc.invalidateCache()
	return nil
}

// Delete removes the range [offset, offset+length) from the collection
// and returns it as a standalone SegmentCollection (so callers — chiefly
// the undo log — can retain the removed bytes). Grounded on
// segcol_list_delete: the inclusive chain of nodes overlapping the range
// is detached, any retained prefix (of the first node) and suffix (of
// the last node) are carved out as fresh segments over the same data
// object, and those are spliced back in around the resulting gap. This
// also covers segcol_list_delete's first-node-equals-last-node case,
// where a single node can contribute a prefix, a deleted middle, and a
// suffix all at once — handled here uniformly rather than as a special
// case, since each node's contribution is computed from its own
// (start, size) independent of its neighbors.
func (sc *SegmentCollection) Delete(offset, length int64) (*SegmentCollection, error) {
	if length == 0 {
		return New(), nil
	}
	if offset < 0 || length < 0 || offset+length > sc.size {
		return nil, ErrOutOfBounds
	}

	firstNode, firstMapping, err := sc.findNode(offset)
	if err != nil {
		return nil, err
	}
	lastNode, _, err := sc.findNode(offset + length - 1)
	if err != nil {
		return nil, err
	}

	var chain []*node
	for cur := firstNode; ; cur = cur.Next() {
		chain = append(chain, cur)
		if cur == lastNode {
			break
		}
	}

	sc.segments.RemoveChain(firstNode, lastNode)
	sc.invalidateCache()

	deleted := New()
	var prefixSeg, suffixSeg *segment.Segment

	mapping := firstMapping
	var removedTotal int64
	for _, nd := range chain {
		segVal := nd.Value
		segStart := mapping
		segEnd := mapping + segVal.Size
		mapping = segEnd
		removedTotal += segVal.Size

		interStart := max(segStart, offset)
		interEnd := min(segEnd, offset+length)

		if segStart < offset {
			plen := offset - segStart
			ps, err := segment.New(segVal.Data, segVal.Start, plen, segVal.UsageFunc())
			if err != nil {
				return nil, err
			}
			prefixSeg = ps
		}
		if segEnd > offset+length {
			slen := segEnd - (offset + length)
			sstart := segVal.Start + (segVal.Size - slen)
			ss, err := segment.New(segVal.Data, sstart, slen, segVal.UsageFunc())
			if err != nil {
				return nil, err
			}
			suffixSeg = ss
		}
		if interEnd > interStart {
			mStart := segVal.Start + (interStart - segStart)
			mLen := interEnd - interStart
			ms, err := segment.New(segVal.Data, mStart, mLen, segVal.UsageFunc())
			if err != nil {
				return nil, err
			}
			deleted.Append(ms)
		}
		segVal.Free()
	}

	sc.size -= removedTotal

	// Re-derive the anchor (the node that now immediately follows the
	// gap) from the already-shrunk collection. The detached chain took
	// the prefix bytes with it, so the gap now starts at firstMapping,
	// not at offset; anchor stays nil when nothing remains after it.
	var anchor *node
	if firstMapping < sc.size {
		anchor, _, err = sc.findNode(firstMapping)
		if err != nil {
			return nil, err
		}
	}

	splice := func(seg *segment.Segment) {
		if anchor != nil {
			sc.segments.InsertBefore(seg, anchor)
		} else {
			sc.segments.PushBack(seg)
		}
		sc.size += seg.Size
	}
	if prefixSeg != nil {
		splice(prefixSeg)
	}
	if suffixSeg != nil {
		splice(suffixSeg)
	}
	sc.invalidateCache()

	return deleted, nil
}

// cloneChain clones each of segs (preserving their shared data objects
// via Segment.Clone, bumping usage counts) into a standalone chain of
// list nodes, returning the chain and the total size of its segments.
func cloneChain(segs []*segment.Segment) (*list.List[*segment.Segment], int64) {
	chain := list.New[*segment.Segment]()
	var total int64
	for _, s := range segs {
		clone := s.Clone()
		chain.PushBack(clone)
		total += clone.Size
	}
	return chain, total
}

// InsertSegments splices a clone of segs, in order, into the collection
// starting at offset, as a single chain splice rather than one Insert
// call per segment. Used by the undo log to re-splice a previously
// deleted/appended run of segments without consuming the caller's
// retained copy. Grounded on segcol_list.c's segcol_list_insert, which
// splices a whole detached sub-list of nodes into the chain in one step.
func (sc *SegmentCollection) InsertSegments(offset int64, segs []*segment.Segment) error {
	if len(segs) == 0 {
		return nil
	}
	if offset < 0 || offset > sc.size {
		return ErrOutOfBounds
	}

	chain, total := cloneChain(segs)
	first, last, n := chain.Front(), chain.Back(), chain.Len()

	if offset == sc.size {
		sc.segments.PushBackChain(first, last, n)
	} else {
		nd, mapping, err := sc.findNode(offset)
		if err != nil {
			return err
		}
		splitIndex := offset - mapping
		if splitIndex == 0 {
			if prev := nd.Prev(); prev != nil {
				sc.segments.InsertChainAfter(first, last, n, prev)
			} else {
				sc.segments.PushFrontChain(first, last, n)
			}
		} else {
			tail, err := nd.Value.Split(splitIndex)
			if err != nil {
				return err
			}
			sc.segments.InsertChainAfter(first, last, n, nd)
			sc.segments.InsertAfter(tail, last)
		}
	}

	sc.size += total
	sc.invalidateCache()
	return nil
}

// AppendSegments splices a clone of segs onto the end of the collection
// as a single chain, in the same spirit as InsertSegments.
func (sc *SegmentCollection) AppendSegments(segs []*segment.Segment) {
	if len(segs) == 0 {
		return
	}
	chain, total := cloneChain(segs)
	sc.segments.PushBackChain(chain.Front(), chain.Back(), chain.Len())
	sc.size += total
	sc.invalidateCache()
}

// Foreach visits every segment whose range intersects [offset,
// offset+length), calling fn with the portion of the segment's range
// that falls inside the requested window (relSegOffset, relSegLength)
// expressed relative to the segment's own start. fn returning a non-nil
// error stops iteration early and that error is returned.
func (sc *SegmentCollection) Foreach(offset, length int64, fn func(seg *segment.Segment, relSegOffset, relSegLength int64) error) error {
	if length == 0 {
		return nil
	}
	if offset < 0 || offset+length > sc.size {
		return ErrOutOfBounds
	}

	n, mapping, err := sc.findNode(offset)
	if err != nil {
		return err
	}

	remaining := length
	segOffset := offset - mapping
	for remaining > 0 {
		avail := n.Value.Size - segOffset
		take := avail
		if take > remaining {
			take = remaining
		}
		if err := fn(n.Value, segOffset, take); err != nil {
			return err
		}
		remaining -= take
		segOffset = 0
		if remaining > 0 {
			next := n.Next()
			if next == nil {
				return ErrOutOfBounds
			}
			n = next
		}
	}
	return nil
}

// Segments returns the segments in order, for callers (the save engine,
// private-copy walks) that need the full chain rather than a windowed
// view.
func (sc *SegmentCollection) Segments() []*segment.Segment {
	out := make([]*segment.Segment, 0, sc.segments.Len())
	for n := sc.segments.Front(); n != nil; n = n.Next() {
		out = append(out, n.Value)
	}
	return out
}

// Free releases every segment's hold on its data object. The collection
// must not be used afterward.
func (sc *SegmentCollection) Free() {
	for n := sc.segments.Front(); n != nil; n = n.Next() {
		n.Value.Free()
	}
	sc.segments = list.New[*segment.Segment]()
	sc.size = 0
	sc.invalidateCache()
}
