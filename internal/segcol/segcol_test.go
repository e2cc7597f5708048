package segcol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

func newSeg(t *testing.T, data string) *segment.Segment {
	t.Helper()
	obj := dataobject.NewMemory([]byte(data), nil)
	seg, err := segment.New(obj, 0, int64(len(data)), segment.RefCountUsage)
	require.NoError(t, err)
	return seg
}

// readAll collects the logical content of sc via Foreach, resolving
// each visited segment's bytes directly from its data object.
func readAll(t *testing.T, sc *SegmentCollection) string {
	t.Helper()
	if sc.Size() == 0 {
		return ""
	}
	var out []byte
	err := sc.Foreach(0, sc.Size(), func(seg *segment.Segment, relOffset, relLength int64) error {
		data, err := seg.Data.GetData(seg.Start + relOffset)
		require.NoError(t, err)
		out = append(out, data[:relLength]...)
		return nil
	})
	require.NoError(t, err)
	return string(out)
}

func TestAppendAndRead(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "hello"))
	sc.Append(newSeg(t, "world"))

	require.Equal(t, int64(10), sc.Size())
	require.Equal(t, "helloworld", readAll(t, sc))
}

func TestInsertAtBoundary(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "helloworld"))

	require.NoError(t, sc.Insert(5, newSeg(t, "-")))
	require.Equal(t, "hello-world", readAll(t, sc))
}

func TestInsertMidSegmentSplits(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "helloworld"))

	require.NoError(t, sc.Insert(3, newSeg(t, "XYZ")))
	require.Equal(t, "helXYZloworld", readAll(t, sc))
}

func TestInsertAtEndAppends(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))

	require.NoError(t, sc.Insert(3, newSeg(t, "def")))
	require.Equal(t, "abcdef", readAll(t, sc))
}

func TestDeleteWithinSingleSegmentLeavesPrefixAndSuffix(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "0123456789"))

	deleted, err := sc.Delete(3, 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), deleted.Size())
	require.Equal(t, "3456", readAll(t, deleted))
	require.Equal(t, "012789", readAll(t, sc))
}

func TestDeleteEntireSegment(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))
	sc.Append(newSeg(t, "def"))
	sc.Append(newSeg(t, "ghi"))

	deleted, err := sc.Delete(3, 3)
	require.NoError(t, err)
	require.Equal(t, "def", readAll(t, deleted))
	require.Equal(t, "abcghi", readAll(t, sc))
}

func TestDeleteSpanningMultipleSegmentsWithPartialEnds(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "aaaa"))
	sc.Append(newSeg(t, "bbbb"))
	sc.Append(newSeg(t, "cccc"))

	// delete "aabbbbcc" -> offset 2, length 8
	deleted, err := sc.Delete(2, 8)
	require.NoError(t, err)
	require.Equal(t, "aabbbbcc", readAll(t, deleted))
	require.Equal(t, "aacc", readAll(t, sc))
}

func TestDeleteEntireCollection(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))
	sc.Append(newSeg(t, "def"))

	deleted, err := sc.Delete(0, 6)
	require.NoError(t, err)
	require.Equal(t, "abcdef", readAll(t, deleted))
	require.Equal(t, int64(0), sc.Size())
}

func TestDeleteZeroLengthIsNoop(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))

	deleted, err := sc.Delete(1, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), deleted.Size())
	require.Equal(t, "abc", readAll(t, sc))
}

func TestDeleteOutOfBounds(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))

	_, err := sc.Delete(2, 5)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestFindCacheSurvivesRepeatedNearbyLookups(t *testing.T) {
	sc := New()
	for i := 0; i < 20; i++ {
		sc.Append(newSeg(t, "0123456789"))
	}

	for offset := int64(0); offset < sc.Size(); offset += 7 {
		_, mapping, err := sc.Find(offset)
		require.NoError(t, err)
		require.True(t, mapping <= offset)
	}
}

func TestManySegmentsReverseOrderRead(t *testing.T) {
	sc := New()
	const n = 2000
	for i := 0; i < n; i++ {
		sc.Append(newSeg(t, "x"))
	}
	require.Equal(t, int64(n), sc.Size())

	for offset := int64(n - 1); offset >= 0; offset-- {
		seg, mapping, err := sc.Find(offset)
		require.NoError(t, err)
		require.Equal(t, offset, mapping)
		require.Equal(t, int64(1), seg.Size)
	}
}

type fakeCacheObserver struct{ hits, misses int }

func (f *fakeCacheObserver) ObserveCacheHit()  { f.hits++ }
func (f *fakeCacheObserver) ObserveCacheMiss() { f.misses++ }

func TestCacheObserverReportsHitsAndMisses(t *testing.T) {
	sc := New()
	obs := &fakeCacheObserver{}
	sc.SetCacheObserver(obs)

	for i := 0; i < 5; i++ {
		sc.Append(newSeg(t, "0123456789"))
	}

	// Every mutation invalidates the cache, so this first lookup is a
	// cold miss.
	_, _, err := sc.Find(5)
	require.NoError(t, err)
	require.Equal(t, 0, obs.hits)
	require.Equal(t, 1, obs.misses)

	// A second lookup starting from the now-populated cache is a hit.
	_, _, err = sc.Find(7)
	require.NoError(t, err)
	require.Equal(t, 1, obs.hits)
	require.Equal(t, 1, obs.misses)
}

func TestInsertSegmentsAndAppendSegmentsClone(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))

	content := []*segment.Segment{newSeg(t, "X"), newSeg(t, "Y")}
	require.NoError(t, sc.InsertSegments(1, content))
	require.Equal(t, "aXYbc", readAll(t, sc))

	// The original content segments must still be independently usable
	// (InsertSegments clones rather than consumes them).
	sc2 := New()
	sc2.AppendSegments(content)
	require.Equal(t, "XY", readAll(t, sc2))
}

func TestInsertSegmentsAtBoundaryAndEnd(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))
	sc.Append(newSeg(t, "def"))

	// offset 3 lands exactly on the boundary between the two segments.
	require.NoError(t, sc.InsertSegments(3, []*segment.Segment{newSeg(t, "XY")}))
	require.Equal(t, "abcXYdef", readAll(t, sc))

	// offset == size appends the whole chain.
	require.NoError(t, sc.InsertSegments(sc.Size(), []*segment.Segment{newSeg(t, "Z1"), newSeg(t, "Z2")}))
	require.Equal(t, "abcXYdefZ1Z2", readAll(t, sc))
}

func TestInsertSegmentsSplitsStraddlingSegment(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "0123456789"))

	// offset 4 lands mid-segment, so the existing segment must be split
	// around the inserted chain rather than the chain simply replacing it.
	require.NoError(t, sc.InsertSegments(4, []*segment.Segment{newSeg(t, "AB"), newSeg(t, "CD")}))
	require.Equal(t, "0123ABCD456789", readAll(t, sc))
}

func TestInsertSegmentsEmptyIsNoop(t *testing.T) {
	sc := New()
	sc.Append(newSeg(t, "abc"))

	require.NoError(t, sc.InsertSegments(1, nil))
	require.Equal(t, "abc", readAll(t, sc))
}
