package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aleksandarhr/blessbuf/internal/dataobject"
)

func TestNewTracksUsage(t *testing.T) {
	obj := dataobject.NewMemory([]byte("0123456789"), nil)
	defer obj.Unref()

	var delta int
	usage := func(o dataobject.DataObject, d int) { delta += d }

	seg, err := New(obj, 2, 5, usage)
	require.NoError(t, err)
	require.Equal(t, int64(2), seg.Start)
	require.Equal(t, int64(5), seg.Size)
	require.Equal(t, 1, delta)

	seg.Free()
	require.Equal(t, 0, delta)
}

func TestNewRejectsRangeExceedingDataSize(t *testing.T) {
	obj := dataobject.NewMemory([]byte("abc"), nil)
	defer obj.Unref()

	_, err := New(obj, 0, 10, nil)
	require.Error(t, err)
}

func TestSplit(t *testing.T) {
	obj := dataobject.NewMemory([]byte("0123456789"), nil)
	defer obj.Unref()

	seg, err := New(obj, 0, 10, nil)
	require.NoError(t, err)

	tail, err := seg.Split(4)
	require.NoError(t, err)

	require.Equal(t, int64(0), seg.Start)
	require.Equal(t, int64(4), seg.Size)
	require.Equal(t, int64(4), tail.Start)
	require.Equal(t, int64(6), tail.Size)
}

func TestSplitRejectsOutOfRangeIndex(t *testing.T) {
	obj := dataobject.NewMemory([]byte("0123456789"), nil)
	defer obj.Unref()

	seg, err := New(obj, 0, 10, nil)
	require.NoError(t, err)

	_, err = seg.Split(0)
	require.Error(t, err)
	_, err = seg.Split(10)
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	obj := dataobject.NewMemory([]byte("abc"), nil)
	defer obj.Unref()

	seg, err := New(obj, 0, 3, nil)
	require.NoError(t, err)

	seg.Clear()
	require.Equal(t, int64(-1), seg.Start)
	require.Equal(t, int64(0), seg.Size)
	require.Nil(t, seg.Data)
}
