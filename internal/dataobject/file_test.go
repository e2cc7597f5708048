package dataobject

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content []byte) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "dataobject-file-test")
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	return f
}

func TestFileGetDataWithinSinglePage(t *testing.T) {
	content := []byte("the quick brown fox jumps over the lazy dog")
	f := writeTempFile(t, content)
	defer f.Close()

	fo, err := NewFile(f, nil)
	require.NoError(t, err)
	defer fo.Unref()

	data, err := fo.GetData(4)
	require.NoError(t, err)
	require.True(t, len(data) > 0)
	require.Equal(t, content[4], data[0])
}

func TestFileGetDataAcrossPageBoundaryRemaps(t *testing.T) {
	pageSize := os.Getpagesize()
	content := make([]byte, pageSize*2+100)
	for i := range content {
		content[i] = byte(i % 256)
	}
	f := writeTempFile(t, content)
	defer f.Close()

	fo, err := NewFile(f, nil)
	require.NoError(t, err)
	defer fo.Unref()

	first, err := fo.GetData(10)
	require.NoError(t, err)
	require.Equal(t, content[10], first[0])

	// Force a remap by reading from the second page.
	second, err := fo.GetData(int64(pageSize) + 10)
	require.NoError(t, err)
	require.Equal(t, content[pageSize+10], second[0])
}

func TestFileCompareByIdentity(t *testing.T) {
	f := writeTempFile(t, []byte("x"))
	defer f.Close()

	a, err := NewFile(f, nil)
	require.NoError(t, err)
	defer a.Unref()

	reopened, err := os.Open(f.Name())
	require.NoError(t, err)
	defer reopened.Close()

	b, err := NewFile(reopened, nil)
	require.NoError(t, err)
	defer b.Unref()

	require.True(t, a.Compare(b), "same underlying file should compare equal across fds")
}
