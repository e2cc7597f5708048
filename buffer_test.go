package blessbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func readString(t *testing.T, b *Buffer) string {
	t.Helper()
	size := b.Size()
	if size == 0 {
		return ""
	}
	buf := make([]byte, size)
	n, err := b.Read(0, buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestBufferEmpty(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.Equal(t, int64(0), b.Size())
	require.False(t, b.CanUndo())
	require.False(t, b.CanRedo())
}

func TestBufferAppendInsertDelete(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("hello")))
	require.NoError(t, b.Append([]byte(" world")))
	require.Equal(t, "hello world", readString(t, b))

	require.NoError(t, b.Insert(5, []byte(",")))
	require.Equal(t, "hello, world", readString(t, b))

	require.NoError(t, b.Delete(5, 1))
	require.Equal(t, "hello world", readString(t, b))
}

func TestBufferUndoRedo(t *testing.T) {
	b, err := New(WithUndoLimit(10))
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("abc")))
	require.True(t, b.CanUndo())

	require.NoError(t, b.Undo())
	require.Equal(t, "", readString(t, b))
	require.True(t, b.CanRedo())

	require.NoError(t, b.Redo())
	require.Equal(t, "abc", readString(t, b))
}

func TestBufferUndoClearsRedoOnNewAction(t *testing.T) {
	b, err := New(WithUndoLimit(10))
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("a")))
	require.NoError(t, b.Undo())
	require.True(t, b.CanRedo())

	require.NoError(t, b.Append([]byte("b")))
	require.False(t, b.CanRedo())
}

func TestBufferMultiUndoesAsOneStep(t *testing.T) {
	b, err := New(WithUndoLimit(10))
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("start")))
	b.BeginMulti()
	require.NoError(t, b.Append([]byte("-a")))
	require.NoError(t, b.Append([]byte("-b")))
	require.NoError(t, b.EndMulti())

	require.Equal(t, "start-a-b", readString(t, b))

	require.NoError(t, b.Undo())
	require.Equal(t, "start", readString(t, b))
}

func TestBufferUndoLimitEvictsOldest(t *testing.T) {
	b, err := New(WithUndoLimit(2))
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("a")))
	require.NoError(t, b.Append([]byte("b")))
	require.NoError(t, b.Append([]byte("c")))

	require.NoError(t, b.Undo())
	require.NoError(t, b.Undo())
	require.False(t, b.CanUndo(), "oldest action should have been evicted")
	require.Equal(t, "a", readString(t, b))
}

func TestBufferUndoLimitZeroDisablesUndo(t *testing.T) {
	b, err := New(WithUndoLimit(0))
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("a")))
	require.False(t, b.CanUndo(), "UNDO_LIMIT=0 must disable undo retention entirely")
	require.Equal(t, "a", readString(t, b), "the edit itself must still apply")

	require.ErrorIs(t, b.Undo(), ErrState)
}

func TestBufferFindAndCopyAreNotImplemented(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	_, ferr := b.Find([]byte("x"), 0)
	require.ErrorIs(t, ferr, ErrNotImplemented)

	other, err := New()
	require.NoError(t, err)
	require.ErrorIs(t, b.Copy(other, 0, 0, 0), ErrNotImplemented)
}

func TestBufferSubscribeReceivesEditEvents(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	var got []Event
	b.Subscribe(func(e Event) { got = append(got, e) })

	require.NoError(t, b.Append([]byte("abc")))
	require.Len(t, got, 1)
	require.Equal(t, EventEdit, got[0].Type)
	require.Equal(t, ActionAppend, got[0].Action)
	require.Equal(t, int64(0), got[0].RangeStart)
	require.Equal(t, int64(3), got[0].RangeLength)
}
