package list

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func values(l *List[int]) []int {
	var out []int
	for n := l.Front(); n != nil; n = n.Next() {
		out = append(out, n.Value)
	}
	return out
}

func TestListPushAndOrder(t *testing.T) {
	l := New[int]()
	l.PushBack(1)
	l.PushBack(2)
	l.PushFront(0)

	require.Equal(t, []int{0, 1, 2}, values(l))
	require.Equal(t, 3, l.Len())
}

func TestListInsertBeforeAfter(t *testing.T) {
	l := New[int]()
	mid := l.PushBack(2)
	l.InsertBefore(1, mid)
	l.InsertAfter(3, mid)

	require.Equal(t, []int{1, 2, 3}, values(l))
}

func TestListRemove(t *testing.T) {
	l := New[int]()
	a := l.PushBack(1)
	l.PushBack(2)
	l.Remove(a)

	require.Equal(t, []int{2}, values(l))
	require.Equal(t, 1, l.Len())
}

func TestListRemoveChainAndInsertChainAfter(t *testing.T) {
	l := New[int]()
	l.PushBack(1)
	first := l.PushBack(2)
	last := l.PushBack(3)
	l.PushBack(4)

	n := l.RemoveChain(first, last)
	require.Equal(t, 2, n)
	require.Equal(t, []int{1, 4}, values(l))

	anchor := l.Front()
	l.InsertChainAfter(first, last, n, anchor)
	require.Equal(t, []int{1, 2, 3, 4}, values(l))
}

func TestListPushBackChainAndPushFrontChain(t *testing.T) {
	chain := New[int]()
	chain.PushBack(2)
	chain.PushBack(3)

	l := New[int]()
	l.PushBack(1)
	l.PushBack(4)
	l.PushBackChain(chain.Front(), chain.Back(), chain.Len())
	require.Equal(t, []int{1, 4, 2, 3}, values(l))
	require.Equal(t, 4, l.Len())

	chain2 := New[int]()
	chain2.PushBack(-1)
	chain2.PushBack(0)

	l.PushFrontChain(chain2.Front(), chain2.Back(), chain2.Len())
	require.Equal(t, []int{-1, 0, 1, 4, 2, 3}, values(l))
	require.Equal(t, 6, l.Len())
}

func TestListPushBackChainOntoEmptyList(t *testing.T) {
	chain := New[int]()
	chain.PushBack(1)
	chain.PushBack(2)

	l := New[int]()
	l.PushBackChain(chain.Front(), chain.Back(), chain.Len())
	require.Equal(t, []int{1, 2}, values(l))
	require.Equal(t, 2, l.Len())
}
