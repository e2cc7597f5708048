// Package list implements a generic intrusive doubly linked list with
// sentinel head/tail nodes, grounded on the reference library's list.c.
// It backs both the segment collection's segment chain and the overlap
// graph's per-vertex edge adjacency, so nodes can be spliced out and
// reinserted elsewhere in O(1) without reallocating.
package list

// Node is one element of a List. The zero value is not usable; nodes are
// created by List.PushBack/InsertBefore/InsertAfter.
type Node[T any] struct {
	Value T

	prev, next *Node[T]
	list       *List[T]
}

// Next returns the following node, or nil at the end of the list.
func (n *Node[T]) Next() *Node[T] {
	if n.next != nil && n.next.list == n.list && n.next != n.list.root() {
		return n.next
	}
	return nil
}

// Prev returns the preceding node, or nil at the start of the list.
func (n *Node[T]) Prev() *Node[T] {
	if n.prev != nil && n.prev.list == n.list && n.prev != n.list.root() {
		return n.prev
	}
	return nil
}

// List is a doubly linked list with a sentinel root node so that
// head/tail insertion and deletion never need a nil check.
type List[T any] struct {
	sentinel Node[T]
	len      int
}

func (l *List[T]) root() *Node[T] {
	return &l.sentinel
}

// New returns an initialized empty list.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	l.sentinel.list = l
	return l
}

// Len returns the number of nodes in the list.
func (l *List[T]) Len() int { return l.len }

// Front returns the first node, or nil if the list is empty.
func (l *List[T]) Front() *Node[T] {
	if l.len == 0 {
		return nil
	}
	return l.sentinel.next
}

// Back returns the last node, or nil if the list is empty.
func (l *List[T]) Back() *Node[T] {
	if l.len == 0 {
		return nil
	}
	return l.sentinel.prev
}

func (l *List[T]) insertBetween(n, before, after *Node[T]) *Node[T] {
	n.prev = before
	n.next = after
	before.next = n
	after.prev = n
	n.list = l
	l.len++
	return n
}

// PushBack appends a new node holding v and returns it.
func (l *List[T]) PushBack(v T) *Node[T] {
	return l.insertBetween(&Node[T]{Value: v}, l.sentinel.prev, &l.sentinel)
}

// PushFront prepends a new node holding v and returns it.
func (l *List[T]) PushFront(v T) *Node[T] {
	return l.insertBetween(&Node[T]{Value: v}, &l.sentinel, l.sentinel.next)
}

// InsertBefore inserts a new node holding v immediately before mark and
// returns it. mark must belong to l.
func (l *List[T]) InsertBefore(v T, mark *Node[T]) *Node[T] {
	return l.insertBetween(&Node[T]{Value: v}, mark.prev, mark)
}

// InsertAfter inserts a new node holding v immediately after mark and
// returns it. mark must belong to l.
func (l *List[T]) InsertAfter(v T, mark *Node[T]) *Node[T] {
	return l.insertBetween(&Node[T]{Value: v}, mark, mark.next)
}

// Remove detaches n from its list.
func (l *List[T]) Remove(n *Node[T]) {
	if n.list != l {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next, n.list = nil, nil, nil
	l.len--
}

// RemoveChain detaches the inclusive run of nodes [first, last] — which
// must be contiguous in l — as a single splice. The chain is walked once
// to count its nodes and clear their list membership; that count is
// returned so callers can keep their own length counters in sync.
func (l *List[T]) RemoveChain(first, last *Node[T]) int {
	before := first.prev
	after := last.next
	before.next = after
	after.prev = before

	n := 0
	for cur := first; ; {
		next := cur.next
		cur.list = nil
		n++
		if cur == last {
			break
		}
		cur = next
	}
	first.prev = nil
	last.next = nil
	l.len -= n
	return n
}

// InsertChainAfter splices the detached chain [first, last] (as produced
// by RemoveChain, or built standalone) into l immediately after mark,
// adopting all n nodes.
func (l *List[T]) InsertChainAfter(first, last *Node[T], n int, mark *Node[T]) {
	after := mark.next
	mark.next = first
	first.prev = mark
	last.next = after
	after.prev = last
	for cur := first; ; cur = cur.next {
		cur.list = l
		if cur == last {
			break
		}
	}
	l.len += n
}

// PushBackChain splices the detached chain [first, last] onto the end of
// l in one splice, adopting all n nodes (each node is visited once to
// set its list membership). Equivalent to calling PushBack once per node
// but without the per-node allocation and length-counter churn.
func (l *List[T]) PushBackChain(first, last *Node[T], n int) {
	l.InsertChainAfter(first, last, n, l.sentinel.prev)
}

// PushFrontChain splices the detached chain [first, last] onto the front
// of l in one splice, adopting all n nodes.
func (l *List[T]) PushFrontChain(first, last *Node[T], n int) {
	l.InsertChainAfter(first, last, n, &l.sentinel)
}
