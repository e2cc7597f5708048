package dsa

import "container/heap"

// WeightedItem is one entry in a PriorityQueue: an opaque payload plus
// the weight it is ordered by. Index is maintained by container/heap and
// lets callers re-key an item in place with Fix instead of removing and
// re-adding it — the Go equivalent of the reference implementation's
// change_key, which re-heapifies a tracked position up or down.
type WeightedItem struct {
	Value  interface{}
	Weight int
	index  int
}

// priorityQueue is the container/heap.Interface implementation backing
// PriorityQueue. It orders by descending weight (max-heap).
type priorityQueue []*WeightedItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool { return pq[i].Weight > pq[j].Weight }

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*WeightedItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// PriorityQueue is a max-priority queue keyed by WeightedItem.Weight.
// Grounded on the array-based max-heap in the original overlap-graph
// cycle breaker, reimplemented on top of container/heap rather than
// hand-rolled upheap/downheap.
type PriorityQueue struct {
	h priorityQueue
}

// NewPriorityQueue returns an empty queue.
func NewPriorityQueue() *PriorityQueue {
	pq := &PriorityQueue{}
	heap.Init(&pq.h)
	return pq
}

// Add inserts an item and returns it so the caller can retain a handle
// for a later ChangeWeight.
func (pq *PriorityQueue) Add(value interface{}, weight int) *WeightedItem {
	item := &WeightedItem{Value: value, Weight: weight}
	heap.Push(&pq.h, item)
	return item
}

// RemoveMax pops and returns the highest-weight item, or nil if empty.
func (pq *PriorityQueue) RemoveMax() *WeightedItem {
	if pq.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&pq.h).(*WeightedItem)
}

// ChangeWeight updates an item's weight and restores heap order. item
// must be a handle previously returned by Add and still present in the
// queue.
func (pq *PriorityQueue) ChangeWeight(item *WeightedItem, weight int) {
	item.Weight = weight
	heap.Fix(&pq.h, item.index)
}

// Len reports the number of items currently queued.
func (pq *PriorityQueue) Len() int { return pq.h.Len() }
