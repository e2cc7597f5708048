// Package dsa holds the small graph-theory primitives the save engine
// needs to turn an overlap graph into a DAG: a union-find for detecting
// which edges close a cycle, and a max-priority queue for picking the
// heaviest edge to keep when two compete for the same cycle.
package dsa

// DisjointSet is a union-by-rank, path-compressed union-find over the
// integers [0, n). It tracks which vertices of the overlap graph have
// already been connected by a kept (non-cycle-closing) edge.
type DisjointSet struct {
	parent []int
	rank   []int
}

// NewDisjointSet returns a set with n singleton elements, each its own
// representative.
func NewDisjointSet(n int) *DisjointSet {
	ds := &DisjointSet{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

// Find returns the representative of x's set, compressing the path to
// the root as it walks up.
func (ds *DisjointSet) Find(x int) int {
	if ds.parent[x] != x {
		ds.parent[x] = ds.Find(ds.parent[x])
	}
	return ds.parent[x]
}

// Union merges the sets containing x and y and reports whether they were
// previously distinct. A false result means x and y were already in the
// same set — the edge connecting them would close a cycle.
func (ds *DisjointSet) Union(x, y int) bool {
	rx, ry := ds.Find(x), ds.Find(y)
	if rx == ry {
		return false
	}
	switch {
	case ds.rank[rx] < ds.rank[ry]:
		ds.parent[rx] = ry
	case ds.rank[rx] > ds.rank[ry]:
		ds.parent[ry] = rx
	default:
		ds.parent[ry] = rx
		ds.rank[rx]++
	}
	return true
}

// Connected reports whether x and y are currently in the same set.
func (ds *DisjointSet) Connected(x, y int) bool {
	return ds.Find(x) == ds.Find(y)
}
