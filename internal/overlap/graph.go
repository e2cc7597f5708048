// Package overlap implements the save engine's overlap graph: a vertex
// per segment that reads from the file being saved, an edge u->v
// weighted by how many bytes of u's destination range alias v's source
// range, cycle removal via a maximum-weight spanning forest, and a
// topological order of what remains (the save engine writes in its
// reverse). Grounded on the reference
// library's overlap_graph.c.
package overlap

import (
	"fmt"
	"io"

	"github.com/aleksandarhr/blessbuf/internal/dsa"
)

// Range is a half-open byte range, used both for a vertex's destination
// range (where its segment will be written in the saved file) and a
// segment's source range (where it currently reads from that file).
type Range struct {
	Start, Size int64
}

// End returns the exclusive end of the range.
func (r Range) End() int64 { return r.Start + r.Size }

// Overlap computes the length of the intersection of two ranges.
// Grounded on overlap_graph.c's calculate_overlap, including its
// zero-size-range handling.
func Overlap(a, b Range) int64 {
	if a.Size == 0 || b.Size == 0 {
		return 0
	}
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End()
	if b.End() < hi {
		hi = b.End()
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// VertexData is the caller-supplied payload attached to a vertex: the
// segment's destination range (where it will land in the saved file)
// and its source range (where it currently reads from that same file).
type VertexData struct {
	Payload interface{}
	Dest    Range
	Source  Range
}

type edge struct {
	to     int
	weight int
}

type vertex struct {
	data  VertexData
	edges []edge
}

// Graph is the overlap graph over a fixed set of vertices added via
// AddVertex. Edges are derived automatically from each pair of vertices'
// overlapping ranges, in both directions, matching
// overlap_graph_add_segment's two-direction edge-adding loop.
type Graph struct {
	vertices []vertex
}

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// AddVertex adds a vertex for data and wires edges to/from every
// previously added vertex whose destination/source ranges overlap with
// this one's, in both directions.
func (g *Graph) AddVertex(data VertexData) int {
	id := len(g.vertices)
	g.vertices = append(g.vertices, vertex{data: data})

	for other := 0; other < id; other++ {
		// edge other -> id: other's destination overlaps id's source.
		if w := Overlap(g.vertices[other].data.Dest, data.Source); w > 0 {
			g.vertices[other].edges = append(g.vertices[other].edges, edge{to: id, weight: int(w)})
		}
		// edge id -> other: id's destination overlaps other's source.
		if w := Overlap(data.Dest, g.vertices[other].data.Source); w > 0 {
			g.vertices[id].edges = append(g.vertices[id].edges, edge{to: other, weight: int(w)})
		}
	}
	return id
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// VertexData returns the payload for vertex id.
func (g *Graph) VertexData(id int) VertexData { return g.vertices[id].data }

// BrokenEdge describes a cycle-closing edge that RemoveCycles rejected.
// The overlap region it represented (vertex From's destination range
// intersected with vertex To's source range) must be privately copied
// before the save proceeds, since the file can no longer be relied on to
// still hold the bytes To reads once From's destination is written.
type BrokenEdge struct {
	From, To int
	Weight   int
}

// RemoveCycles finds a maximum-weight spanning forest of the graph by
// union-find over edges taken in descending weight order (heaviest
// overlaps are kept, since breaking them would force copying the most
// data), and removes every edge that would close a cycle. It mutates the
// graph's edge lists in place and returns the removed edges. Grounded on
// overlap_graph.c's cycle-removal pass (there built over the module's
// priority queue and disjoint-set primitives exactly as done here).
func (g *Graph) RemoveCycles() []BrokenEdge {
	ds := dsa.NewDisjointSet(len(g.vertices))
	pq := dsa.NewPriorityQueue()

	type qEdge struct {
		from, to, weight int
	}
	for from, v := range g.vertices {
		for _, e := range v.edges {
			pq.Add(qEdge{from: from, to: e.to, weight: e.weight}, e.weight)
		}
	}

	keep := make(map[[2]int]bool)
	var broken []BrokenEdge
	for pq.Len() > 0 {
		item := pq.RemoveMax()
		qe := item.Value.(qEdge)
		if ds.Union(qe.from, qe.to) {
			keep[[2]int{qe.from, qe.to}] = true
		} else {
			broken = append(broken, BrokenEdge{From: qe.from, To: qe.to, Weight: qe.weight})
		}
	}

	for i := range g.vertices {
		kept := g.vertices[i].edges[:0]
		for _, e := range g.vertices[i].edges {
			if keep[[2]int{i, e.to}] {
				kept = append(kept, e)
			}
		}
		g.vertices[i].edges = kept
	}
	return broken
}

// TopologicalOrder returns vertex ids in an order where every edge u->v
// has u before v. The graph must be acyclic (call RemoveCycles first).
func (g *Graph) TopologicalOrder() []int {
	n := len(g.vertices)
	indegree := make([]int, n)
	for _, v := range g.vertices {
		for _, e := range v.edges {
			indegree[e.to]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, e := range g.vertices[id].edges {
			indegree[e.to]--
			if indegree[e.to] == 0 {
				queue = append(queue, e.to)
			}
		}
	}
	return order
}

// WriteDOT writes a Graphviz description of the graph, for debugging how
// cycle removal reshaped it. Grounded on overlap_graph.c's
// overlap_graph_export_dot.
func (g *Graph) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph overlap {"); err != nil {
		return err
	}
	for from, v := range g.vertices {
		for _, e := range v.edges {
			if _, err := fmt.Fprintf(w, "  %d -> %d [label=%q];\n", from, e.to, fmt.Sprint(e.weight)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
