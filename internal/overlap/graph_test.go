package overlap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlapCalculation(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"disjoint ranges": func(t *testing.T) {
			require.Equal(t, int64(0), Overlap(Range{0, 5}, Range{10, 5}))
		},
		"partial overlap": func(t *testing.T) {
			require.Equal(t, int64(3), Overlap(Range{0, 5}, Range{2, 5}))
		},
		"fully contained": func(t *testing.T) {
			require.Equal(t, int64(2), Overlap(Range{0, 10}, Range{4, 2}))
		},
		"zero-size range never overlaps": func(t *testing.T) {
			require.Equal(t, int64(0), Overlap(Range{0, 0}, Range{0, 5}))
		},
		"adjacent ranges do not overlap": func(t *testing.T) {
			require.Equal(t, int64(0), Overlap(Range{0, 5}, Range{5, 5}))
		},
	} {
		t.Run(scenario, fn)
	}
}

func TestRemoveCyclesBreaksTheLightestEdgeInACycle(t *testing.T) {
	g := New()
	// Three vertices whose dest/source ranges chain into a 3-cycle
	// (0 -> 2 -> 1 -> 0) once every pairwise overlap is wired up.
	v0 := g.AddVertex(VertexData{Dest: Range{0, 10}, Source: Range{100, 10}})
	v1 := g.AddVertex(VertexData{Dest: Range{100, 10}, Source: Range{200, 10}})
	v2 := g.AddVertex(VertexData{Dest: Range{200, 5}, Source: Range{0, 5}})

	broken := g.RemoveCycles()
	require.NotEmpty(t, broken, "a 3-cycle must have at least one edge removed")

	order := g.TopologicalOrder()
	require.Len(t, order, 3)
	require.ElementsMatch(t, []int{v0, v1, v2}, order)
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	g := New()
	a := g.AddVertex(VertexData{Dest: Range{0, 10}, Source: Range{1000, 10}})
	b := g.AddVertex(VertexData{Dest: Range{50, 10}, Source: Range{0, 10}})
	// b's source overlaps a's dest: edge a -> b.

	order := g.TopologicalOrder()
	posA, posB := -1, -1
	for i, v := range order {
		if v == a {
			posA = i
		}
		if v == b {
			posB = i
		}
	}
	require.True(t, posA < posB, "a must come before b in a valid topological order")
}
