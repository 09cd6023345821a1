package smooth

import (
	"math"
	"testing"

	"github.com/soypat/hmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func batchTestGrid(t *testing.T, n int) *hmesh.Manifold {
	t.Helper()
	var tris [][3]r3.Vec
	for j := 0; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			a := r3.Vec{X: float64(i), Y: float64(j)}
			b := r3.Vec{X: float64(i + 1), Y: float64(j)}
			c := r3.Vec{X: float64(i + 1), Y: float64(j + 1)}
			d := r3.Vec{X: float64(i), Y: float64(j + 1)}
			tris = append(tris, [3]r3.Vec{a, b, c}, [3]r3.Vec{a, c, d})
		}
	}
	m, err := hmesh.FromTriangles(tris, 0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBatchVerticesPartition(t *testing.T) {
	m := batchTestGrid(t, 7)
	for _, workers := range []int{1, 2, 4, 8} {
		batches := batchVertices(m, workers)
		if len(batches) != workers {
			t.Fatalf("workers=%d: got %d batches", workers, len(batches))
		}
		seen := make(map[hmesh.VertexID]int)
		for _, batch := range batches {
			for _, v := range batch {
				seen[v]++
			}
		}
		for v := hmesh.VertexID(0); int(v) < m.AllocatedVertices(); v++ {
			switch {
			case m.IsBoundary(v) && seen[v] != 0:
				t.Errorf("workers=%d: boundary vertex %d assigned to a batch", workers, v)
			case !m.IsBoundary(v) && seen[v] != 1:
				t.Errorf("workers=%d: interior vertex %d assigned %d times, want 1", workers, v, seen[v])
			}
		}
	}
}

func TestFitPassDisplacementNonIncreasing(t *testing.T) {
	// Against fixed filtered normals, the persistent target averaging must
	// damp each pass: the maximum squared displacement never grows from
	// one fitting pass to the next.
	m := batchTestGrid(t, 6)
	for v := hmesh.VertexID(0); int(v) < m.AllocatedVertices(); v++ {
		p := m.Pos(v)
		p.Z = 0.02 * math.Sin(13*p.X+7*p.Y)
		m.SetPos(v, p)
	}
	avgLen := m.AvgEdgeLength()
	filter := MedianFilter{}
	norms := make([]r3.Vec, m.AllocatedFaces())
	for f := range norms {
		norms[f] = filter.FilteredNormal(m, hmesh.FaceID(f), avgLen)
	}
	acc := make([]r3.Vec, m.AllocatedVertices())
	count := make([]int, m.AllocatedVertices())
	first := fitPass(m, norms, acc, count)
	if first == 0 {
		t.Fatal("expected the first fitting pass to move vertices")
	}
	prev := first
	for i := 1; i < 10; i++ {
		move := fitPass(m, norms, acc, count)
		if move > prev {
			t.Fatalf("pass %d displacement %g exceeds previous %g", i, move, prev)
		}
		prev = move
	}
	if prev >= first {
		t.Errorf("displacement did not decay: first %g, last %g", first, prev)
	}
}

func TestBatchVerticesFewVertices(t *testing.T) {
	// More workers than vertices must not panic or drop vertices.
	m := batchTestGrid(t, 3)
	batches := batchVertices(m, 16)
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	if total != 1 { // a 3x3 grid has a single interior vertex
		t.Errorf("batched %d vertices, want 1", total)
	}
}
