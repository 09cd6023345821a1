// Package smooth implements surface-fairing algorithms for half-edge
// meshes: uniform and cotangent discrete Laplacians, Laplacian and Taubin
// iteration, tangential area-weighted Laplacian smoothing with boundary
// damping, and anisotropic smoothing via face-normal filtering.
//
// The package never reports errors: degenerate weights and non-finite
// intermediates collapse to a zero displacement so that every iteration
// produces finite, usable positions.
package smooth

import (
	"math"
	"runtime"
	"sync"

	"github.com/soypat/hmesh"
	"github.com/soypat/hmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Laplacian returns the uniform (umbrella) Laplacian of v: the mean of
// the one-ring neighbor positions minus the position of v.
func Laplacian(m *hmesh.Manifold, v hmesh.VertexID) r3.Vec {
	var sum r3.Vec
	n := 0
	for w := m.WalkerV(v); !w.FullCircle(); w = w.CirculateVertexCCW() {
		sum = r3.Add(sum, m.Pos(w.Vertex()))
		n++
	}
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Sub(r3.Scale(1/float64(n), sum), m.Pos(v))
}

// CotanLaplacian returns the cotangent-weighted Laplacian of v. Each
// one-ring edge is weighted by the angles opposite to it in its two
// incident triangles. Near-degenerate wedges are guarded: a vanishing
// weight sum or a non-finite accumulation yields the zero vector.
func CotanLaplacian(m *hmesh.Manifold, v hmesh.VertexID) r3.Vec {
	var p r3.Vec
	vertex := m.Pos(v)
	wSum := 0.0
	for w := m.WalkerV(v); !w.FullCircle(); w = w.CirculateVertexCCW() {
		nbr := m.Pos(w.Vertex())
		left := m.Pos(w.Next().Vertex())
		right := m.Pos(w.Opp().Prev().Opp().Vertex())

		aLeft := math.Acos(d3.CosAngle(r3.Sub(nbr, left), r3.Sub(vertex, left)))
		aRight := math.Acos(d3.CosAngle(r3.Sub(nbr, right), r3.Sub(vertex, right)))

		wgt := math.Sin(aLeft+aRight) / (1e-10 + math.Sin(aLeft)*math.Sin(aRight))
		p = r3.Add(p, r3.Scale(wgt, nbr))
		wSum += wgt
	}
	if wSum < 1e-20 || !d3.Finite(p) {
		return r3.Vec{}
	}
	return r3.Sub(r3.Scale(1/wSum, p), vertex)
}

// batchVertices partitions the non-boundary vertices of m into workers
// disjoint batches by round-robin over contiguous runs: the k-th accepted
// vertex lands in batch (k/batchSize)%workers. Boundary membership never
// changes during smoothing, so batches are computed once per call.
func batchVertices(m *hmesh.Manifold, workers int) [][]hmesh.VertexID {
	batches := make([][]hmesh.VertexID, workers)
	batchSize := m.AllocatedVertices() / workers
	if batchSize == 0 {
		batchSize = 1
	}
	cnt := 0
	for v := hmesh.VertexID(0); int(v) < m.AllocatedVertices(); v++ {
		if m.IsBoundary(v) {
			continue
		}
		batches[(cnt/batchSize)%workers] = append(batches[(cnt/batchSize)%workers], v)
		cnt++
	}
	return batches
}

// forEachVertexParallel fans f out over the batches, one goroutine per
// batch, and blocks until all have finished. Batches are vertex-disjoint,
// so workers share no writable state and no locking is needed.
func forEachVertexParallel(batches [][]hmesh.VertexID, f func(batch []hmesh.VertexID)) {
	var wg sync.WaitGroup
	wg.Add(len(batches))
	for _, batch := range batches {
		go func(b []hmesh.VertexID) {
			defer wg.Done()
			f(b)
		}(batch)
	}
	wg.Wait()
}

func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n > 8 {
		n = 8
	}
	return n
}

// LaplacianSmooth iteratively moves every non-boundary vertex by
// weight times its uniform Laplacian, maxIter times. Boundary vertices
// are left fixed. Updates run on workers parallel batches against a
// frozen position buffer; the scratch buffer becomes current only after
// all workers have joined. workers <= 0 selects a default.
func LaplacianSmooth(m *hmesh.Manifold, weight float64, maxIter, workers int) {
	if workers <= 0 {
		workers = defaultWorkers()
	}
	batches := batchVertices(m, workers)
	newPos := m.PositionsCopy()
	f := func(batch []hmesh.VertexID) {
		for _, v := range batch {
			newPos[v] = r3.Add(m.Pos(v), r3.Scale(weight, Laplacian(m, v)))
		}
	}
	for iter := 0; iter < maxIter; iter++ {
		forEachVertexParallel(batches, f)
		m.SwapPositions(&newPos)
	}
}

// TaubinParams are the signed step sizes of the two Taubin passes. The
// zero value selects the classic +0.5/-0.52 pair whose slight asymmetry
// counteracts the volume shrinkage of plain Laplacian smoothing.
type TaubinParams struct {
	Inflate float64
	Deflate float64
}

func (p *TaubinParams) defaults() {
	if p.Inflate == 0 {
		p.Inflate = 0.5
	}
	if p.Deflate == 0 {
		p.Deflate = -0.52
	}
}

// TaubinSmooth runs 2*maxIter alternating inflate/deflate passes of the
// uniform Laplacian over all non-boundary vertices, swapping position
// buffers after each pass. It runs sequentially.
func TaubinSmooth(m *hmesh.Manifold, maxIter int, p TaubinParams) {
	p.defaults()
	newPos := m.PositionsCopy()
	for iter := 0; iter < 2*maxIter; iter++ {
		step := p.Inflate
		if iter%2 != 0 {
			step = p.Deflate
		}
		for v := hmesh.VertexID(0); int(v) < m.AllocatedVertices(); v++ {
			if m.IsBoundary(v) {
				continue
			}
			newPos[v] = r3.Add(m.Pos(v), r3.Scale(step, Laplacian(m, v)))
		}
		m.SwapPositions(&newPos)
	}
}
