package smooth

import (
	"github.com/soypat/hmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxFitIter bounds the fixed-point position-fitting relaxation inside
// each anisotropic iteration.
const maxFitIter = 100

// AnisotropicSmooth runs maxIter iterations of feature-preserving
// smoothing: it filters all face normals with filter (nil selects the
// median filter with default parameters), then relaxes vertex positions
// to fit the filtered normals. The relaxation projects each half-edge
// vector onto its face's filtered normal and averages the resulting
// targets per vertex, stopping early once the maximum squared vertex
// displacement drops below (1e-8*avgEdgeLen)^2.
func AnisotropicSmooth(m *hmesh.Manifold, maxIter int, filter NormalFilter) {
	if filter == nil {
		filter = MedianFilter{}
	}
	nh := m.AllocatedHalfEdges()
	nv := m.AllocatedVertices()
	for iter := 0; iter < maxIter; iter++ {
		// Each edge is two half-edges, hence the division by two.
		avgLen := 0.0
		for h := hmesh.HalfEdgeID(0); int(h) < nh; h++ {
			avgLen += m.EdgeLength(h)
		}
		avgLen /= 2
		if avgLen == 0 {
			return
		}

		filteredNorms := make([]r3.Vec, m.AllocatedFaces())
		for f := hmesh.FaceID(0); int(f) < len(filteredNorms); f++ {
			filteredNorms[f] = filter.FilteredNormal(m, f, avgLen)
		}

		// The accumulators persist across sub-iterations: each pass adds
		// new fitting targets to the running per-vertex average, which
		// keeps the fixed point stable.
		vertexPositions := make([]r3.Vec, nv)
		count := make([]int, nv)
		tol2 := (1e-8 * avgLen) * (1e-8 * avgLen)
		for subIter := 0; subIter < maxFitIter; subIter++ {
			if fitPass(m, filteredNorms, vertexPositions, count) < tol2 {
				break
			}
		}
	}
}

// fitPass projects each half-edge vector onto its face's filtered normal,
// adds the resulting target to the running per-vertex average and moves
// every vertex with at least one target to its average. It returns the
// maximum squared vertex displacement of the pass.
func fitPass(m *hmesh.Manifold, filteredNorms, vertexPositions []r3.Vec, count []int) float64 {
	for h := hmesh.HalfEdgeID(0); int(h) < m.AllocatedHalfEdges(); h++ {
		w := m.Walker(h)
		f := w.Face()
		if !f.IsValid() {
			continue
		}
		v := w.Vertex()
		dir := r3.Sub(m.Pos(w.Opp().Vertex()), m.Pos(v))
		n := filteredNorms[f]
		target := r3.Add(m.Pos(v), r3.Scale(0.5*r3.Dot(n, dir), n))
		vertexPositions[v] = r3.Add(vertexPositions[v], target)
		count[v]++
	}
	maxMove := 0.0
	for v := hmesh.VertexID(0); int(v) < m.AllocatedVertices(); v++ {
		if count[v] == 0 {
			continue
		}
		npos := r3.Scale(1/float64(count[v]), vertexPositions[v])
		move := r3.Norm2(r3.Sub(npos, m.Pos(v)))
		if move > maxMove {
			maxMove = move
		}
		m.SetPos(v, npos)
	}
	return maxMove
}
