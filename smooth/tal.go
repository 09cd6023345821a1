package smooth

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/hmesh"
	"github.com/soypat/hmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// TALSmooth runs maxIter iterations of tangential area-weighted Laplacian
// smoothing. Interior vertices move toward an area-weighted average of
// their neighbors, where each neighbor is weighted by the total area of
// its own incident faces. Boundary vertices are relaxed only along the
// boundary polyline, attenuated by exp(-3*(pi-angleSum)^2) so that sharp
// boundary corners stay put while straight boundary runs even out.
//
// Positions are updated in place: each displacement depends only on the
// per-vertex Laplacians frozen before the update pass.
func TALSmooth(m *hmesh.Manifold, weight float64, maxIter int) {
	for iter := 0; iter < maxIter; iter++ {
		nv := m.AllocatedVertices()
		vertexAreas := make([]float32, nv)
		laplacians := make([]r3.Vec, nv)

		for v := hmesh.VertexID(0); int(v) < nv; v++ {
			for w := m.WalkerV(v); !w.FullCircle(); w = w.CirculateVertexCCW() {
				if f := w.Face(); f.IsValid() {
					vertexAreas[v] += float32(m.FaceArea(f))
				}
			}
		}

		for v := hmesh.VertexID(0); int(v) < nv; v++ {
			if m.IsBoundary(v) {
				laplacians[v] = boundaryLaplacian(m, v)
			} else {
				laplacians[v] = areaWeightedLaplacian(m, v, vertexAreas)
			}
		}
		for v := hmesh.VertexID(0); int(v) < nv; v++ {
			m.SetPos(v, r3.Add(m.Pos(v), r3.Scale(weight, laplacians[v])))
		}
	}
}

// areaWeightedLaplacian weights each one-ring edge vector by the
// neighbor's accumulated vertex area.
func areaWeightedLaplacian(m *hmesh.Manifold, v hmesh.VertexID, vertexAreas []float32) r3.Vec {
	var lap r3.Vec
	var wSum float32
	for w := m.WalkerV(v); !w.FullCircle(); w = w.CirculateVertexCCW() {
		wgt := vertexAreas[w.Vertex()]
		lap = r3.Add(lap, r3.Scale(float64(wgt), r3.Sub(m.Pos(w.Vertex()), m.Pos(v))))
		wSum += wgt
	}
	if wSum < 1e-20 || !d3.Finite(lap) {
		return r3.Vec{}
	}
	return r3.Scale(1/float64(wSum), lap)
}

// boundaryLaplacian averages edge vectors to the boundary neighbors only
// and damps the result by how far the one-ring angle sum at v is from a
// straight (pi) boundary.
func boundaryLaplacian(m *hmesh.Manifold, v hmesh.VertexID) r3.Vec {
	var lap r3.Vec
	wSum := 0.0
	angleSum := 0.0
	for w := m.WalkerV(v); !w.FullCircle(); w = w.CirculateVertexCCW() {
		if w.Face().IsValid() {
			vecA := r3.Sub(m.Pos(w.Vertex()), m.Pos(v))
			vecB := r3.Sub(m.Pos(w.CirculateVertexCCW().Vertex()), m.Pos(v))
			angleSum += math.Acos(d3.CosAngle(vecA, vecB))
		}
		if m.IsBoundary(w.Vertex()) {
			lap = r3.Add(lap, r3.Sub(m.Pos(w.Vertex()), m.Pos(v)))
			wSum += 1.0
		}
	}
	if wSum < 1 || !d3.Finite(lap) {
		return r3.Vec{}
	}
	lap = r3.Scale(1/wSum, lap)
	corner := float32(math.Max(0, math.Pi-angleSum))
	return r3.Scale(float64(math32.Exp(-3*corner*corner)), lap)
}
