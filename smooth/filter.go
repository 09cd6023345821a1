package smooth

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/hmesh"
	"github.com/soypat/hmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// FaceNeighborhood returns f followed by every face sharing a vertex with
// f, each listed once. The touched marker is sized to the allocated face
// count so the expansion is a single linear scratch allocation.
func FaceNeighborhood(m *hmesh.Manifold, f hmesh.FaceID) []hmesh.FaceID {
	touched := make([]bool, m.AllocatedFaces())
	touched[f] = true
	nbrs := []hmesh.FaceID{f}
	for wf := m.WalkerF(f); !wf.FullCircle(); wf = wf.CirculateFaceCW() {
		for wv := m.WalkerV(wf.Vertex()); !wv.FullCircle(); wv = wv.CirculateVertexCW() {
			fn := wv.Face()
			if fn.IsValid() && !touched[fn] {
				nbrs = append(nbrs, fn)
				touched[fn] = true
			}
		}
	}
	return nbrs
}

// NormalFilter computes a denoised normal for face f from its extended
// neighborhood. avgEdgeLen is the mesh's average edge length, used by
// filters with a spatial falloff.
type NormalFilter interface {
	FilteredNormal(m *hmesh.Manifold, f hmesh.FaceID, avgEdgeLen float64) r3.Vec
}

// MedianFilter is the feature-preserving isotropic normal filter: it
// anchors an exponential weighting on the neighborhood's "median" normal,
// the one minimizing total angular distance to all others. The zero value
// selects Sigma=0.1 and Cutoff=0.01.
type MedianFilter struct {
	// Sigma is the exponential bandwidth of the angular weights.
	Sigma float32
	// Cutoff zeroes weights below it, cutting the exponential tail.
	Cutoff float32
}

func (mf MedianFilter) params() (sigma, cutoff float32) {
	sigma, cutoff = mf.Sigma, mf.Cutoff
	if sigma == 0 {
		sigma = 0.1
	}
	if cutoff == 0 {
		cutoff = 1e-2
	}
	return sigma, cutoff
}

// FilteredNormal implements NormalFilter. avgEdgeLen is unused: the
// median filter has no spatial term.
func (mf MedianFilter) FilteredNormal(m *hmesh.Manifold, f hmesh.FaceID, avgEdgeLen float64) r3.Vec {
	sigma, cutoff := mf.params()
	nbrs := FaceNeighborhood(m, f)
	normals := make([]r3.Vec, len(nbrs))
	for i, nbr := range nbrs {
		normals[i] = m.FaceNormal(nbr)
	}
	// Exact O(k^2) scan for the normal closest to all others.
	minDistSum := float32(math.MaxFloat32)
	median := 0
	for i := range normals {
		var distSum float32
		for j := range normals {
			distSum += 1 - float32(r3.Dot(normals[i], normals[j]))
		}
		if distSum < minDistSum {
			minDistSum = distSum
			median = i
		}
	}
	medianNorm := normals[median]
	var avgNorm r3.Vec
	for i := range normals {
		w := math32.Exp((float32(r3.Dot(medianNorm, normals[i])) - 1) / sigma)
		if w < cutoff {
			w = 0
		}
		avgNorm = r3.Add(avgNorm, r3.Scale(float64(w), normals[i]))
	}
	return d3.CondUnit(avgNorm)
}

// BilateralFilter weights each neighbor normal by face area, angular
// proximity to f's own normal and spatial proximity to f's centroid. The
// zero value selects an angular bandwidth of pi/32.
type BilateralFilter struct {
	AngularBandwidth float64
}

// FilteredNormal implements NormalFilter.
func (bf BilateralFilter) FilteredNormal(m *hmesh.Manifold, f hmesh.FaceID, avgEdgeLen float64) r3.Vec {
	bw := bf.AngularBandwidth
	if bw == 0 {
		bw = math.Pi / 32
	}
	if avgEdgeLen <= 0 {
		avgEdgeLen = 1
	}
	p0 := m.FaceCentre(f)
	n0 := m.FaceNormal(f)
	var fn r3.Vec
	for _, nbr := range FaceNeighborhood(m, f) {
		n := m.FaceNormal(nbr)
		p := m.FaceCentre(nbr)
		wAngle := math.Exp(-math.Acos(d3.Clamp(r3.Dot(n, n0), -1, 1)) / bw)
		wSpace := math.Exp(-r3.Norm(r3.Sub(p, p0)) / avgEdgeLen)
		fn = r3.Add(fn, r3.Scale(m.FaceArea(nbr)*wAngle*wSpace, n))
	}
	return d3.CondUnit(fn)
}
