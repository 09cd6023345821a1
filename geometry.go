package hmesh

import (
	"github.com/soypat/hmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// FaceCentre returns the barycentre of the face's vertices.
func (m *Manifold) FaceCentre(f FaceID) r3.Vec {
	var c r3.Vec
	n := 0
	for w := m.WalkerF(f); !w.FullCircle(); w = w.CirculateFaceCCW() {
		c = r3.Add(c, m.Pos(w.Vertex()))
		n++
	}
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/float64(n), c)
}

// faceAreaVec returns the (unnormalized) area vector of f: the sum of
// centroid-relative edge cross products. Its norm is twice the face area
// and its direction is the face normal for planar faces.
func (m *Manifold) faceAreaVec(f FaceID) r3.Vec {
	c := m.FaceCentre(f)
	var n r3.Vec
	for w := m.WalkerF(f); !w.FullCircle(); w = w.CirculateFaceCCW() {
		a := r3.Sub(m.Pos(w.Opp().Vertex()), c)
		b := r3.Sub(m.Pos(w.Vertex()), c)
		n = r3.Add(n, r3.Cross(a, b))
	}
	return n
}

// FaceNormal returns the unit normal of f, or the zero vector for a
// degenerate face.
func (m *Manifold) FaceNormal(f FaceID) r3.Vec {
	return d3.CondUnit(m.faceAreaVec(f))
}

// FaceArea returns the area of f.
func (m *Manifold) FaceArea(f FaceID) float64 {
	return 0.5 * r3.Norm(m.faceAreaVec(f))
}

// EdgeLength returns the length of the edge underlying half-edge h.
func (m *Manifold) EdgeLength(h HalfEdgeID) float64 {
	he := m.hedges[h]
	return r3.Norm(r3.Sub(m.pos[he.vert], m.pos[m.hedges[he.opp].vert]))
}

// AvgEdgeLength returns the mean edge length of the mesh. Each half-edge
// pair contributes its length once.
func (m *Manifold) AvgEdgeLength() float64 {
	if len(m.hedges) == 0 {
		return 0
	}
	sum := 0.0
	for h := range m.hedges {
		sum += m.EdgeLength(HalfEdgeID(h))
	}
	return sum / float64(len(m.hedges))
}
