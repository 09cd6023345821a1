// Package hmesh implements a half-edge polygonal mesh: opaque element
// handles, one-ring and face circulation via walkers, and a double
// buffered vertex position attribute. The connectivity is static; the
// smooth subpackage moves vertices but never flips, splits or collapses
// edges.
package hmesh

import "gonum.org/v1/gonum/spatial/r3"

// VertexID is an opaque handle to a mesh vertex.
type VertexID int32

// FaceID is an opaque handle to a mesh face.
type FaceID int32

// HalfEdgeID is an opaque handle to a mesh half-edge.
type HalfEdgeID int32

// Invalid handles. A half-edge on the outer boundary has InvalidFaceID
// as its incident face.
const (
	InvalidVertexID   VertexID   = -1
	InvalidFaceID     FaceID     = -1
	InvalidHalfEdgeID HalfEdgeID = -1
)

// IsValid reports whether the handle refers to a mesh element.
func (v VertexID) IsValid() bool { return v >= 0 }

// IsValid reports whether the handle refers to a mesh element.
func (f FaceID) IsValid() bool { return f >= 0 }

// IsValid reports whether the handle refers to a mesh element.
func (h HalfEdgeID) IsValid() bool { return h >= 0 }

type vertexRecord struct {
	// out is an outgoing half-edge. For boundary vertices it is the
	// boundary half-edge so that circulation starts at the open wedge.
	out HalfEdgeID
}

type faceRecord struct {
	hedge HalfEdgeID
}

type halfEdgeRecord struct {
	// vert is the vertex the half-edge points to.
	vert VertexID
	// face on the left of the half-edge; InvalidFaceID on boundary loops.
	face FaceID
	next HalfEdgeID
	prev HalfEdgeID
	opp  HalfEdgeID
}

// Manifold is a half-edge mesh. Vertices, faces and half-edges live in
// dense arenas addressed by their IDs. Boundary loops are represented by
// linked half-edges whose face is InvalidFaceID, so walker circulation
// always closes, boundary or not.
type Manifold struct {
	verts  []vertexRecord
	faces  []faceRecord
	hedges []halfEdgeRecord
	// pos is the live position buffer, indexed by VertexID.
	pos []r3.Vec
}

// AllocatedVertices returns the vertex arena size for scratch attribute sizing.
func (m *Manifold) AllocatedVertices() int { return len(m.verts) }

// AllocatedFaces returns the face arena size for scratch attribute sizing.
func (m *Manifold) AllocatedFaces() int { return len(m.faces) }

// AllocatedHalfEdges returns the half-edge arena size.
func (m *Manifold) AllocatedHalfEdges() int { return len(m.hedges) }

// ValidVertex reports whether v refers to a live vertex.
func (m *Manifold) ValidVertex(v VertexID) bool { return v >= 0 && int(v) < len(m.verts) }

// ValidFace reports whether f refers to a live face.
func (m *Manifold) ValidFace(f FaceID) bool { return f >= 0 && int(f) < len(m.faces) }

// ValidHalfEdge reports whether h refers to a live half-edge.
func (m *Manifold) ValidHalfEdge(h HalfEdgeID) bool { return h >= 0 && int(h) < len(m.hedges) }

// Pos returns the current position of v.
func (m *Manifold) Pos(v VertexID) r3.Vec { return m.pos[v] }

// SetPos overwrites the current position of v.
func (m *Manifold) SetPos(v VertexID, p r3.Vec) { m.pos[v] = p }

// PositionsCopy allocates and returns a copy of the live position buffer,
// sized to the vertex arena. Used as the scratch half of a double buffer.
func (m *Manifold) PositionsCopy() []r3.Vec {
	cp := make([]r3.Vec, len(m.pos))
	copy(cp, m.pos)
	return cp
}

// SwapPositions exchanges the live position buffer with buf. It is the
// sole point at which a scratch buffer becomes current; callers must not
// interleave it with reads of the same iteration. buf must be sized to
// AllocatedVertices.
func (m *Manifold) SwapPositions(buf *[]r3.Vec) {
	m.pos, *buf = *buf, m.pos
}

// IsBoundary reports whether v lies on an open boundary of the mesh.
func (m *Manifold) IsBoundary(v VertexID) bool {
	for w := m.WalkerV(v); !w.FullCircle(); w = w.CirculateVertexCCW() {
		if !w.Face().IsValid() {
			return true
		}
	}
	return false
}

// Valence returns the number of one-ring neighbors of v.
func (m *Manifold) Valence(v VertexID) int {
	n := 0
	for w := m.WalkerV(v); !w.FullCircle(); w = w.CirculateVertexCCW() {
		n++
	}
	return n
}
