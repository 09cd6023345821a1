package hmesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FromTriangles builds a Manifold from a set of triangles defining a
// manifold surface, welding shared vertices among triangles using
// vertexTol. It can be used to import meshes from triangle files such as
// STL and 3MF files.
// vertexTol should be of the order of 1/1000th of the size of the
// smallest triangle in the model. If set to 0 then it is inferred
// automatically.
func FromTriangles(triangles [][3]r3.Vec, vertexTolOrZero float64) (*Manifold, error) {
	if len(triangles) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	tol := vertexTolOrZero
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for i := range triangles {
		for j, vert := range triangles[i] {
			vert2 := triangles[i][(j+1)%3]
			side2 := r3.Norm2(r3.Sub(vert2, vert))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, fmt.Errorf("vertex tolerance is too large to weld mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	if tol <= 0 || math.Sqrt(maxDist2)/tol > math.MaxInt64/2 {
		return nil, errors.New("tolerance too small. overflowed int64")
	}

	m := &Manifold{}
	// Weld vertices on an integer lattice of pitch tol.
	cache := make(map[[3]int64]VertexID)
	ri := 1 / tol
	weld := func(vert r3.Vec) VertexID {
		v := r3.Scale(ri, vert)
		vi := [3]int64{int64(v.X), int64(v.Y), int64(v.Z)}
		idx, ok := cache[vi]
		if !ok {
			idx = VertexID(len(m.verts))
			cache[vi] = idx
			m.verts = append(m.verts, vertexRecord{out: InvalidHalfEdgeID})
			m.pos = append(m.pos, vert)
		}
		return idx
	}

	// Half-edge keyed by (origin, destination) vertex pair.
	edges := make(map[[2]VertexID]HalfEdgeID)
	for _, tri := range triangles {
		var vids [3]VertexID
		for j, vert := range tri {
			vids[j] = weld(vert)
		}
		if vids[0] == vids[1] || vids[1] == vids[2] || vids[2] == vids[0] {
			// Welding collapsed the triangle; drop it.
			continue
		}
		f := FaceID(len(m.faces))
		base := HalfEdgeID(len(m.hedges))
		for j := 0; j < 3; j++ {
			org, dst := vids[j], vids[(j+1)%3]
			key := [2]VertexID{org, dst}
			if _, dup := edges[key]; dup {
				return nil, fmt.Errorf("non-manifold edge between vertices %d and %d", org, dst)
			}
			h := base + HalfEdgeID(j)
			edges[key] = h
			m.hedges = append(m.hedges, halfEdgeRecord{
				vert: dst,
				face: f,
				next: base + HalfEdgeID((j+1)%3),
				prev: base + HalfEdgeID((j+2)%3),
				opp:  InvalidHalfEdgeID,
			})
			m.verts[org].out = h
		}
		m.faces = append(m.faces, faceRecord{hedge: base})
	}
	if len(m.faces) == 0 {
		return nil, errors.New("all triangles degenerate after vertex welding")
	}

	// Pair opposites; unmatched interior half-edges get a boundary twin.
	boundaryOut := make(map[VertexID]HalfEdgeID)
	nInterior := len(m.hedges)
	for h := 0; h < nInterior; h++ {
		if m.hedges[h].opp.IsValid() {
			continue
		}
		org := m.hedges[m.hedges[h].prev].vert
		dst := m.hedges[h].vert
		if twin, ok := edges[[2]VertexID{dst, org}]; ok {
			m.hedges[h].opp = twin
			m.hedges[twin].opp = HalfEdgeID(h)
			continue
		}
		// Boundary half-edge runs dst->org with no incident face.
		b := HalfEdgeID(len(m.hedges))
		m.hedges = append(m.hedges, halfEdgeRecord{
			vert: org,
			face: InvalidFaceID,
			next: InvalidHalfEdgeID,
			prev: InvalidHalfEdgeID,
			opp:  HalfEdgeID(h),
		})
		m.hedges[h].opp = b
		if _, dup := boundaryOut[dst]; dup {
			return nil, fmt.Errorf("non-manifold vertex %d on boundary", dst)
		}
		boundaryOut[dst] = b
	}

	// Close boundary loops and make boundary vertices start circulation
	// on their boundary half-edge.
	for org, b := range boundaryOut {
		dst := m.hedges[b].vert
		nb, ok := boundaryOut[dst]
		if !ok {
			return nil, fmt.Errorf("open boundary loop at vertex %d", dst)
		}
		m.hedges[b].next = nb
		m.hedges[nb].prev = b
		m.verts[org].out = b
	}
	m.pruneOrphans()
	return m, nil
}

// pruneOrphans compacts away vertices left without an incident half-edge
// by degenerate-triangle removal, so every surviving vertex supports
// circulation.
func (m *Manifold) pruneOrphans() {
	remap := make([]VertexID, len(m.verts))
	nv := 0
	for i := range m.verts {
		if !m.verts[i].out.IsValid() {
			remap[i] = InvalidVertexID
			continue
		}
		remap[i] = VertexID(nv)
		m.verts[nv] = m.verts[i]
		m.pos[nv] = m.pos[i]
		nv++
	}
	if nv == len(m.verts) {
		return
	}
	m.verts = m.verts[:nv]
	m.pos = m.pos[:nv]
	for i := range m.hedges {
		m.hedges[i].vert = remap[m.hedges[i].vert]
	}
}
