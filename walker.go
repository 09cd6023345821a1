package hmesh

// Walker is a traversal cursor bound to a half-edge. It is a value type:
// every move returns a new Walker. A step counter drives FullCircle so
// that one-ring and face loops terminate after a whole circulation.
type Walker struct {
	m     *Manifold
	cur   HalfEdgeID
	start HalfEdgeID
	steps int
}

// Walker returns a cursor bound to half-edge h.
func (m *Manifold) Walker(h HalfEdgeID) Walker {
	return Walker{m: m, cur: h, start: h}
}

// WalkerV returns a cursor on an outgoing half-edge of v, ready for
// one-ring circulation. For boundary vertices the cursor starts on the
// boundary half-edge so the open wedge is covered in one circulation.
func (m *Manifold) WalkerV(v VertexID) Walker {
	return m.Walker(m.verts[v].out)
}

// WalkerF returns a cursor on a half-edge of face f.
func (m *Manifold) WalkerF(f FaceID) Walker {
	return m.Walker(m.faces[f].hedge)
}

// HalfEdge returns the half-edge the cursor sits on.
func (w Walker) HalfEdge() HalfEdgeID { return w.cur }

// Vertex returns the vertex the current half-edge points to. During
// vertex circulation this is the one-ring neighbor.
func (w Walker) Vertex() VertexID { return w.m.hedges[w.cur].vert }

// Face returns the face on the left of the current half-edge, or
// InvalidFaceID on a boundary loop.
func (w Walker) Face() FaceID { return w.m.hedges[w.cur].face }

// Next moves to the next half-edge around the current face (or along the
// boundary loop).
func (w Walker) Next() Walker {
	w.cur = w.m.hedges[w.cur].next
	w.steps++
	return w
}

// Prev moves to the previous half-edge around the current face.
func (w Walker) Prev() Walker {
	w.cur = w.m.hedges[w.cur].prev
	w.steps++
	return w
}

// Opp moves to the oppositely oriented half-edge.
func (w Walker) Opp() Walker {
	w.cur = w.m.hedges[w.cur].opp
	w.steps++
	return w
}

// CirculateVertexCCW moves to the next outgoing half-edge counter-clockwise
// around the origin vertex.
func (w Walker) CirculateVertexCCW() Walker { return w.Prev().Opp() }

// CirculateVertexCW moves to the next outgoing half-edge clockwise around
// the origin vertex.
func (w Walker) CirculateVertexCW() Walker { return w.Opp().Next() }

// CirculateFaceCCW moves to the next half-edge of the current face.
func (w Walker) CirculateFaceCCW() Walker { return w.Next() }

// CirculateFaceCW moves to the previous half-edge of the current face.
func (w Walker) CirculateFaceCW() Walker { return w.Prev() }

// FullCircle reports whether the cursor has returned to its starting
// half-edge after at least one move. It is the loop condition of all
// circulation loops.
func (w Walker) FullCircle() bool { return w.steps > 0 && w.cur == w.start }
