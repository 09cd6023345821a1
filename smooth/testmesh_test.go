package smooth_test

import (
	"testing"

	"github.com/soypat/hmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// gridTriangles triangulates the planar grid spanned by xs and ys at z=0,
// quads split along their (+1,+1) diagonal, CCW from +z.
func gridTriangles(xs, ys []float64) [][3]r3.Vec {
	var tris [][3]r3.Vec
	for j := 0; j < len(ys)-1; j++ {
		for i := 0; i < len(xs)-1; i++ {
			a := r3.Vec{X: xs[i], Y: ys[j]}
			b := r3.Vec{X: xs[i+1], Y: ys[j]}
			c := r3.Vec{X: xs[i+1], Y: ys[j+1]}
			d := r3.Vec{X: xs[i], Y: ys[j+1]}
			tris = append(tris, [3]r3.Vec{a, b, c}, [3]r3.Vec{a, c, d})
		}
	}
	return tris
}

func seq(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i)
	}
	return s
}

func gridMesh(t testing.TB, n int) *hmesh.Manifold {
	t.Helper()
	m, err := hmesh.FromTriangles(gridTriangles(seq(n), seq(n)), 0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// octahedron returns the closed regular octahedron with vertices on the
// coordinate axes, wound CCW looking from outside.
func octahedron(t testing.TB) *hmesh.Manifold {
	t.Helper()
	var tris [][3]r3.Vec
	for _, sx := range []float64{1, -1} {
		for _, sy := range []float64{1, -1} {
			for _, sz := range []float64{1, -1} {
				x := r3.Vec{X: sx}
				y := r3.Vec{Y: sy}
				z := r3.Vec{Z: sz}
				if sx*sy*sz > 0 {
					tris = append(tris, [3]r3.Vec{x, y, z})
				} else {
					tris = append(tris, [3]r3.Vec{x, z, y})
				}
			}
		}
	}
	m, err := hmesh.FromTriangles(tris, 0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// enclosedVolume integrates the divergence theorem over the surface:
// V = sum(dot(centre, normal)*area)/3 for a closed outward-wound mesh.
func enclosedVolume(m *hmesh.Manifold) float64 {
	vol := 0.0
	for f := hmesh.FaceID(0); int(f) < m.AllocatedFaces(); f++ {
		vol += r3.Dot(m.FaceCentre(f), m.FaceNormal(f)) * m.FaceArea(f)
	}
	return vol / 3
}

func findVertex(t testing.TB, m *hmesh.Manifold, p r3.Vec) hmesh.VertexID {
	t.Helper()
	for v := hmesh.VertexID(0); int(v) < m.AllocatedVertices(); v++ {
		if r3.Norm(r3.Sub(m.Pos(v), p)) < 1e-9 {
			return v
		}
	}
	t.Fatalf("vertex at %v not found", p)
	return hmesh.InvalidVertexID
}

// interiorMaxAbsZ measures out-of-plane deviation over interior vertices
// only. Boundary vertices of an open patch are free to drift under
// normal fitting, so they are excluded from noise measurements.
func interiorMaxAbsZ(m *hmesh.Manifold) float64 {
	max := 0.0
	for v := hmesh.VertexID(0); int(v) < m.AllocatedVertices(); v++ {
		if m.IsBoundary(v) {
			continue
		}
		z := m.Pos(v).Z
		if z < 0 {
			z = -z
		}
		if z > max {
			max = z
		}
	}
	return max
}
