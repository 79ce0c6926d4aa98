package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DegenerateTol classifies a triangle as degenerate: a face whose area (or
// an edge, axis or segment length in the predicate layer) falls below this
// value gets the documented conservative fallback instead of an error.
const DegenerateTol = 1e-10

// FaceData holds the per-face quantities derived once from a snapshot and
// shared read-only by the detectors and accelerators: unit normal, area,
// characteristic length sqrt(area), centroid and bounding box.
//
// Degenerate faces keep a zero normal and zero characteristic length; they
// still exist for topology purposes but are excluded from normal-based tests.
type FaceData struct {
	Normals     []mgl64.Vec3
	Areas       []float64
	CharLengths []float64
	Centroids   []mgl64.Vec3
	Boxes       []AABB

	// Bounds is the bounding box of the whole mesh.
	Bounds AABB
	// MeanCharLength is the mean characteristic length over all faces,
	// used to size the uniform spatial grid.
	MeanCharLength float64
}

// BuildFaceData computes the derived face arrays in one pass over the mesh.
func BuildFaceData(m Mesh) *FaceData {
	n := m.FaceCount()
	d := &FaceData{
		Normals:     make([]mgl64.Vec3, n),
		Areas:       make([]float64, n),
		CharLengths: make([]float64, n),
		Centroids:   make([]mgl64.Vec3, n),
		Boxes:       make([]AABB, n),
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		f := m.Face(i)
		a, b, c := m.Vertex(f[0]), m.Vertex(f[1]), m.Vertex(f[2])

		cross := b.Sub(a).Cross(c.Sub(a))
		norm := cross.Len()
		area := 0.5 * norm
		d.Areas[i] = area
		if area >= DegenerateTol {
			d.Normals[i] = cross.Mul(1 / norm)
			d.CharLengths[i] = math.Sqrt(area)
		}
		sum += d.CharLengths[i]

		d.Centroids[i] = a.Add(b).Add(c).Mul(1.0 / 3.0)
		d.Boxes[i] = AABBFromTriangle(a, b, c)
		if i == 0 {
			d.Bounds = d.Boxes[i]
		} else {
			d.Bounds.Union(d.Boxes[i])
		}
	}
	if n > 0 {
		d.MeanCharLength = sum / float64(n)
	}
	return d
}

// Degenerate reports whether face i has near-zero area.
func (d *FaceData) Degenerate(i int) bool {
	return d.Areas[i] < DegenerateTol
}
