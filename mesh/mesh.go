// Package mesh defines the read-only triangle mesh snapshot consumed by the
// defect detectors, along with the derived per-face data and the topology
// index they share.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrEmptyMesh is returned for a mesh with no faces or no vertices.
	ErrEmptyMesh = errors.New("mesh: empty mesh")
	// ErrVertexOutOfRange is returned when a face references a vertex index
	// outside [0, VertexCount).
	ErrVertexOutOfRange = errors.New("mesh: face vertex index out of range")
	// ErrRepeatedVertex is returned when a face uses the same vertex twice.
	ErrRepeatedVertex = errors.New("mesh: face repeats a vertex index")
)

// Mesh is an immutable snapshot of a triangulated surface. Implementations
// must keep the vertex and face data stable for the duration of a detector
// call; detectors never retain a reference beyond one call and never mutate
// the snapshot.
type Mesh interface {
	VertexCount() int
	Vertex(i int) mgl64.Vec3
	FaceCount() int
	Face(i int) [3]int
}

// TriMesh is the plain in-memory Mesh implementation.
type TriMesh struct {
	Vertices []mgl64.Vec3
	Faces    [][3]int
}

// NewTriMesh builds a validated snapshot. The slices are retained, not
// copied; the caller must not mutate them while the mesh is in use.
func NewTriMesh(vertices []mgl64.Vec3, faces [][3]int) (*TriMesh, error) {
	m := &TriMesh{Vertices: vertices, Faces: faces}
	if err := Check(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *TriMesh) VertexCount() int        { return len(m.Vertices) }
func (m *TriMesh) Vertex(i int) mgl64.Vec3 { return m.Vertices[i] }
func (m *TriMesh) FaceCount() int          { return len(m.Faces) }
func (m *TriMesh) Face(i int) [3]int       { return m.Faces[i] }

// Check validates a snapshot at the engine boundary: a non-empty mesh whose
// faces reference three distinct in-range vertices. Detectors assume a
// checked mesh and have no error path of their own for malformed faces.
func Check(m Mesh) error {
	if m == nil || m.FaceCount() == 0 || m.VertexCount() == 0 {
		return ErrEmptyMesh
	}
	n := m.VertexCount()
	for i := 0; i < m.FaceCount(); i++ {
		f := m.Face(i)
		for _, v := range f {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: face %d vertex %d (vertex count %d)", ErrVertexOutOfRange, i, v, n)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			return fmt.Errorf("%w: face %d = %v", ErrRepeatedVertex, i, f)
		}
	}
	return nil
}
