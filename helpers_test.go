package meshcheck

import (
	"math/rand"
	"testing"

	"github.com/fengniudashen/meshcheck/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

func mustMesh(t *testing.T, vertices []mgl64.Vec3, faces [][3]int) *mesh.TriMesh {
	t.Helper()
	m, err := mesh.NewTriMesh(vertices, faces)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// tetraMesh is a watertight 4-face mesh: no free edges, no boundary.
func tetraMesh(t *testing.T) *mesh.TriMesh {
	return mustMesh(t,
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][3]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}},
	)
}

// crossingMesh holds two triangles penetrating each other in an X, sharing
// no vertices, plus a bystander far away.
func crossingMesh(t *testing.T) *mesh.TriMesh {
	return mustMesh(t,
		[]mgl64.Vec3{
			{-1, 0, 0}, {1, 0, 0}, {0, 2, 0},
			{0, 1, -1}, {0, 1, 1}, {0, -2, 0},
			{10, 10, 10}, {11, 10, 10}, {10, 11, 10},
		},
		[][3]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}},
	)
}

// parallelTrianglesMesh is proximity scenario A: two disjoint unit triangles
// separated along Z by gap, characteristic length sqrt(0.5).
func parallelTrianglesMesh(t *testing.T, gap float64) *mesh.TriMesh {
	return mustMesh(t,
		[]mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
			{0, 0, gap}, {1, 0, gap}, {0, 1, gap},
		},
		[][3]int{{0, 1, 2}, {3, 4, 5}},
	)
}

// sheetMeshInto appends a size x size unit-cell sheet at height z.
func sheetMeshInto(vertices []mgl64.Vec3, faces [][3]int, size int, z float64) ([]mgl64.Vec3, [][3]int) {
	base := len(vertices)
	for y := 0; y <= size; y++ {
		for x := 0; x <= size; x++ {
			vertices = append(vertices, mgl64.Vec3{float64(x), float64(y), z})
		}
	}
	stride := size + 1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v0 := base + y*stride + x
			v1 := v0 + 1
			v2 := v0 + stride + 1
			v3 := v0 + stride
			faces = append(faces, [3]int{v0, v1, v2}, [3]int{v0, v2, v3})
		}
	}
	return vertices, faces
}

// sheetPairMesh builds two parallel size x size sheets separated by gap;
// face count is 4*size*size.
func sheetPairMesh(t *testing.T, size int, gap float64) *mesh.TriMesh {
	var vertices []mgl64.Vec3
	var faces [][3]int
	vertices, faces = sheetMeshInto(vertices, faces, size, 0)
	vertices, faces = sheetMeshInto(vertices, faces, size, gap)
	return mustMesh(t, vertices, faces)
}

// randomMesh builds a seeded random triangle soup for property tests.
func randomMesh(t *testing.T, rng *rand.Rand, vertexCount, faceCount int) *mesh.TriMesh {
	vertices := make([]mgl64.Vec3, vertexCount)
	for i := range vertices {
		vertices[i] = mgl64.Vec3{rng.Float64() * 4, rng.Float64() * 4, rng.Float64() * 4}
	}
	faces := make([][3]int, 0, faceCount)
	for len(faces) < faceCount {
		a, b, c := rng.Intn(vertexCount), rng.Intn(vertexCount), rng.Intn(vertexCount)
		if a == b || b == c || a == c {
			continue
		}
		faces = append(faces, [3]int{a, b, c})
	}
	return mustMesh(t, vertices, faces)
}

func containsFace(faces []int, want int) bool {
	for _, f := range faces {
		if f == want {
			return true
		}
	}
	return false
}
