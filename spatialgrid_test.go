package meshcheck

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fengniudashen/meshcheck/mesh"
)

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, CellKey{0, 0, 0}},
		{"positive", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negative", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"fractional", mgl64.Vec3{0.5, 0.5, 0.5}, CellKey{0, 0, 0}},
		{"large", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16) // 16 cells, mask = 15

	tests := []struct {
		name     string
		key      CellKey
		expected int
	}{
		{"origin", CellKey{0, 0, 0}, 0},
		{"simple", CellKey{1, 2, 3}, 0},
		{"negative", CellKey{-1, -2, -3}, 13},
		{"large", CellKey{100, 200, 300}, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.hashCell(tt.key)
			if result < 0 || result >= len(grid.cells) {
				t.Errorf("hashCell(%v) = %d, out of range [0, %d)", tt.key, result, len(grid.cells))
			}
			if result != tt.expected {
				t.Errorf("hashCell(%v) = %d, want %d", tt.key, result, tt.expected)
			}
		})
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{16, 16},
		{17, 32},
		{1000, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	boxes := []mesh.AABB{
		{Min: mgl64.Vec3{0.1, 0.1, 0.1}, Max: mgl64.Vec3{0.9, 0.9, 0.9}},
		{Min: mgl64.Vec3{2.1, 2.1, 2.1}, Max: mgl64.Vec3{2.9, 2.9, 2.9}},
		{Min: mgl64.Vec3{10.1, 10.1, 10.1}, Max: mgl64.Vec3{10.9, 10.9, 10.9}},
	}
	for i, box := range boxes {
		grid.Insert(i, box)
	}

	seen := make([]bool, len(boxes))

	// A query around box 0 must report box 0.
	var got []int
	grid.Query(boxes[0], seen, func(face int) {
		got = append(got, face)
	})
	if !containsFace(got, 0) {
		t.Errorf("query around box 0 returned %v, want it to contain 0", got)
	}

	// The scratch slice must be restored after the query.
	for i, s := range seen {
		if s {
			t.Errorf("seen[%d] not restored after query", i)
		}
	}

	// A query spanning everything must report each face exactly once.
	all := mesh.AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{12, 12, 12}}
	counts := make(map[int]int)
	grid.Query(all, seen, func(face int) {
		counts[face]++
	})
	for i := range boxes {
		if counts[i] != 1 {
			t.Errorf("face %d visited %d times, want exactly 1", i, counts[i])
		}
	}
}

func TestQueryAfterClear(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	grid.Insert(0, mesh.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}})
	grid.Clear()

	seen := make([]bool, 1)
	visited := 0
	grid.Query(mesh.AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{2, 2, 2}}, seen, func(int) {
		visited++
	})
	if visited != 0 {
		t.Errorf("expected no faces after Clear, visited %d", visited)
	}
}

func TestBoundaryBoxSpansCells(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	// Box exactly on a cell boundary must span two cells per axis.
	box := mesh.AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{1.5, 1.5, 1.5}}
	minCell := grid.worldToCell(box.Min)
	maxCell := grid.worldToCell(box.Max)

	if maxCell.X-minCell.X != 1 || maxCell.Y-minCell.Y != 1 || maxCell.Z-minCell.Z != 1 {
		t.Errorf("expected box to span 2 cells per axis, got %d, %d, %d",
			maxCell.X-minCell.X, maxCell.Y-minCell.Y, maxCell.Z-minCell.Z)
	}
}

// TestMeshGridCandidates checks the broad phase never misses a true overlap:
// every pair of faces whose expanded boxes intersect must show up as a query
// candidate.
func TestMeshGridCandidates(t *testing.T) {
	m := sheetPairMesh(t, 6, 0.05)
	data := mesh.BuildFaceData(m)
	grid := NewMeshGrid(m, data)

	seen := make([]bool, m.FaceCount())
	radius := 0.2
	for i := 0; i < m.FaceCount(); i++ {
		query := data.Boxes[i].Expanded(radius)
		candidates := make(map[int]bool)
		grid.Query(query, seen, func(face int) {
			candidates[face] = true
		})
		for j := 0; j < m.FaceCount(); j++ {
			if i == j {
				continue
			}
			if query.Overlaps(data.Boxes[j]) && !candidates[j] {
				t.Fatalf("face %d overlaps query box of face %d but was not a candidate", j, i)
			}
		}
	}
}
