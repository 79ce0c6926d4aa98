package meshcheck

import (
	"math"

	"github.com/fengniudashen/meshcheck/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// GridCellFactor sizes a grid cell as a multiple of the mesh's mean
// characteristic length.
const GridCellFactor = 3.0

// CellKey - coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// cell - container of face indices inside one cell
type cell struct {
	faceIndices []int
}

// SpatialGrid - uniform hashed grid used as the proximity broad phase. Every
// face is inserted into every cell its bounding box overlaps; queries expand
// a box by the search radius and union the face lists of the covered cells.
// The grid is rebuilt per call and only read afterwards, so concurrent
// queries need no locking.
type SpatialGrid struct {
	cellSize float64
	cells    []cell
	cellMask int
}

// NewSpatialGrid creates a grid with the given cell size and a cell count
// rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]cell, numCells)
	for i := range cells {
		cells[i].faceIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// NewMeshGrid builds the grid for one snapshot, sized from the mesh's mean
// characteristic length, and inserts every face.
func NewMeshGrid(m mesh.Mesh, data *mesh.FaceData) *SpatialGrid {
	cellSize := data.MeanCharLength * GridCellFactor
	if cellSize < mesh.DegenerateTol {
		cellSize = 1.0
	}

	sg := NewSpatialGrid(cellSize, m.FaceCount())
	for i := 0; i < m.FaceCount(); i++ {
		sg.Insert(i, data.Boxes[i])
	}
	return sg
}

// nextPowerOfTwo rounds up to the next power of two.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds a face to every cell its bounding box overlaps.
func (sg *SpatialGrid) Insert(faceIndex int, box mesh.AABB) {
	minCell := sg.worldToCell(box.Min)
	maxCell := sg.worldToCell(box.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				idx := sg.hashCell(CellKey{x, y, z})
				sg.cells[idx].faceIndices = append(sg.cells[idx].faceIndices, faceIndex)
			}
		}
	}
}

// Clear empties all cells, keeping their capacity.
func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].faceIndices = sg.cells[i].faceIndices[:0]
	}
}

// Query visits every face whose cell range overlaps the box, at most once.
// seen must be a caller-owned scratch slice of length FaceCount, reset to
// false; Query restores it before returning so it can be reused.
func (sg *SpatialGrid) Query(box mesh.AABB, seen []bool, visit func(face int)) {
	minCell := sg.worldToCell(box.Min)
	maxCell := sg.worldToCell(box.Max)

	var touched []int
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				idx := sg.hashCell(CellKey{x, y, z})
				for _, face := range sg.cells[idx].faceIndices {
					if seen[face] {
						continue
					}
					seen[face] = true
					touched = append(touched, face)
					visit(face)
				}
			}
		}
	}
	for _, face := range touched {
		seen[face] = false
	}
}

// worldToCell converts a world position to cell coordinates.
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell hashes a cell to an index in the cell array.
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
