package meshcheck

import (
	"math"

	"github.com/fengniudashen/meshcheck/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// Octree defaults: a node is split until it holds at most MinLeafFaces or
// reaches MaxDepth. Beyond that a leaf simply holds more faces and the
// narrow phase degrades gracefully.
const (
	OctreeMaxDepth     = 10
	OctreeMinLeafFaces = 10
)

// octreeNode is one arena entry: a cubic region with either a face list
// (leaf) or eight child indices. children[i] < 0 marks an absent child.
type octreeNode struct {
	center   mgl64.Vec3
	halfSize float64
	depth    int32
	leaf     bool
	children [8]int32
	faces    []int
}

// Octree is the broad phase for pierced-face detection: faces are routed by
// centroid into an adaptive cubic subdivision of the mesh bounds. Nodes live
// in a flat arena with index-based children, so traversal touches contiguous
// memory and no recursive node graph is allocated. The tree is rebuilt per
// call and read-only afterwards.
type Octree struct {
	nodes        []octreeNode
	maxDepth     int
	minLeafFaces int
}

// NewOctree builds the tree over all faces of a snapshot. The root region is
// a cube around the global bounding box, inflated by 1% so border faces are
// never lost to rounding.
func NewOctree(m mesh.Mesh, data *mesh.FaceData) *Octree {
	o := &Octree{maxDepth: OctreeMaxDepth, minLeafFaces: OctreeMinLeafFaces}

	bounds := data.Bounds
	size := bounds.Max.Sub(bounds.Min)
	edge := math.Max(size.X(), math.Max(size.Y(), size.Z())) * 1.01
	if edge < mesh.DegenerateTol {
		edge = 1.0
	}

	all := make([]int, m.FaceCount())
	for i := range all {
		all[i] = i
	}

	o.nodes = append(o.nodes, octreeNode{
		center:   bounds.Center(),
		halfSize: edge / 2,
		faces:    all,
	})
	o.split(0, data)
	return o
}

// octant routes a point to one of the eight children of a node center.
func octant(center, p mgl64.Vec3) int {
	idx := 0
	if p.X() > center.X() {
		idx |= 4
	}
	if p.Y() > center.Y() {
		idx |= 2
	}
	if p.Z() > center.Z() {
		idx |= 1
	}
	return idx
}

// split subdivides nodes iteratively with an explicit stack over arena
// indices.
func (o *Octree) split(root int32, data *mesh.FaceData) {
	stack := []int32{root}
	for len(stack) > 0 {
		ni := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &o.nodes[ni]
		if len(node.faces) <= o.minLeafFaces || int(node.depth) >= o.maxDepth {
			node.leaf = true
			continue
		}

		var childFaces [8][]int
		for _, face := range node.faces {
			childFaces[octant(node.center, data.Centroids[face])] = append(
				childFaces[octant(node.center, data.Centroids[face])], face)
		}

		center := node.center
		half := node.halfSize
		depth := node.depth
		node.faces = nil
		for i := range node.children {
			node.children[i] = -1
		}

		for i, faces := range childFaces {
			if len(faces) == 0 {
				continue
			}
			offset := mgl64.Vec3{-half / 2, -half / 2, -half / 2}
			if i&4 != 0 {
				offset[0] = half / 2
			}
			if i&2 != 0 {
				offset[1] = half / 2
			}
			if i&1 != 0 {
				offset[2] = half / 2
			}

			ci := int32(len(o.nodes))
			o.nodes = append(o.nodes, octreeNode{
				center:   center.Add(offset),
				halfSize: half / 2,
				depth:    depth + 1,
				faces:    faces,
			})
			// Appending may move the arena; re-resolve the parent.
			o.nodes[ni].children[i] = ci
			stack = append(stack, ci)
		}
	}
}

func (n *octreeNode) box() mesh.AABB {
	h := mgl64.Vec3{n.halfSize, n.halfSize, n.halfSize}
	return mesh.AABB{Min: n.center.Sub(h), Max: n.center.Add(h)}
}

// Query visits the faces of every leaf whose region overlaps the box. Faces
// are routed to exactly one leaf, so no deduplication is needed.
func (o *Octree) Query(box mesh.AABB, visit func(face int)) {
	if len(o.nodes) == 0 {
		return
	}
	stack := []int32{0}
	for len(stack) > 0 {
		ni := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &o.nodes[ni]
		if !node.box().Overlaps(box) {
			continue
		}
		if node.leaf {
			for _, face := range node.faces {
				visit(face)
			}
			continue
		}
		for _, ci := range node.children {
			if ci >= 0 {
				stack = append(stack, ci)
			}
		}
	}
}

// NodeCount returns the arena size, mostly for tests.
func (o *Octree) NodeCount() int {
	return len(o.nodes)
}
