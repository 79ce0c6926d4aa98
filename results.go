package meshcheck

import (
	"sort"

	"github.com/fengniudashen/meshcheck/mesh"
)

// Result is the common surface of every detector result.
type Result interface {
	ResultStatus() Status
	ResultStats() Stats
}

// EdgeResult holds a set of edge keys (free or overlapping edges). Element
// order carries no meaning; slices are sorted for determinism.
type EdgeResult struct {
	Status Status
	Edges  []mesh.EdgeKey
	Stats  Stats
}

func (r EdgeResult) ResultStatus() Status { return r.Status }
func (r EdgeResult) ResultStats() Stats   { return r.Stats }

// VertexResult holds a set of vertex ids.
type VertexResult struct {
	Status   Status
	Vertices []int
	Stats    Stats
}

func (r VertexResult) ResultStatus() Status { return r.Status }
func (r VertexResult) ResultStats() Stats   { return r.Stats }

// FaceResult holds a set of face ids.
type FaceResult struct {
	Status Status
	Faces  []int
	Stats  Stats
}

func (r FaceResult) ResultStatus() Status { return r.Status }
func (r FaceResult) ResultStats() Stats   { return r.Stats }

// IntersectionResult holds the pierced faces plus the symmetric adjacency
// relation between intersecting pairs: j is listed under i iff i is listed
// under j. Faces with no intersections have no entry.
type IntersectionResult struct {
	Status    Status
	Faces     []int
	Adjacency map[int][]int
	// TotalIntersections counts unordered intersecting pairs.
	TotalIntersections int
	Stats              Stats
}

func (r IntersectionResult) ResultStatus() Status { return r.Status }
func (r IntersectionResult) ResultStats() Stats   { return r.Stats }

// QualityBuckets is the fixed histogram width over [0, 1].
const QualityBuckets = 10

// QualityResult holds the faces below the quality threshold and the quality
// distribution of the whole mesh.
type QualityResult struct {
	Status    Status
	Faces     []int
	Histogram [QualityBuckets]int
	Stats     Stats
}

func (r QualityResult) ResultStatus() Status { return r.Status }
func (r QualityResult) ResultStats() Stats   { return r.Stats }

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedEdges(edges []mesh.EdgeKey) []mesh.EdgeKey {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

// sortedAdjacency converts set-valued adjacency into sorted slices.
func sortedAdjacency(adj map[int]map[int]struct{}) map[int][]int {
	out := make(map[int][]int, len(adj))
	for i, set := range adj {
		if len(set) == 0 {
			continue
		}
		out[i] = sortedInts(set)
	}
	return out
}
