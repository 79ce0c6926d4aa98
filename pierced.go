package meshcheck

import (
	"fmt"
	"time"

	"github.com/fengniudashen/meshcheck/geom"
	"github.com/fengniudashen/meshcheck/mesh"
)

// piercedProgressStride is the cancellation polling interval, in query faces.
const piercedProgressStride = 64

// DetectPiercedFaces reports self-intersections: faces that geometrically
// intersect another face they share no vertex with. The result carries the
// symmetric face-to-faces adjacency of intersecting pairs.
//
// With Options.TargetFaces set the detector runs in local mode: only the
// subset faces are used as queries, and the result contains the subset's
// intersecting members plus any face intersecting one of them, with the
// adjacency restricted to those relations.
func DetectPiercedFaces(m mesh.Mesh, opts Options) (IntersectionResult, error) {
	c, err := NewChecker(m)
	if err != nil {
		return IntersectionResult{Status: StatusFailed}, err
	}
	return c.PiercedFaces(opts)
}

// PiercedFaces runs the self-intersection detector.
func (c *Checker) PiercedFaces(opts Options) (IntersectionResult, error) {
	start := time.Now()
	if err := checkTargets(opts.TargetFaces, c.mesh.FaceCount()); err != nil {
		return IntersectionResult{Status: StatusFailed}, err
	}

	if b := activeBackend(opts); b != nil {
		res, err := c.piercedFromBackend(b, opts)
		if err == nil {
			res.Stats.Elapsed = time.Since(start)
			return res, nil
		}
		logBackendFallback(b, "pierced-faces", err)
	}

	res := c.piercedRef(opts)
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

func (c *Checker) piercedRef(opts Options) IntersectionResult {
	data := c.faceData()
	tree := c.octree()
	m := c.mesh

	progress := progressTracker{fn: opts.Progress}
	progress.report(0, "building octree partition")

	// An empty target set means a global scan, not an empty one.
	global := len(opts.TargetFaces) == 0
	check := opts.TargetFaces
	if global {
		check = make([]int, m.FaceCount())
		for i := range check {
			check[i] = i
		}
	}

	hit := make(map[int]struct{})
	adj := make(map[int]map[int]struct{})
	record := func(i, j int) {
		hit[i] = struct{}{}
		hit[j] = struct{}{}
		if adj[i] == nil {
			adj[i] = make(map[int]struct{})
		}
		if adj[j] == nil {
			adj[j] = make(map[int]struct{})
		}
		adj[i][j] = struct{}{}
		adj[j][i] = struct{}{}
	}

	for idx, i := range check {
		if idx%piercedProgressStride == 0 {
			percent := idx * 100 / len(check)
			if !progress.report(percent, fmt.Sprintf("checking face %d/%d", idx+1, len(check))) {
				break
			}
		}

		fi := m.Face(i)
		a0, a1, a2 := m.Vertex(fi[0]), m.Vertex(fi[1]), m.Vertex(fi[2])
		box := data.Boxes[i]

		tree.Query(box, func(j int) {
			if j == i {
				return
			}
			// In global mode every unordered pair comes up twice; keep the
			// ordered half. Local queries must test all candidates, since
			// the candidate side is never iterated.
			if global && j < i {
				return
			}
			if !box.Overlaps(data.Boxes[j]) {
				return
			}
			fj := m.Face(j)
			if sharesVertex(fi, fj) {
				return
			}
			if _, dup := adj[i][j]; dup {
				return
			}
			b0, b1, b2 := m.Vertex(fj[0]), m.Vertex(fj[1]), m.Vertex(fj[2])
			if geom.TrianglesIntersect(a0, a1, a2, b0, b1, b2) {
				record(i, j)
			}
		})
	}

	adjacency := sortedAdjacency(adj)
	total := 0
	for _, others := range adjacency {
		total += len(others)
	}

	return IntersectionResult{
		Status:             progress.status(),
		Faces:              sortedInts(hit),
		Adjacency:          adjacency,
		TotalIntersections: total / 2,
		Stats:              Stats{Count: len(hit)},
	}
}

// piercedFromBackend delegates the global scan to the backend and applies
// the local-mode filter on its result when a target subset is set.
func (c *Checker) piercedFromBackend(b Backend, opts Options) (IntersectionResult, error) {
	faces, adjacency, err := b.PiercedFaces(c.mesh)
	if err != nil {
		return IntersectionResult{}, err
	}
	if !validFaceIDs(faces, c.mesh.FaceCount()) || !validAdjacency(adjacency, c.mesh.FaceCount()) {
		return IntersectionResult{}, errMalformedResult
	}

	if len(opts.TargetFaces) > 0 {
		faces, adjacency = filterPiercedSubset(adjacency, opts.TargetFaces)
	}

	total := 0
	for _, others := range adjacency {
		total += len(others)
	}
	return IntersectionResult{
		Status:             StatusCompleted,
		Faces:              faces,
		Adjacency:          adjacency,
		TotalIntersections: total / 2,
		Stats:              Stats{Count: len(faces)},
	}, nil
}

// filterPiercedSubset refines a global intersection relation to a target
// subset: the result keeps subset faces that intersect anything, every face
// intersecting a subset member, and only the relations touching the subset.
func filterPiercedSubset(adjacency map[int][]int, targets []int) ([]int, map[int][]int) {
	inSubset := make(map[int]struct{}, len(targets))
	for _, t := range targets {
		inSubset[t] = struct{}{}
	}

	kept := make(map[int]struct{})
	filtered := make(map[int]map[int]struct{})
	keep := func(i, j int) {
		if filtered[i] == nil {
			filtered[i] = make(map[int]struct{})
		}
		filtered[i][j] = struct{}{}
		kept[i] = struct{}{}
		kept[j] = struct{}{}
	}

	for _, t := range targets {
		for _, j := range adjacency[t] {
			keep(t, j)
			keep(j, t)
		}
	}

	return sortedInts(kept), sortedAdjacency(filtered)
}

func sharesVertex(a, b [3]int) bool {
	for _, va := range a {
		for _, vb := range b {
			if va == vb {
				return true
			}
		}
	}
	return false
}
