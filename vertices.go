package meshcheck

import (
	"sort"
	"time"

	"github.com/fengniudashen/meshcheck/mesh"
)

// DetectOverlappingVertices reports overlapping (non-manifold) vertices: a
// vertex is flagged when at least Options.MinFreeEdges of its incident edges
// are free. With RequireEvenParity set, the incident free-edge count must
// also be even.
func DetectOverlappingVertices(m mesh.Mesh, opts Options) (VertexResult, error) {
	c, err := NewChecker(m)
	if err != nil {
		return VertexResult{Status: StatusFailed}, err
	}
	return c.OverlappingVertices(opts)
}

// OverlappingVertices runs the vertex detector.
func (c *Checker) OverlappingVertices(opts Options) (VertexResult, error) {
	start := time.Now()
	if err := checkTargets(opts.TargetVertices, c.mesh.VertexCount()); err != nil {
		return VertexResult{Status: StatusFailed}, err
	}
	minFree := opts.MinFreeEdges
	if minFree <= 0 {
		minFree = DefaultMinFreeEdges
	}

	if b := activeBackend(opts); b != nil && len(opts.TargetVertices) == 0 {
		vertices, err := b.OverlappingVertices(c.mesh, minFree, opts.RequireEvenParity)
		if err == nil && !validVertexIDs(vertices, c.mesh.VertexCount()) {
			err = errMalformedResult
		}
		if err == nil {
			sort.Ints(vertices)
			return VertexResult{
				Status:   StatusCompleted,
				Vertices: vertices,
				Stats:    Stats{Count: len(vertices), Elapsed: time.Since(start)},
			}, nil
		}
		logBackendFallback(b, "overlapping-vertices", err)
	}

	topo := c.topology()

	// An empty target set means a global scan, not an empty one.
	check := opts.TargetVertices
	if len(check) == 0 {
		check = make([]int, c.mesh.VertexCount())
		for i := range check {
			check[i] = i
		}
	}

	var vertices []int
	for _, v := range check {
		free := topo.FreeEdgeCount(v)
		if free < minFree {
			continue
		}
		if opts.RequireEvenParity && free%2 != 0 {
			continue
		}
		vertices = append(vertices, v)
	}
	sort.Ints(vertices)

	return VertexResult{
		Status:   StatusCompleted,
		Vertices: vertices,
		Stats:    Stats{Count: len(vertices), Elapsed: time.Since(start)},
	}, nil
}
