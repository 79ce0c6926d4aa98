package meshcheck

import (
	"time"

	"github.com/fengniudashen/meshcheck/mesh"
)

// DetectFreeEdges reports every edge used by exactly one face. Free edges
// mark open boundary regions; a watertight mesh yields the empty set.
func DetectFreeEdges(m mesh.Mesh, opts Options) (EdgeResult, error) {
	c, err := NewChecker(m)
	if err != nil {
		return EdgeResult{Status: StatusFailed}, err
	}
	return c.FreeEdges(opts)
}

// FreeEdges runs the free-edge detector against the Checker's snapshot.
func (c *Checker) FreeEdges(opts Options) (EdgeResult, error) {
	start := time.Now()

	if b := activeBackend(opts); b != nil {
		edges, err := b.FreeEdges(c.mesh)
		if err == nil && !validEdgeKeys(edges, c.mesh.VertexCount()) {
			err = errMalformedResult
		}
		if err == nil {
			return EdgeResult{
				Status: StatusCompleted,
				Edges:  sortedEdges(edges),
				Stats:  Stats{Count: len(edges), Elapsed: time.Since(start)},
			}, nil
		}
		logBackendFallback(b, "free-edges", err)
	}

	edges := freeEdgesRef(c.topology())
	return EdgeResult{
		Status: StatusCompleted,
		Edges:  edges,
		Stats:  Stats{Count: len(edges), Elapsed: time.Since(start)},
	}, nil
}

func freeEdgesRef(topo *mesh.Topology) []mesh.EdgeKey {
	var edges []mesh.EdgeKey
	for e, count := range topo.EdgeCounts {
		if count == 1 {
			edges = append(edges, e)
		}
	}
	return sortedEdges(edges)
}
