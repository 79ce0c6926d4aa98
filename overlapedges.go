package meshcheck

import (
	"math"
	"time"

	"github.com/fengniudashen/meshcheck/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// geoEdgeKey identifies an edge by the geometric positions of its endpoints,
// rounded to the tolerance precision and ordered, so coincident edges that
// do not share vertex indices still group together.
type geoEdgeKey struct {
	a, b [3]float64
}

func roundCoords(v mgl64.Vec3, precision int) [3]float64 {
	scale := math.Pow(10, float64(precision))
	return [3]float64{
		math.Round(v.X()*scale) / scale,
		math.Round(v.Y()*scale) / scale,
		math.Round(v.Z()*scale) / scale,
	}
}

func lessCoords(a, b [3]float64) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func makeGeoEdgeKey(v1, v2 mgl64.Vec3, precision int) geoEdgeKey {
	a := roundCoords(v1, precision)
	b := roundCoords(v2, precision)
	if lessCoords(b, a) {
		a, b = b, a
	}
	return geoEdgeKey{a: a, b: b}
}

// DetectOverlappingEdges reports non-manifold edge multiplicity: edges whose
// geometric position is shared by more than two faces. Grouping is by
// endpoint coordinates rounded to a precision derived from the tolerance,
// so duplicated geometry with distinct vertex indices is caught too. Each
// group maps back to one representative canonical index pair.
func DetectOverlappingEdges(m mesh.Mesh, opts Options) (EdgeResult, error) {
	c, err := NewChecker(m)
	if err != nil {
		return EdgeResult{Status: StatusFailed}, err
	}
	return c.OverlappingEdges(opts)
}

// OverlappingEdges runs the overlapping-edge detector.
func (c *Checker) OverlappingEdges(opts Options) (EdgeResult, error) {
	start := time.Now()
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultEdgeTolerance
	}

	if b := activeBackend(opts); b != nil {
		edges, err := b.OverlappingEdges(c.mesh, tolerance)
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
		logBackendFallback(b, "overlapping-edges", err)
	}

	edges := overlappingEdgesRef(c.mesh, tolerance)
	return EdgeResult{
		Status: StatusCompleted,
		Edges:  edges,
		Stats:  Stats{Count: len(edges), Elapsed: time.Since(start)},
	}, nil
}

func overlappingEdgesRef(m mesh.Mesh, tolerance float64) []mesh.EdgeKey {
	precision := int(-math.Log10(tolerance))

	counts := make(map[geoEdgeKey]int)
	reps := make(map[geoEdgeKey]mesh.EdgeKey)

	for i := 0; i < m.FaceCount(); i++ {
		f := m.Face(i)
		pairs := [3][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}}
		for _, p := range pairs {
			key := makeGeoEdgeKey(m.Vertex(p[0]), m.Vertex(p[1]), precision)
			if counts[key] == 0 {
				reps[key] = mesh.MakeEdgeKey(p[0], p[1])
			}
			counts[key]++
		}
	}

	var edges []mesh.EdgeKey
	for key, count := range counts {
		if count > 2 {
			edges = append(edges, reps[key])
		}
	}
	return sortedEdges(edges)
}
