// Package geom implements the narrow-phase geometric predicates: exact (up
// to floating tolerance) triangle intersection, point/segment/triangle
// distances and the triangle quality metric. All predicates handle the
// degenerate inputs (zero-area triangles, zero-length segments, near-zero
// axes) by falling back to a defined conservative value, never by erroring.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Tol classifies lengths, areas and axis magnitudes as degenerate.
	Tol = 1e-10
	// BaryEps is the slack allowed on barycentric coordinates when deciding
	// whether a projected point lies inside a triangle.
	BaryEps = 1e-5
)

// TriangleNormal returns the unit normal of the triangle. ok is false for a
// degenerate (near-zero area) triangle, in which case the normal is zero.
func TriangleNormal(a, b, c mgl64.Vec3) (n mgl64.Vec3, ok bool) {
	cross := b.Sub(a).Cross(c.Sub(a))
	l := cross.Len()
	if l < Tol {
		return mgl64.Vec3{}, false
	}
	return cross.Mul(1 / l), true
}

// projectOntoAxis returns the min and max of the three vertex projections.
func projectOntoAxis(t [3]mgl64.Vec3, axis mgl64.Vec3) (float64, float64) {
	lo := t[0].Dot(axis)
	hi := lo
	for i := 1; i < 3; i++ {
		d := t[i].Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func separatedAlong(t1, t2 [3]mgl64.Vec3, axis mgl64.Vec3) bool {
	lo1, hi1 := projectOntoAxis(t1, axis)
	lo2, hi2 := projectOntoAxis(t2, axis)
	return hi1 < lo2 || hi2 < lo1
}

// TrianglesIntersect reports whether two triangles intersect, using the
// separating axis test over the 2 face normals and the 9 pairwise edge cross
// products. Axes of near-zero magnitude cannot separate and are skipped; a
// degenerate triangle contributes no normal axis but is still tested against
// the other triangle's axes and the edge axes.
func TrianglesIntersect(a0, a1, a2, b0, b1, b2 mgl64.Vec3) bool {
	t1 := [3]mgl64.Vec3{a0, a1, a2}
	t2 := [3]mgl64.Vec3{b0, b1, b2}

	if n1, ok := TriangleNormal(a0, a1, a2); ok && separatedAlong(t1, t2, n1) {
		return false
	}
	if n2, ok := TriangleNormal(b0, b1, b2); ok && separatedAlong(t1, t2, n2) {
		return false
	}

	edges1 := [3]mgl64.Vec3{a1.Sub(a0), a2.Sub(a1), a0.Sub(a2)}
	edges2 := [3]mgl64.Vec3{b1.Sub(b0), b2.Sub(b1), b0.Sub(b2)}
	for _, e1 := range edges1 {
		for _, e2 := range edges2 {
			axis := e1.Cross(e2)
			l := axis.Len()
			if l < Tol {
				continue
			}
			if separatedAlong(t1, t2, axis.Mul(1/l)) {
				return false
			}
		}
	}

	// No separating axis among the 11 candidates: the triangles intersect.
	return true
}

// PointSegmentDistance returns the distance from p to segment [a, b]. A
// near-zero-length segment degenerates to the distance to an endpoint.
func PointSegmentDistance(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < Tol*Tol {
		return p.Sub(a).Len()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// PointTriangleDistance returns the distance from p to triangle (a, b, c).
// The point is projected onto the triangle plane; if the projection's
// barycentric coordinates lie within [-BaryEps, 1+BaryEps] the perpendicular
// distance is returned, otherwise the minimum of the three point-segment
// distances. A degenerate triangle goes straight to the edge distances.
func PointTriangleDistance(p, a, b, c mgl64.Vec3) float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	n := ab.Cross(ac)
	nLen := n.Len()
	if nLen < Tol {
		return minSegmentDistances(p, a, b, c)
	}

	signed := p.Sub(a).Dot(n) / nLen
	proj := p.Sub(n.Mul(signed / nLen))

	// Barycentric coordinates of the projection.
	ap := proj.Sub(a)
	d00 := ab.Dot(ab)
	d01 := ab.Dot(ac)
	d11 := ac.Dot(ac)
	d20 := ap.Dot(ab)
	d21 := ap.Dot(ac)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < Tol {
		return minSegmentDistances(p, a, b, c)
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	u := 1 - v - w

	if u >= -BaryEps && u <= 1+BaryEps &&
		v >= -BaryEps && v <= 1+BaryEps &&
		w >= -BaryEps && w <= 1+BaryEps {
		return math.Abs(signed)
	}
	return minSegmentDistances(p, a, b, c)
}

func minSegmentDistances(p, a, b, c mgl64.Vec3) float64 {
	d := PointSegmentDistance(p, a, b)
	d = math.Min(d, PointSegmentDistance(p, b, c))
	return math.Min(d, PointSegmentDistance(p, c, a))
}

// SegmentsDistance returns the minimum distance between segments [p1, p2]
// and [q1, q2]. The closest points on the two carrier lines come from the
// standard 2x2 system in the direction vectors, clamped to [0, 1] per
// segment; near-parallel segments fall back to the four point-segment
// distances.
func SegmentsDistance(p1, p2, q1, q2 mgl64.Vec3) float64 {
	d1 := p2.Sub(p1)
	d2 := q2.Sub(q1)

	if d1.Dot(d1) < Tol {
		return PointSegmentDistance(p1, q1, q2)
	}
	if d2.Dot(d2) < Tol {
		return PointSegmentDistance(q1, p1, p2)
	}

	cross := d1.Cross(d2)
	cross2 := cross.Dot(cross)
	if cross2 < Tol {
		d := PointSegmentDistance(p1, q1, q2)
		d = math.Min(d, PointSegmentDistance(p2, q1, q2))
		d = math.Min(d, PointSegmentDistance(q1, p1, p2))
		return math.Min(d, PointSegmentDistance(q2, p1, p2))
	}

	r := q1.Sub(p1)
	t := r.Cross(d2).Dot(cross) / cross2
	s := r.Cross(d1).Dot(cross) / cross2
	t = math.Max(0, math.Min(1, t))
	s = math.Max(0, math.Min(1, s))

	return p1.Add(d1.Mul(t)).Sub(q1.Add(d2.Mul(s))).Len()
}

// TrianglesDistance returns the minimum distance between two triangles: the
// minimum over the 3+3 point-triangle distances and the 9 edge-edge
// distances, with an early exit at contact.
func TrianglesDistance(a0, a1, a2, b0, b1, b2 mgl64.Vec3) float64 {
	t1 := [3]mgl64.Vec3{a0, a1, a2}
	t2 := [3]mgl64.Vec3{b0, b1, b2}

	best := math.Inf(1)
	for _, p := range t1 {
		best = math.Min(best, PointTriangleDistance(p, b0, b1, b2))
		if best < Tol {
			return 0
		}
	}
	for _, p := range t2 {
		best = math.Min(best, PointTriangleDistance(p, a0, a1, a2))
		if best < Tol {
			return 0
		}
	}
	for i := 0; i < 3; i++ {
		e1a, e1b := t1[i], t1[(i+1)%3]
		for j := 0; j < 3; j++ {
			d := SegmentsDistance(e1a, e1b, t2[j], t2[(j+1)%3])
			best = math.Min(best, d)
			if best < Tol {
				return 0
			}
		}
	}
	return best
}

// FaceQuality returns the quality metric q = 2r/R of a triangle, where r is
// the inradius and R the circumradius. An equilateral triangle scores 1, a
// degenerate one 0; the result is clamped to [0, 1].
func FaceQuality(a, b, c mgl64.Vec3) float64 {
	la := b.Sub(c).Len()
	lb := a.Sub(c).Len()
	lc := a.Sub(b).Len()

	s := (la + lb + lc) / 2
	area := math.Sqrt(math.Max(0, s*(s-la)*(s-lb)*(s-lc)))
	if area < Tol {
		return 0
	}

	r := area / s
	rCirc := (la * lb * lc) / (4 * area)
	return math.Min(1, math.Max(0, 2*r/rCirc))
}
