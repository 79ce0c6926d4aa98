package meshcheck

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fengniudashen/meshcheck/geom"
	"github.com/fengniudashen/meshcheck/mesh"
)

// proximityProgressStride is the cancellation polling interval, in query
// faces per worker.
const proximityProgressStride = 256

// DetectProximity reports face pairs that are closer than expected without
// being topologically connected. The distance between two faces is
// normalized by the smaller of their characteristic lengths and compared to
// the threshold, scaled down by the angle between their normals: coplanar
// faces get the full threshold, perpendicular faces half of it.
func DetectProximity(m mesh.Mesh, opts Options) (FaceResult, error) {
	c, err := NewChecker(m)
	if err != nil {
		return FaceResult{Status: StatusFailed}, err
	}
	return c.Proximity(opts)
}

// Proximity runs the face-proximity detector, fanning the query faces out
// over Options.Workers batch workers against shared read-only state.
func (c *Checker) Proximity(opts Options) (FaceResult, error) {
	start := time.Now()
	if err := checkTargets(opts.TargetFaces, c.mesh.FaceCount()); err != nil {
		return FaceResult{Status: StatusFailed}, err
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultProximityThreshold
	}

	// The backend contract covers the global scan only; target subsets are
	// always served by the reference path.
	if b := activeBackend(opts); b != nil && len(opts.TargetFaces) == 0 {
		faces, err := b.Proximity(c.mesh, threshold)
		if err == nil && !validFaceIDs(faces, c.mesh.FaceCount()) {
			err = errMalformedResult
		}
		if err == nil {
			sort.Ints(faces)
			return FaceResult{
				Status: StatusCompleted,
				Faces:  faces,
				Stats:  Stats{Count: len(faces), Elapsed: time.Since(start)},
			}, nil
		}
		logBackendFallback(b, "proximity", err)
	}

	res := c.proximityRef(threshold, opts)
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

func (c *Checker) proximityRef(threshold float64, opts Options) FaceResult {
	m := c.mesh

	progress := newSharedProgress(opts.Progress)
	progress.report(0, "building spatial index")

	data := c.faceData()
	topo := c.topology()
	grid := c.spatialGrid()
	// Force the lazy adjacency build before fan-out; workers only read.
	topo.AdjacentFaces(0)

	// An empty target set means a global scan, not an empty one.
	global := len(opts.TargetFaces) == 0
	check := opts.TargetFaces
	if global {
		check = make([]int, m.FaceCount())
		for i := range check {
			check[i] = i
		}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = max(1, runtime.NumCPU()-1)
	}
	workers = min(workers, len(check))

	total := int64(len(check))
	var processed atomic.Int64
	locals := make([]map[int]struct{}, workers)

	taskRanges(workers, len(check), func(workerID, first, last int) {
		local := make(map[int]struct{})
		seen := make([]bool, m.FaceCount())
		locals[workerID] = local

		for idx := first; idx < last; idx++ {
			done := processed.Add(1)
			if idx%proximityProgressStride == 0 {
				percent := int(done * 100 / total)
				if !progress.report(percent, fmt.Sprintf("checking faces (%d/%d)", done, total)) {
					return
				}
			}

			i := check[idx]
			charI := data.CharLengths[i]
			if charI < mesh.DegenerateTol {
				continue
			}

			fi := m.Face(i)
			a0, a1, a2 := m.Vertex(fi[0]), m.Vertex(fi[1]), m.Vertex(fi[2])
			// Double the scaled radius so candidates near the cutoff are
			// never missed by the cell walk.
			radius := threshold * charI * 2
			box := data.Boxes[i].Expanded(radius)
			adjacent := topo.AdjacentFaces(i)

			grid.Query(box, seen, func(j int) {
				if j == i {
					return
				}
				if global && j < i {
					return
				}
				if containsInt(adjacent, j) {
					return
				}
				charJ := data.CharLengths[j]
				ref := math.Min(charI, charJ)
				if ref < mesh.DegenerateTol {
					return
				}
				// Cheap center prefilter before the exact distance.
				if data.Centroids[i].Sub(data.Centroids[j]).Len() > radius+charJ {
					return
				}

				cos := mgl64Clamp(data.Normals[i].Dot(data.Normals[j]), -1, 1)
				effective := threshold * (0.5 + 0.5*math.Abs(cos))

				fj := m.Face(j)
				dist := geom.TrianglesDistance(a0, a1, a2,
					m.Vertex(fj[0]), m.Vertex(fj[1]), m.Vertex(fj[2]))
				if dist/ref < effective {
					local[i] = struct{}{}
					local[j] = struct{}{}
				}
			})
		}
	})

	merged := make(map[int]struct{})
	for _, local := range locals {
		for f := range local {
			merged[f] = struct{}{}
		}
	}

	faces := sortedInts(merged)
	return FaceResult{
		Status: progress.status(),
		Faces:  faces,
		Stats:  Stats{Count: len(faces)},
	}
}

func mgl64Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// sharedProgress is the worker-safe progress tracker: the sink is called
// under a mutex, cancellation is a flag every worker polls.
type sharedProgress struct {
	fn        ProgressFunc
	mu        sync.Mutex
	cancelled atomic.Bool
}

func newSharedProgress(fn ProgressFunc) *sharedProgress {
	return &sharedProgress{fn: fn}
}

func (p *sharedProgress) report(percent int, message string) bool {
	if p.cancelled.Load() {
		return false
	}
	if p.fn == nil {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled.Load() {
		return false
	}
	if !p.fn(percent, message) {
		p.cancelled.Store(true)
		return false
	}
	return true
}

func (p *sharedProgress) status() Status {
	if p.cancelled.Load() {
		return StatusCancelled
	}
	return StatusCompleted
}
