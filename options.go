// Package meshcheck inspects triangulated surface meshes and reports
// topological and geometric defects: free edges, overlapping edges,
// overlapping (non-manifold) vertices, pierced faces, near-proximity face
// pairs and low-quality triangles.
package meshcheck

import (
	"time"
)

// Status is the terminal state of one detector call.
type Status int

const (
	StatusCompleted Status = iota
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ProgressFunc receives progress updates from the long-running detectors.
// Returning false requests cooperative cancellation: the detector stops at
// the next polling point and returns whatever it accumulated with
// StatusCancelled.
type ProgressFunc func(percent int, message string) bool

// Default option values.
const (
	DefaultProximityThreshold = 0.1
	DefaultQualityThreshold   = 0.3
	DefaultEdgeTolerance      = 1e-5
	DefaultMinFreeEdges       = 4
)

// Options configures one detector call. The zero value is not usable
// directly; start from DefaultOptions.
type Options struct {
	// Threshold is the proximity ratio threshold or the quality threshold,
	// depending on the detector.
	Threshold float64
	// Tolerance is the coordinate tolerance used by the overlapping-edge
	// geometry keys.
	Tolerance float64

	// TargetFaces restricts the face-based detectors to a subset of query
	// faces. Candidates may still come from the whole mesh. Nil means all.
	TargetFaces []int
	// TargetVertices restricts the vertex detector. Nil means all.
	TargetVertices []int

	// UseBackend enables delegation to the registered accelerated backend.
	UseBackend bool
	// Backend overrides the registered backend for this call.
	Backend Backend

	// Progress is the optional progress sink.
	Progress ProgressFunc
	// Workers is the worker count for the proximity batch runner; values
	// below 1 select a count from the machine's CPUs.
	Workers int

	// MinFreeEdges is the incident free-edge count at which a vertex is
	// flagged as overlapping.
	MinFreeEdges int
	// RequireEvenParity additionally requires an even incident free-edge
	// count. Modeling tools disagree on this rule, so it is an option rather
	// than a fixed behavior.
	RequireEvenParity bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:    DefaultProximityThreshold,
		Tolerance:    DefaultEdgeTolerance,
		UseBackend:   true,
		MinFreeEdges: DefaultMinFreeEdges,
	}
}

// Stats summarizes one detector call. Min/Max/Avg are only filled where the
// detector computes a per-face scalar (quality).
type Stats struct {
	Count   int
	Elapsed time.Duration
	Min     float64
	Max     float64
	Avg     float64
}

// progressTracker polls an optional ProgressFunc and remembers cancellation.
type progressTracker struct {
	fn        ProgressFunc
	cancelled bool
}

// report forwards an update and returns false once cancelled.
func (p *progressTracker) report(percent int, message string) bool {
	if p.cancelled {
		return false
	}
	if p.fn != nil && !p.fn(percent, message) {
		p.cancelled = true
		return false
	}
	return true
}

func (p *progressTracker) status() Status {
	if p.cancelled {
		return StatusCancelled
	}
	return StatusCompleted
}
