package meshcheck

import (
	"errors"
	"sync"

	"github.com/fengniudashen/meshcheck/mesh"
	"go.uber.org/zap"
)

// ErrBackendUnsupported is returned by a Backend for operations it does not
// accelerate; the detector silently runs the reference algorithm.
var ErrBackendUnsupported = errors.New("meshcheck: operation not supported by backend")

// Backend is an accelerated implementation of the reference detectors. A
// backend must be set-equivalent to the reference algorithm: same element
// sets, and for pierced-face detection the same adjacency up to symmetric
// representation. When a backend returns an error or a malformed result the
// detector logs the failure and transparently recomputes with the reference
// algorithm; a call never mixes backend and reference results.
type Backend interface {
	Name() string
	FreeEdges(m mesh.Mesh) ([]mesh.EdgeKey, error)
	OverlappingEdges(m mesh.Mesh, tolerance float64) ([]mesh.EdgeKey, error)
	OverlappingVertices(m mesh.Mesh, minFreeEdges int, evenParity bool) ([]int, error)
	PiercedFaces(m mesh.Mesh) (faces []int, adjacency map[int][]int, err error)
	Proximity(m mesh.Mesh, threshold float64) ([]int, error)
	Quality(m mesh.Mesh, threshold float64) (faces []int, histogram [QualityBuckets]int, err error)
}

var (
	backendMu sync.RWMutex
	backend   Backend

	logger = zap.NewNop()
)

// RegisterBackend installs the process-wide accelerated backend. Passing nil
// removes it. Options.Backend overrides the registered backend per call.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// activeBackend resolves the backend for one call, or nil for the reference
// path.
func activeBackend(opts Options) Backend {
	if !opts.UseBackend {
		return nil
	}
	if opts.Backend != nil {
		return opts.Backend
	}
	backendMu.RLock()
	defer backendMu.RUnlock()
	return backend
}

func logBackendFallback(b Backend, op string, err error) {
	if errors.Is(err, ErrBackendUnsupported) {
		return
	}
	logger.Warn("backend failed, falling back to reference algorithm",
		zap.String("backend", b.Name()),
		zap.String("op", op),
		zap.Error(err),
	)
}

// errMalformedResult marks backend output that fails the shape checks below.
var errMalformedResult = errors.New("meshcheck: malformed backend result")

func validFaceIDs(ids []int, faceCount int) bool {
	for _, id := range ids {
		if id < 0 || id >= faceCount {
			return false
		}
	}
	return true
}

func validVertexIDs(ids []int, vertexCount int) bool {
	for _, id := range ids {
		if id < 0 || id >= vertexCount {
			return false
		}
	}
	return true
}

func validEdgeKeys(edges []mesh.EdgeKey, vertexCount int) bool {
	for _, e := range edges {
		if e.A < 0 || e.A >= vertexCount || e.B < 0 || e.B >= vertexCount || e.A >= e.B {
			return false
		}
	}
	return true
}

// validAdjacency checks ids and symmetry of a backend adjacency map.
func validAdjacency(adj map[int][]int, faceCount int) bool {
	for i, others := range adj {
		if i < 0 || i >= faceCount {
			return false
		}
		for _, j := range others {
			if j < 0 || j >= faceCount {
				return false
			}
			if !containsInt(adj[j], i) {
				return false
			}
		}
	}
	return true
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
