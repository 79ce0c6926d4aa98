package meshcheck

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fengniudashen/meshcheck/mesh"
)

// ErrTargetOutOfRange is returned when Options.TargetFaces or
// Options.TargetVertices references an id outside the mesh. Targets are
// validated at the detector boundary, before any index or worker is touched.
var ErrTargetOutOfRange = errors.New("meshcheck: target id out of range")

func checkTargets(ids []int, count int) error {
	for _, id := range ids {
		if id < 0 || id >= count {
			return fmt.Errorf("%w: id %d (count %d)", ErrTargetOutOfRange, id, count)
		}
	}
	return nil
}

// Kind tags the six defect detector variants behind the one Detector
// interface.
type Kind int

const (
	KindFreeEdges Kind = iota
	KindOverlappingEdges
	KindOverlappingVertices
	KindPiercedFaces
	KindProximity
	KindQuality
)

func (k Kind) String() string {
	switch k {
	case KindFreeEdges:
		return "free-edges"
	case KindOverlappingEdges:
		return "overlapping-edges"
	case KindOverlappingVertices:
		return "overlapping-vertices"
	case KindPiercedFaces:
		return "pierced-faces"
	case KindProximity:
		return "proximity"
	case KindQuality:
		return "quality"
	}
	return "unknown"
}

// Kinds lists every detector variant.
var Kinds = []Kind{
	KindFreeEdges,
	KindOverlappingEdges,
	KindOverlappingVertices,
	KindPiercedFaces,
	KindProximity,
	KindQuality,
}

// Detector is the uniform face of one defect detector.
type Detector interface {
	Kind() Kind
	Detect(m mesh.Mesh, opts Options) (Result, error)
}

type kindDetector struct {
	kind Kind
}

// NewDetector returns the detector for a variant tag.
func NewDetector(k Kind) Detector {
	return kindDetector{kind: k}
}

func (d kindDetector) Kind() Kind { return d.kind }

func (d kindDetector) Detect(m mesh.Mesh, opts Options) (Result, error) {
	c, err := NewChecker(m)
	if err != nil {
		return nil, err
	}
	return c.Run(d.kind, opts)
}

// Checker runs detectors against one mesh snapshot, building the shared
// read-only indexes (topology, per-face data, spatial grid, octree) at most
// once. Detectors borrow the indexes; the Checker owns them for the
// snapshot's lifetime. A Checker is not safe for concurrent use.
type Checker struct {
	mesh mesh.Mesh

	topo *mesh.Topology
	data *mesh.FaceData
	grid *SpatialGrid
	tree *Octree
}

// NewChecker validates the snapshot once at the boundary; malformed meshes
// never reach a detector.
func NewChecker(m mesh.Mesh) (*Checker, error) {
	if err := mesh.Check(m); err != nil {
		return nil, err
	}
	return &Checker{mesh: m}, nil
}

// Mesh returns the snapshot under inspection.
func (c *Checker) Mesh() mesh.Mesh { return c.mesh }

func (c *Checker) topology() *mesh.Topology {
	if c.topo == nil {
		c.topo = mesh.BuildTopology(c.mesh)
	}
	return c.topo
}

func (c *Checker) faceData() *mesh.FaceData {
	if c.data == nil {
		c.data = mesh.BuildFaceData(c.mesh)
	}
	return c.data
}

func (c *Checker) spatialGrid() *SpatialGrid {
	if c.grid == nil {
		c.grid = NewMeshGrid(c.mesh, c.faceData())
	}
	return c.grid
}

func (c *Checker) octree() *Octree {
	if c.tree == nil {
		c.tree = NewOctree(c.mesh, c.faceData())
	}
	return c.tree
}

// Run executes one detector variant.
func (c *Checker) Run(k Kind, opts Options) (Result, error) {
	var (
		r   Result
		err error
	)
	switch k {
	case KindFreeEdges:
		r, err = c.FreeEdges(opts)
	case KindOverlappingEdges:
		r, err = c.OverlappingEdges(opts)
	case KindOverlappingVertices:
		r, err = c.OverlappingVertices(opts)
	case KindPiercedFaces:
		r, err = c.PiercedFaces(opts)
	case KindProximity:
		r, err = c.Proximity(opts)
	case KindQuality:
		r, err = c.Quality(opts)
	default:
		return nil, fmt.Errorf("meshcheck: unknown detector kind %d", int(k))
	}
	if err != nil {
		return r, err
	}

	stats := r.ResultStats()
	logger.Debug("detector finished",
		zap.Stringer("op", k),
		zap.Stringer("status", r.ResultStatus()),
		zap.Int("count", stats.Count),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return r, nil
}

// RunAll executes every detector with the same options and returns the
// results by kind. Threshold-style options are normalized per detector, so
// one Options value works for the whole sweep.
func (c *Checker) RunAll(opts Options) (map[Kind]Result, error) {
	results := make(map[Kind]Result, len(Kinds))
	for _, k := range Kinds {
		r, err := c.Run(k, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		results[k] = r
	}
	return results, nil
}
