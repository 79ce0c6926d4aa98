package main

import (
	"fmt"

	"github.com/fengniudashen/meshcheck"
	"github.com/fengniudashen/meshcheck/mesh"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Builds a small mesh with deliberate defects (an open strip, a crossing
// triangle pair and a sliver) and runs every detector on it.
func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	meshcheck.SetLogger(logger)

	vertices := []mgl64.Vec3{
		// Open quad (two triangles, boundary all around).
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		// Crossing pair.
		{3, -1, 0}, {5, -1, 0}, {4, 1, 0},
		{4, 0, -1}, {4, 0, 1}, {4, -2, 0},
		// Sliver.
		{7, 0, 0}, {9, 0, 0}, {8, 0.001, 0},
	}
	faces := [][3]int{
		{0, 1, 2}, {0, 2, 3},
		{4, 5, 6}, {7, 8, 9},
		{10, 11, 12},
	}

	m, err := mesh.NewTriMesh(vertices, faces)
	if err != nil {
		logger.Fatal("invalid mesh", zap.Error(err))
	}

	checker, err := meshcheck.NewChecker(m)
	if err != nil {
		logger.Fatal("checker", zap.Error(err))
	}

	opts := meshcheck.DefaultOptions()
	opts.Progress = func(percent int, message string) bool {
		fmt.Printf("  %3d%% %s\n", percent, message)
		return true
	}

	results, err := checker.RunAll(opts)
	if err != nil {
		logger.Fatal("detection failed", zap.Error(err))
	}

	for _, kind := range meshcheck.Kinds {
		r := results[kind]
		fmt.Printf("%-21s %-9s count=%d elapsed=%s\n",
			kind, r.ResultStatus(), r.ResultStats().Count, r.ResultStats().Elapsed)
	}

	pierced := results[meshcheck.KindPiercedFaces].(meshcheck.IntersectionResult)
	for _, f := range pierced.Faces {
		fmt.Printf("face %d pierces %v\n", f, pierced.Adjacency[f])
	}
}
