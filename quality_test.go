package meshcheck

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"

	"github.com/fengniudashen/meshcheck/mesh"
)

// mixedQualityMesh holds an equilateral triangle, a right isoceles triangle
// and a thin sliver.
func mixedQualityMesh(t *testing.T) *mesh.TriMesh {
	return mustMesh(t,
		[]mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0.5, math.Sqrt(3) / 2, 0},
			{2, 0, 0}, {3, 0, 0}, {2, 1, 0},
			{4, 0, 0}, {5, 0, 0}, {4.5, 0.01, 0},
		},
		[][3]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}},
	)
}

func TestQualityFlagsSlivers(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = DefaultQualityThreshold
	res, err := DetectQuality(mixedQualityMesh(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusCompleted {
		t.Errorf("status = %v, want %v", res.Status, StatusCompleted)
	}
	if diff := cmp.Diff([]int{2}, res.Faces); diff != "" {
		t.Errorf("flagged faces mismatch (-want +got):\n%s", diff)
	}
}

func TestQualityThresholdSweep(t *testing.T) {
	m := mixedQualityMesh(t)

	// Below every face's quality: nothing flagged.
	opts := DefaultOptions()
	opts.Threshold = 1e-6
	res, err := DetectQuality(m, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Faces) != 0 {
		t.Errorf("threshold 1e-6 flagged %v", res.Faces)
	}

	// Above the maximum quality of 1: everything flagged.
	opts.Threshold = 1.01
	res, err = DetectQuality(m, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, res.Faces); diff != "" {
		t.Errorf("threshold 1.01 mismatch (-want +got):\n%s", diff)
	}
}

func TestQualityHistogram(t *testing.T) {
	m := mixedQualityMesh(t)
	res, err := DetectQuality(m, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	total := 0
	for _, n := range res.Histogram {
		total += n
	}
	if total != m.FaceCount() {
		t.Errorf("histogram sums to %d, want %d", total, m.FaceCount())
	}

	// The equilateral triangle has quality 1 and lands in the top bucket;
	// the sliver lands in the bottom one.
	if res.Histogram[QualityBuckets-1] == 0 {
		t.Error("expected the equilateral face in the top bucket")
	}
	if res.Histogram[0] == 0 {
		t.Error("expected the sliver in the bottom bucket")
	}
}

func TestQualityStats(t *testing.T) {
	m := mixedQualityMesh(t)
	res, err := DetectQuality(m, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	s := res.Stats
	if s.Min < 0 || s.Min > s.Avg || s.Avg > s.Max || s.Max > 1 {
		t.Errorf("inconsistent stats: min=%g avg=%g max=%g", s.Min, s.Avg, s.Max)
	}
	if math.Abs(s.Max-1) > 1e-9 {
		t.Errorf("Max = %g, want 1 for the equilateral face", s.Max)
	}
	if s.Min > 0.01 {
		t.Errorf("Min = %g, want a near-zero sliver quality", s.Min)
	}
	if s.Count != len(res.Faces) {
		t.Errorf("Count = %d, want %d", s.Count, len(res.Faces))
	}
}

func TestQualityDegenerateFace(t *testing.T) {
	// A collinear face has zero area and quality zero.
	m := mustMesh(t,
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 1, 0}},
		[][3]int{{0, 1, 2}, {0, 1, 3}},
	)

	res, err := DetectQuality(m, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !containsFace(res.Faces, 0) {
		t.Errorf("degenerate face not flagged: %v", res.Faces)
	}
	if res.Histogram[0] == 0 {
		t.Error("degenerate face missing from the bottom bucket")
	}
}
