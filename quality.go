package meshcheck

import (
	"runtime"
	"time"

	"github.com/fengniudashen/meshcheck/geom"
	"github.com/fengniudashen/meshcheck/mesh"
)

// DetectQuality computes the 2r/R quality metric for every face, flags faces
// below the threshold and builds a fixed-width histogram of the quality
// distribution over [0, 1].
func DetectQuality(m mesh.Mesh, opts Options) (QualityResult, error) {
	c, err := NewChecker(m)
	if err != nil {
		return QualityResult{Status: StatusFailed}, err
	}
	return c.Quality(opts)
}

// Quality runs the face-quality detector.
func (c *Checker) Quality(opts Options) (QualityResult, error) {
	start := time.Now()
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultQualityThreshold
	}

	if b := activeBackend(opts); b != nil {
		faces, histogram, err := b.Quality(c.mesh, threshold)
		if err == nil && !validFaceIDs(faces, c.mesh.FaceCount()) {
			err = errMalformedResult
		}
		if err == nil {
			res := QualityResult{
				Status:    StatusCompleted,
				Faces:     faces,
				Histogram: histogram,
				Stats:     Stats{Count: len(faces), Elapsed: time.Since(start)},
			}
			return res, nil
		}
		logBackendFallback(b, "quality", err)
	}

	res := c.qualityRef(threshold, opts)
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

func (c *Checker) qualityRef(threshold float64, opts Options) QualityResult {
	m := c.mesh
	n := m.FaceCount()

	// The metric is independent per face: fill the slice in parallel, then
	// aggregate sequentially.
	qualities := make([]float64, n)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	workers := opts.Workers
	if workers < 1 {
		workers = max(1, runtime.NumCPU()-1)
	}
	task(workers, indices, func(i int) {
		f := m.Face(i)
		qualities[i] = geom.FaceQuality(m.Vertex(f[0]), m.Vertex(f[1]), m.Vertex(f[2]))
	})

	progress := progressTracker{fn: opts.Progress}
	res := QualityResult{}
	minQ, maxQ, sum := 1.0, 0.0, 0.0
	for i, q := range qualities {
		if i%1024 == 0 && !progress.report(i*100/n, "aggregating face quality") {
			break
		}
		bucket := int(q * QualityBuckets)
		if bucket >= QualityBuckets {
			bucket = QualityBuckets - 1
		}
		res.Histogram[bucket]++

		if q < minQ {
			minQ = q
		}
		if q > maxQ {
			maxQ = q
		}
		sum += q

		if q < threshold {
			res.Faces = append(res.Faces, i)
		}
	}

	res.Status = progress.status()
	res.Stats = Stats{
		Count: len(res.Faces),
		Min:   minQ,
		Max:   maxQ,
		Avg:   sum / float64(n),
	}
	return res
}
