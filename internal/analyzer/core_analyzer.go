package analyzer

import (
	"context"
	"sync"

	"github.com/anime-shed/image-quality-go/internal/decoder"
	"github.com/anime-shed/image-quality-go/internal/scoring"
	"github.com/anime-shed/image-quality-go/pkg/models"
)

// coreAssessor implements ImageAssessor and orchestrates decoding, metrics
// and scoring. It keeps no per-assessment state.
type coreAssessor struct {
	decoder           ImageDecoder
	metricsCalculator MetricsCalculator
	workerPool        *WorkerPool
}

// NewImageAssessor creates a new assessor that decodes with dec. Batch
// assessments run on workers goroutines; workers <= 0 uses the CPU count.
func NewImageAssessor(dec ImageDecoder, workers int) (ImageAssessor, error) {
	if dec == nil {
		dec = decoder.NewDecoder(decoder.NewDcrawDeveloper(""))
	}

	workerPool := NewWorkerPool(workers)
	workerPool.Start()

	return &coreAssessor{
		decoder:           dec,
		metricsCalculator: NewMetricsCalculator(),
		workerPool:        workerPool,
	}, nil
}

// Assess decodes path and scores it. Decoder errors are returned unchanged.
func (ca *coreAssessor) Assess(ctx context.Context, path string) (*models.AssessmentReport, error) {
	img, err := ca.decoder.Decode(ctx, path)
	if err != nil {
		return nil, err
	}
	return ca.AssessImage(path, img), nil
}

// AssessImage runs every metric on img and aggregates the weighted ones.
func (ca *coreAssessor) AssessImage(path string, img *decoder.CanonicalImage) *models.AssessmentReport {
	mc := ca.metricsCalculator
	report := &models.AssessmentReport{
		ImagePath:    path,
		Sharpness:    mc.Sharpness(img),
		Brightness:   mc.Brightness(img),
		Contrast:     mc.Contrast(img),
		Noise:        mc.Noise(img),
		ColorBalance: mc.ColorBalance(img),
		Saturation:   mc.Saturation(img),
		Resolution:   mc.Resolution(img),
	}
	report.Overall = scoring.Overall(report.Weighted())
	return report
}

// AssessBatch assesses paths on the worker pool and returns one result per
// path in input order. A cancelled context fails the paths not yet started.
func (ca *coreAssessor) AssessBatch(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, len(paths))
	var done sync.WaitGroup

	for i, path := range paths {
		done.Add(1)
		ca.workerPool.Submit(func() {
			defer done.Done()
			results[i].Path = path
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Report, results[i].Err = ca.Assess(ctx, path)
		})
	}

	done.Wait()
	return results
}

// Close stops the batch workers.
func (ca *coreAssessor) Close() error {
	ca.workerPool.Close()
	return nil
}
