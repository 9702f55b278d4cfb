package analyzer

import (
	"context"

	"github.com/anime-shed/image-quality-go/internal/decoder"
	"github.com/anime-shed/image-quality-go/pkg/models"
)

// ImageAssessor defines the main interface for image quality assessment
type ImageAssessor interface {
	// Assess decodes path and returns a fully populated report or an error.
	Assess(ctx context.Context, path string) (*models.AssessmentReport, error)

	// AssessImage scores an already decoded image.
	AssessImage(path string, img *decoder.CanonicalImage) *models.AssessmentReport

	// AssessBatch assesses each path independently; results keep input order.
	AssessBatch(ctx context.Context, paths []string) []BatchResult

	// Lifecycle management
	Close() error
}

// ImageDecoder resolves a path into a canonical image.
type ImageDecoder interface {
	Decode(ctx context.Context, path string) (*decoder.CanonicalImage, error)
}

// MetricsCalculator handles per-aspect metric computation
type MetricsCalculator interface {
	Sharpness(img *decoder.CanonicalImage) models.MetricResult
	Brightness(img *decoder.CanonicalImage) models.MetricResult
	Contrast(img *decoder.CanonicalImage) models.MetricResult
	Noise(img *decoder.CanonicalImage) models.MetricResult
	ColorBalance(img *decoder.CanonicalImage) models.MetricResult
	Saturation(img *decoder.CanonicalImage) models.MetricResult
	Resolution(img *decoder.CanonicalImage) models.ResolutionResult
}
