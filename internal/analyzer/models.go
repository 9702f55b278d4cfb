package analyzer

import (
	"github.com/anime-shed/image-quality-go/pkg/models"
)

// BatchResult is the outcome of one path in AssessBatch. Exactly one of
// Report and Err is set.
type BatchResult struct {
	Path   string
	Report *models.AssessmentReport
	Err    error
}
