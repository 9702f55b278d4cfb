package report

import (
	"github.com/anime-shed/image-quality-go/pkg/models"
)

// Recommendation texts.
const (
	RecSharpness      = "Consider using a tripod or faster shutter speed to improve sharpness"
	RecBrighten       = "Increase exposure or adjust shadows to brighten the image"
	RecDarken         = "Reduce exposure or adjust highlights to prevent overexposure"
	RecContrast       = "Enhance contrast using curves or levels adjustment"
	RecNoise          = "Apply noise reduction or use lower ISO settings when capturing"
	RecColorBalance   = "Adjust white balance or apply color correction"
	RecMoreSaturation = "Increase color saturation for more vibrant appearance"
	RecLessSaturation = "Reduce saturation for more natural color appearance"
	RecNone           = "Image quality is good - no major improvements needed"
)

// Score splits for the two-way recommendations.
const (
	brightenBelow = 80
	saturateBelow = 60
)

// Recommendations returns one advisory sentence per weighted aspect rated
// Fair or Poor, in report order, or the single RecNone sentence.
func Recommendations(r *models.AssessmentReport) []string {
	var recs []string

	if r.Sharpness.Quality.NeedsAttention() {
		recs = append(recs, RecSharpness)
	}
	if r.Brightness.Quality.NeedsAttention() {
		if r.Brightness.Score < brightenBelow {
			recs = append(recs, RecBrighten)
		} else {
			recs = append(recs, RecDarken)
		}
	}
	if r.Contrast.Quality.NeedsAttention() {
		recs = append(recs, RecContrast)
	}
	if r.Noise.Quality.NeedsAttention() {
		recs = append(recs, RecNoise)
	}
	if r.ColorBalance.Quality.NeedsAttention() {
		recs = append(recs, RecColorBalance)
	}
	if r.Saturation.Quality.NeedsAttention() {
		if r.Saturation.Score < saturateBelow {
			recs = append(recs, RecMoreSaturation)
		} else {
			recs = append(recs, RecLessSaturation)
		}
	}

	if len(recs) == 0 {
		recs = append(recs, RecNone)
	}
	return recs
}
