package validation

import (
	"github.com/anime-shed/image-quality-go/pkg/models"
)

// DescendingThresholds classifies metrics where a higher value is better.
// A value strictly above Excellent is Excellent, strictly above Good is Good,
// strictly above Fair is Fair, anything else Poor.
type DescendingThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// Classify returns the tier for value.
func (t DescendingThresholds) Classify(value float64) models.QualityTier {
	switch {
	case value > t.Excellent:
		return models.TierExcellent
	case value > t.Good:
		return models.TierGood
	case value > t.Fair:
		return models.TierFair
	default:
		return models.TierPoor
	}
}

// AscendingThresholds classifies metrics where a lower value is better.
// A value strictly below Excellent is Excellent, and so on down to Poor.
type AscendingThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// Classify returns the tier for value.
func (t AscendingThresholds) Classify(value float64) models.QualityTier {
	switch {
	case value < t.Excellent:
		return models.TierExcellent
	case value < t.Good:
		return models.TierGood
	case value < t.Fair:
		return models.TierFair
	default:
		return models.TierPoor
	}
}

// Band is a closed interval [Min, Max].
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether value lies inside the band, bounds included.
func (b Band) Contains(value float64) bool {
	return value >= b.Min && value <= b.Max
}

// BandThresholds classifies metrics that are best in the middle of the range.
// Bands are nested; the innermost band containing the value wins.
type BandThresholds struct {
	Excellent Band
	Good      Band
	Fair      Band
}

// Classify returns the tier for value.
func (t BandThresholds) Classify(value float64) models.QualityTier {
	switch {
	case t.Excellent.Contains(value):
		return models.TierExcellent
	case t.Good.Contains(value):
		return models.TierGood
	case t.Fair.Contains(value):
		return models.TierFair
	default:
		return models.TierPoor
	}
}

// Below reports whether value falls under the outermost band.
func (t BandThresholds) Below(value float64) bool {
	return value < t.Fair.Min
}

// QualityThresholds gathers the fixed tier boundaries of every metric.
type QualityThresholds struct {
	Sharpness    DescendingThresholds // Laplacian variance
	Brightness   BandThresholds       // mean luminance, 0-255
	Contrast     DescendingThresholds // luminance standard deviation
	Noise        AscendingThresholds  // residual standard deviation
	ColorBalance AscendingThresholds  // max channel deviation
	Saturation   BandThresholds       // mean HSV saturation, 0-255
}

// DefaultQualityThresholds returns the quality thresholds used by every assessment
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		Sharpness: DescendingThresholds{Excellent: 500, Good: 200, Fair: 100},
		Brightness: BandThresholds{
			Excellent: Band{Min: 80, Max: 180},
			Good:      Band{Min: 60, Max: 200},
			Fair:      Band{Min: 40, Max: 220},
		},
		Contrast:     DescendingThresholds{Excellent: 60, Good: 40, Fair: 25},
		Noise:        AscendingThresholds{Excellent: 5, Good: 10, Fair: 20},
		ColorBalance: AscendingThresholds{Excellent: 10, Good: 20, Fair: 35},
		Saturation: BandThresholds{
			Excellent: Band{Min: 80, Max: 150},
			Good:      Band{Min: 60, Max: 180},
			Fair:      Band{Min: 40, Max: 200},
		},
	}
}

// Resolution and detail buckets for the advisory resolution check.
const (
	HighResolutionPixels   = 8_000_000
	MediumResolutionPixels = 2_000_000

	RichDetailDensity     = 0.10
	ModerateDetailDensity = 0.05
)

// Resolution tier labels.
const (
	ResolutionHigh   = "High Resolution"
	ResolutionMedium = "Medium Resolution"
	ResolutionLow    = "Low Resolution"
)

// Detail tier labels.
const (
	DetailRich     = "Rich Detail"
	DetailModerate = "Moderate Detail"
	DetailLow      = "Low Detail"
)

// ClassifyResolution buckets a total pixel count.
func ClassifyResolution(totalPixels int) string {
	switch {
	case totalPixels >= HighResolutionPixels:
		return ResolutionHigh
	case totalPixels >= MediumResolutionPixels:
		return ResolutionMedium
	default:
		return ResolutionLow
	}
}

// ClassifyDetail buckets an edge density in [0, 1].
func ClassifyDetail(edgeDensity float64) string {
	switch {
	case edgeDensity > RichDetailDensity:
		return DetailRich
	case edgeDensity > ModerateDetailDensity:
		return DetailModerate
	default:
		return DetailLow
	}
}
