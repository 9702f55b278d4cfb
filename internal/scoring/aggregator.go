// Package scoring reduces the per-aspect tiers of an assessment to one
// overall score.
package scoring

import (
	"math"

	"github.com/anime-shed/image-quality-go/pkg/models"
)

// weightPercents holds each aspect's share of the overall score in whole
// percent. They sum to 100.
var weightPercents = map[models.Aspect]int{
	models.AspectSharpness:    25,
	models.AspectBrightness:   15,
	models.AspectContrast:     20,
	models.AspectNoise:        20,
	models.AspectColorBalance: 10,
	models.AspectSaturation:   10,
}

// Overall tier cut-offs on the 0-100 scale.
const (
	excellentPercent = 85
	goodPercent      = 70
	fairPercent      = 55
)

// Overall summaries, one per tier.
const (
	SummaryExcellent = "This is a high-quality image with excellent technical characteristics."
	SummaryGood      = "This is a good quality image with minor areas for improvement."
	SummaryFair      = "This image has acceptable quality but would benefit from enhancement."
	SummaryPoor      = "This image has significant quality issues that should be addressed."
)

// Weight returns the fractional weight of aspect, 0 for unweighted aspects.
func Weight(aspect models.Aspect) float64 {
	return float64(weightPercents[aspect]) / 100
}

// Weights returns a copy of every weighted aspect's fractional weight.
func Weights() map[models.Aspect]float64 {
	out := make(map[models.Aspect]float64, len(weightPercents))
	for aspect := range weightPercents {
		out[aspect] = Weight(aspect)
	}
	return out
}

// Overall combines the weighted aspects into an OverallResult.
//
// An aspect missing from results contributes nothing and its weight is not
// redistributed, so a partial map scores lower than a complete one.
// Unweighted aspects in results are ignored.
func Overall(results map[models.Aspect]models.MetricResult) models.OverallResult {
	// Accumulate in integer percent-points so quarter percents stay exact;
	// ties round to even.
	sum := 0
	for _, aspect := range models.WeightedAspects() {
		result, ok := results[aspect]
		if !ok {
			continue
		}
		sum += weightPercents[aspect] * result.Quality.Points()
	}

	percentage := float64(sum) / 4
	tier, summary := classify(percentage)

	return models.OverallResult{
		Score:   math.RoundToEven(percentage*10) / 10,
		Quality: tier,
		Summary: summary,
	}
}

func classify(percentage float64) (models.QualityTier, string) {
	switch {
	case percentage >= excellentPercent:
		return models.TierExcellent, SummaryExcellent
	case percentage >= goodPercent:
		return models.TierGood, SummaryGood
	case percentage >= fairPercent:
		return models.TierFair, SummaryFair
	default:
		return models.TierPoor, SummaryPoor
	}
}
