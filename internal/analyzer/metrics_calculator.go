package analyzer

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/anime-shed/image-quality-go/internal/decoder"
	"github.com/anime-shed/image-quality-go/pkg/models"
	"github.com/anime-shed/image-quality-go/pkg/validation"
)

// Metric labels reported alongside each score.
const (
	MetricSharpness    = "Laplacian Variance"
	MetricBrightness   = "Mean Brightness (0-255)"
	MetricContrast     = "Standard Deviation"
	MetricNoise        = "Noise Estimate (lower is better)"
	MetricColorBalance = "Max Channel Deviation"
	MetricSaturation   = "Mean Saturation (0-255)"
)

// Canny hysteresis thresholds for the detail estimate.
const (
	cannyLowThreshold  = 50
	cannyHighThreshold = 150
)

// metricsCalculator implements MetricsCalculator. It holds only the static
// thresholds, so one instance may be shared by concurrent assessments.
type metricsCalculator struct {
	thresholds validation.QualityThresholds
}

// NewMetricsCalculator creates a new metrics calculator using the default thresholds
func NewMetricsCalculator() MetricsCalculator {
	return &metricsCalculator{thresholds: validation.DefaultQualityThresholds()}
}

func lumaPlane(img *decoder.CanonicalImage) plane {
	return plane{width: img.Width(), height: img.Height(), pix: img.Luminance()}
}

func toFloats(pix []uint8) []float64 {
	out := make([]float64, len(pix))
	for i, v := range pix {
		out[i] = float64(v)
	}
	return out
}

// Sharpness scores focus as the variance of the Laplacian of luminance.
func (mc *metricsCalculator) Sharpness(img *decoder.CanonicalImage) models.MetricResult {
	variance := stat.PopVariance(laplacian(lumaPlane(img)), nil)
	tier := mc.thresholds.Sharpness.Classify(variance)

	var description string
	switch tier {
	case models.TierExcellent:
		description = "The image is very sharp with crisp details and clear edges."
	case models.TierGood:
		description = "The image has good sharpness with most details clearly visible."
	case models.TierFair:
		description = "The image has moderate sharpness but some details may appear soft."
	default:
		description = "The image appears blurry or out of focus with poor detail definition."
	}

	return models.MetricResult{
		Score:       round2(variance),
		Quality:     tier,
		Description: description,
		Metric:      MetricSharpness,
	}
}

// Brightness scores exposure as the mean luminance.
func (mc *metricsCalculator) Brightness(img *decoder.CanonicalImage) models.MetricResult {
	mean := stat.Mean(toFloats(img.Luminance()), nil)
	th := mc.thresholds.Brightness
	tier := th.Classify(mean)

	var description string
	switch {
	case tier == models.TierExcellent:
		description = "The image has optimal brightness with good visibility of details."
	case tier == models.TierGood:
		description = "The image brightness is acceptable with minor adjustments needed."
	case tier == models.TierFair:
		description = "The image is either slightly too dark or too bright."
	case th.Below(mean):
		description = "The image is too dark, making details difficult to see."
	default:
		description = "The image is overexposed with blown-out highlights."
	}

	return models.MetricResult{
		Score:       round2(mean),
		Quality:     tier,
		Description: description,
		Metric:      MetricBrightness,
	}
}

// Contrast scores tonal range as the standard deviation of luminance.
func (mc *metricsCalculator) Contrast(img *decoder.CanonicalImage) models.MetricResult {
	std := stat.PopStdDev(toFloats(img.Luminance()), nil)
	tier := mc.thresholds.Contrast.Classify(std)

	var description string
	switch tier {
	case models.TierExcellent:
		description = "The image has excellent contrast with a good range of tones."
	case models.TierGood:
		description = "The image has good contrast with adequate tonal separation."
	case models.TierFair:
		description = "The image has moderate contrast but could benefit from enhancement."
	default:
		description = "The image has poor contrast appearing flat or washed out."
	}

	return models.MetricResult{
		Score:       round2(std),
		Quality:     tier,
		Description: description,
		Metric:      MetricContrast,
	}
}

// Noise estimates sensor noise as the standard deviation of what a 5x5
// Gaussian blur removes from luminance. Lower is better.
func (mc *metricsCalculator) Noise(img *decoder.CanonicalImage) models.MetricResult {
	luma := lumaPlane(img)
	std := stat.PopStdDev(residual(luma, gaussianBlur5(luma)), nil)
	tier := mc.thresholds.Noise.Classify(std)

	var description string
	switch tier {
	case models.TierExcellent:
		description = "The image has minimal noise with clean, smooth areas."
	case models.TierGood:
		description = "The image has low noise levels that don't significantly impact quality."
	case models.TierFair:
		description = "The image has moderate noise that may be noticeable in smooth areas."
	default:
		description = "The image has high noise levels that significantly degrade quality."
	}

	return models.MetricResult{
		Score:       round2(std),
		Quality:     tier,
		Description: description,
		Metric:      MetricNoise,
	}
}

// channelMeans averages each colour channel over the whole image.
func channelMeans(img *decoder.CanonicalImage) (r, g, b float64) {
	pix := img.Pixels(decoder.OrderRGB)
	n := img.TotalPixels()
	var sr, sg, sb int64
	for i := 0; i < n; i++ {
		sr += int64(pix[i*3])
		sg += int64(pix[i*3+1])
		sb += int64(pix[i*3+2])
	}
	total := float64(n)
	return float64(sr) / total, float64(sg) / total, float64(sb) / total
}

// ColorBalance scores colour neutrality as the largest deviation of a channel
// mean from the mean of all three channels.
func (mc *metricsCalculator) ColorBalance(img *decoder.CanonicalImage) models.MetricResult {
	r, g, b := channelMeans(img)
	return mc.colorBalanceFromMeans(r, g, b)
}

func (mc *metricsCalculator) colorBalanceFromMeans(r, g, b float64) models.MetricResult {
	grand := stat.Mean([]float64{r, g, b}, nil)
	deviation := 0.0
	for _, c := range []float64{r, g, b} {
		if d := absFloat(c - grand); d > deviation {
			deviation = d
		}
	}
	tier := mc.thresholds.ColorBalance.Classify(deviation)

	var description string
	switch tier {
	case models.TierExcellent:
		description = "The image has excellent color balance with neutral tones."
	case models.TierGood:
		description = "The image has good color balance with minor color casts."
	case models.TierFair:
		description = "The image has noticeable color cast that may need correction."
	default:
		description = fmt.Sprintf("The image has a strong %s color cast affecting overall appearance.", dominantCast(r, g, b))
	}

	return models.MetricResult{
		Score:       round2(deviation),
		Quality:     tier,
		Description: description,
		Metric:      MetricColorBalance,
		ChannelMeans: &models.ChannelMeans{
			Red:   round2(r),
			Green: round2(g),
			Blue:  round2(b),
		},
	}
}

// dominantCast names the channel whose mean is strictly greatest. Ties fall
// through to bluish.
func dominantCast(r, g, b float64) string {
	switch {
	case r > g && r > b:
		return "reddish"
	case g > r && g > b:
		return "greenish"
	default:
		return "bluish"
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Saturation scores colourfulness as the mean HSV saturation.
func (mc *metricsCalculator) Saturation(img *decoder.CanonicalImage) models.MetricResult {
	pix := img.Pixels(decoder.OrderRGB)
	n := img.TotalPixels()
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(saturation(pix[i*3], pix[i*3+1], pix[i*3+2]))
	}
	mean := stat.Mean(values, nil)
	th := mc.thresholds.Saturation
	tier := th.Classify(mean)

	var description string
	switch {
	case tier == models.TierExcellent:
		description = "The image has optimal color saturation with vibrant but natural colors."
	case tier == models.TierGood:
		description = "The image has good color saturation with appealing colors."
	case tier == models.TierFair:
		description = "The image saturation could be improved for better color appeal."
	case th.Below(mean):
		description = "The image appears washed out with very low color saturation."
	default:
		description = "The image is oversaturated with unnatural, intense colors."
	}

	return models.MetricResult{
		Score:       round2(mean),
		Quality:     tier,
		Description: description,
		Metric:      MetricSaturation,
	}
}

// Resolution buckets pixel count and edge density. It is advisory and does
// not feed the overall score.
func (mc *metricsCalculator) Resolution(img *decoder.CanonicalImage) models.ResolutionResult {
	width, height := img.Width(), img.Height()
	total := img.TotalPixels()

	density := 0.0
	if total > 0 {
		edges := cannyEdges(lumaPlane(img), cannyLowThreshold, cannyHighThreshold)
		density = float64(edges) / float64(total)
	}

	resQuality := validation.ClassifyResolution(total)
	detailQuality := validation.ClassifyDetail(density)
	dims := fmt.Sprintf("%dx%d", width, height)
	prefix := fmt.Sprintf("The image is %s (%s)", strings.ToLower(resQuality), dims)

	var description string
	switch detailQuality {
	case validation.DetailRich:
		description = prefix + " with rich detail and sharp edges."
	case validation.DetailModerate:
		description = prefix + " with moderate detail levels."
	default:
		description = prefix + " with limited detail or smooth content."
	}

	return models.ResolutionResult{
		Resolution:        dims,
		Width:             width,
		Height:            height,
		TotalPixels:       total,
		EdgeDensity:       round4(density),
		ResolutionQuality: resQuality,
		DetailQuality:     detailQuality,
		Description:       description,
	}
}
