package models

// QualityTier is the categorical rating assigned to each aspect and to the
// overall assessment. Tiers are totally ordered: Excellent > Good > Fair > Poor.
type QualityTier string

const (
	TierExcellent QualityTier = "Excellent"
	TierGood      QualityTier = "Good"
	TierFair      QualityTier = "Fair"
	TierPoor      QualityTier = "Poor"
)

// Points returns the integer weight used by the overall score.
// Unknown tiers are worth nothing.
func (t QualityTier) Points() int {
	switch t {
	case TierExcellent:
		return 4
	case TierGood:
		return 3
	case TierFair:
		return 2
	case TierPoor:
		return 1
	default:
		return 0
	}
}

// Better reports whether t ranks strictly above other.
func (t QualityTier) Better(other QualityTier) bool {
	return t.Points() > other.Points()
}

// NeedsAttention reports whether the tier is low enough to warrant a
// recommendation.
func (t QualityTier) NeedsAttention() bool {
	return t == TierFair || t == TierPoor
}

// Aspect names one quality dimension of an assessment.
type Aspect string

const (
	AspectSharpness    Aspect = "sharpness"
	AspectBrightness   Aspect = "brightness"
	AspectContrast     Aspect = "contrast"
	AspectNoise        Aspect = "noise"
	AspectColorBalance Aspect = "color_balance"
	AspectSaturation   Aspect = "saturation"
	AspectResolution   Aspect = "resolution"
)

// WeightedAspects lists the aspects that contribute to the overall score,
// in report order.
func WeightedAspects() []Aspect {
	return []Aspect{
		AspectSharpness,
		AspectBrightness,
		AspectContrast,
		AspectNoise,
		AspectColorBalance,
		AspectSaturation,
	}
}

// ChannelMeans holds per-channel averages on the 0-255 scale.
type ChannelMeans struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// MetricResult is the outcome of one weighted quality metric.
// Score is rounded to two decimals; the tier was decided on the unrounded value.
type MetricResult struct {
	Score        float64       `json:"score"`
	Quality      QualityTier   `json:"quality"`
	Description  string        `json:"description"`
	Metric       string        `json:"metric"`
	ChannelMeans *ChannelMeans `json:"channel_means,omitempty"`
}

// ResolutionResult is the advisory resolution/detail assessment. It does not
// take part in the overall score.
type ResolutionResult struct {
	Resolution        string  `json:"resolution"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	TotalPixels       int     `json:"total_pixels"`
	EdgeDensity       float64 `json:"edge_density"`
	ResolutionQuality string  `json:"resolution_quality"`
	DetailQuality     string  `json:"detail_quality"`
	Description       string  `json:"description"`
}

// OverallResult is the weighted summary of the six scored aspects.
type OverallResult struct {
	Score   float64     `json:"score"`
	Quality QualityTier `json:"quality"`
	Summary string      `json:"summary"`
}

// AssessmentReport is the complete result of assessing one image.
// It is only ever handed out fully populated.
type AssessmentReport struct {
	ImagePath    string           `json:"image_path"`
	Sharpness    MetricResult     `json:"sharpness"`
	Brightness   MetricResult     `json:"brightness"`
	Contrast     MetricResult     `json:"contrast"`
	Noise        MetricResult     `json:"noise"`
	ColorBalance MetricResult     `json:"color_balance"`
	Saturation   MetricResult     `json:"saturation"`
	Resolution   ResolutionResult `json:"resolution"`
	Overall      OverallResult    `json:"overall"`
}

// Weighted returns a fresh aspect -> result mapping of the six scored aspects.
func (r *AssessmentReport) Weighted() map[Aspect]MetricResult {
	return map[Aspect]MetricResult{
		AspectSharpness:    r.Sharpness,
		AspectBrightness:   r.Brightness,
		AspectContrast:     r.Contrast,
		AspectNoise:        r.Noise,
		AspectColorBalance: r.ColorBalance,
		AspectSaturation:   r.Saturation,
	}
}

// Metric returns the result for a weighted aspect.
func (r *AssessmentReport) Metric(aspect Aspect) (MetricResult, bool) {
	m, ok := r.Weighted()[aspect]
	return m, ok
}
