package validation

import (
	"testing"

	"github.com/anime-shed/image-quality-go/pkg/models"
)

type tierCase struct {
	value float64
	want  models.QualityTier
}

func runTierCases(t *testing.T, name string, classify func(float64) models.QualityTier, cases []tierCase) {
	t.Helper()
	for _, tc := range cases {
		if got := classify(tc.value); got != tc.want {
			t.Errorf("%s(%v) = %s, want %s", name, tc.value, got, tc.want)
		}
	}
}

func TestSharpnessBoundaries(t *testing.T) {
	th := DefaultQualityThresholds().Sharpness
	runTierCases(t, "sharpness", th.Classify, []tierCase{
		{500.01, models.TierExcellent},
		{500, models.TierGood},
		{200.01, models.TierGood},
		{200, models.TierFair},
		{100.01, models.TierFair},
		{100, models.TierPoor},
		{0, models.TierPoor},
	})
}

func TestBrightnessBoundaries(t *testing.T) {
	th := DefaultQualityThresholds().Brightness
	runTierCases(t, "brightness", th.Classify, []tierCase{
		{80, models.TierExcellent},
		{180, models.TierExcellent},
		{79.99, models.TierGood},
		{180.01, models.TierGood},
		{60, models.TierGood},
		{200, models.TierGood},
		{59.99, models.TierFair},
		{200.01, models.TierFair},
		{40, models.TierFair},
		{220, models.TierFair},
		{39.99, models.TierPoor},
		{220.01, models.TierPoor},
	})

	if !th.Below(39.99) || th.Below(40) || th.Below(230) {
		t.Error("Below must only hold under the outermost band")
	}
}

func TestContrastBoundaries(t *testing.T) {
	th := DefaultQualityThresholds().Contrast
	runTierCases(t, "contrast", th.Classify, []tierCase{
		{60.01, models.TierExcellent},
		{60, models.TierGood},
		{40, models.TierFair},
		{25.01, models.TierFair},
		{25, models.TierPoor},
	})
}

func TestNoiseBoundaries(t *testing.T) {
	th := DefaultQualityThresholds().Noise
	runTierCases(t, "noise", th.Classify, []tierCase{
		{4.99, models.TierExcellent},
		{5, models.TierGood},
		{9.99, models.TierGood},
		{10, models.TierFair},
		{19.99, models.TierFair},
		{20, models.TierPoor},
	})
}

func TestColorBalanceBoundaries(t *testing.T) {
	th := DefaultQualityThresholds().ColorBalance
	runTierCases(t, "color_balance", th.Classify, []tierCase{
		{0, models.TierExcellent},
		{9.99, models.TierExcellent},
		{10, models.TierGood},
		{20, models.TierFair},
		{34.99, models.TierFair},
		{35, models.TierPoor},
	})
}

func TestSaturationBoundaries(t *testing.T) {
	th := DefaultQualityThresholds().Saturation
	runTierCases(t, "saturation", th.Classify, []tierCase{
		{80, models.TierExcellent},
		{150, models.TierExcellent},
		{79.99, models.TierGood},
		{150.01, models.TierGood},
		{180, models.TierGood},
		{180.01, models.TierFair},
		{40, models.TierFair},
		{200, models.TierFair},
		{39.99, models.TierPoor},
		{200.01, models.TierPoor},
	})
}

func TestClassifyResolution(t *testing.T) {
	testCases := []struct {
		pixels int
		want   string
	}{
		{8_000_000, ResolutionHigh},
		{7_999_999, ResolutionMedium},
		{2_000_000, ResolutionMedium},
		{1_999_999, ResolutionLow},
		{0, ResolutionLow},
	}
	for _, tc := range testCases {
		if got := ClassifyResolution(tc.pixels); got != tc.want {
			t.Errorf("ClassifyResolution(%d) = %q, want %q", tc.pixels, got, tc.want)
		}
	}
}

func TestClassifyDetail(t *testing.T) {
	testCases := []struct {
		density float64
		want    string
	}{
		{0.2, DetailRich},
		{0.1, DetailModerate},
		{0.0501, DetailModerate},
		{0.05, DetailLow},
		{0, DetailLow},
	}
	for _, tc := range testCases {
		if got := ClassifyDetail(tc.density); got != tc.want {
			t.Errorf("ClassifyDetail(%v) = %q, want %q", tc.density, got, tc.want)
		}
	}
}
