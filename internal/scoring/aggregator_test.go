package scoring

import (
	"math"
	"testing"

	"github.com/anime-shed/image-quality-go/pkg/models"
)

func tiers(sharp, bright, contrast, noise, color, sat models.QualityTier) map[models.Aspect]models.MetricResult {
	return map[models.Aspect]models.MetricResult{
		models.AspectSharpness:    {Quality: sharp},
		models.AspectBrightness:   {Quality: bright},
		models.AspectContrast:     {Quality: contrast},
		models.AspectNoise:        {Quality: noise},
		models.AspectColorBalance: {Quality: color},
		models.AspectSaturation:   {Quality: sat},
	}
}

func TestWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range Weights() {
		total += w
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", total)
	}
	if Weight(models.AspectResolution) != 0 {
		t.Error("resolution must not be weighted")
	}
}

func TestOverall(t *testing.T) {
	const (
		E = models.TierExcellent
		G = models.TierGood
		F = models.TierFair
		P = models.TierPoor
	)

	testCases := []struct {
		name      string
		results   map[models.Aspect]models.MetricResult
		wantScore float64
		wantTier  models.QualityTier
		wantSum   string
	}{
		// 365 percent-points -> 91.25, tie rounds to even
		{"mixed excellent", tiers(E, G, E, G, E, E), 91.2, E, SummaryExcellent},
		{"all excellent", tiers(E, E, E, E, E, E), 100, E, SummaryExcellent},
		{"all good", tiers(G, G, G, G, G, G), 75, G, SummaryGood},
		{"all fair", tiers(F, F, F, F, F, F), 50, P, SummaryPoor},
		{"all poor", tiers(P, P, P, P, P, P), 25, P, SummaryPoor},
		// 0.25*3 + 0.15*2 + 0.20*3 + 0.20*2 + 0.10*3 + 0.10*2 = 2.55 -> 63.75
		{"fair band", tiers(G, F, G, F, G, F), 63.8, F, SummaryFair},
		// 0.25*4 + 0.15*4 + 0.20*4 + 0.20*3 + 0.10*3 + 0.10*1 = 3.4 -> 85
		{"excellent boundary", tiers(E, E, E, G, G, P), 85, E, SummaryExcellent},
		// 0.25*4 + 0.15*4 + 0.20*4 + 0.20*2 + 0.10*2 + 0.10*2 = 3.2 -> 80
		{"good below boundary", tiers(E, E, E, F, F, F), 80, G, SummaryGood},
		// 0.25*1 + 0.15*2 + 0.20*1 + 0.20*1 + 0.10*2 + 0.10*1 = 1.25 -> 31.25
		{"poor quarter tie", tiers(P, F, P, P, F, P), 31.2, P, SummaryPoor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overall(tc.results)
			if got.Score != tc.wantScore {
				t.Errorf("score = %v, want %v", got.Score, tc.wantScore)
			}
			if got.Quality != tc.wantTier {
				t.Errorf("tier = %s, want %s", got.Quality, tc.wantTier)
			}
			if got.Summary != tc.wantSum {
				t.Errorf("summary = %q, want %q", got.Summary, tc.wantSum)
			}
		})
	}
}

func TestOverall_MissingAspectIsNotRenormalised(t *testing.T) {
	results := tiers(models.TierExcellent, models.TierExcellent, models.TierExcellent,
		models.TierExcellent, models.TierExcellent, models.TierExcellent)
	delete(results, models.AspectSharpness)

	got := Overall(results)
	// remaining weights sum to 0.75, all at 4 points -> 75%
	if got.Score != 75 {
		t.Errorf("score = %v, want 75", got.Score)
	}
	if got.Quality != models.TierGood {
		t.Errorf("tier = %s, want Good", got.Quality)
	}
}

func TestOverall_IgnoresUnweightedAspects(t *testing.T) {
	results := tiers(models.TierGood, models.TierGood, models.TierGood,
		models.TierGood, models.TierGood, models.TierGood)
	results[models.AspectResolution] = models.MetricResult{Quality: models.TierExcellent}

	if got := Overall(results); got.Score != 75 {
		t.Errorf("score = %v, want 75", got.Score)
	}
}

func TestOverall_Empty(t *testing.T) {
	got := Overall(nil)
	if got.Score != 0 || got.Quality != models.TierPoor {
		t.Errorf("expected 0/Poor for no aspects, got %v/%s", got.Score, got.Quality)
	}
}
